package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"medadmit/internal/domain"
)

// Table is the type-erased view of a repository used by the admin dashboard,
// the delete endpoint and exports.
type Table interface {
	Name() string
	Columns() []string
	Count(ctx context.Context) (int64, error)
	// Recent returns rows newest first; limit <= 0 returns all rows.
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
	Delete(ctx context.Context, id string, audit domain.AuditLog) (domain.Record, error)
}

type table[T domain.Record] struct {
	repo *Repository[T]
}

func (t table[T]) Name() string {
	var zero T
	return zero.TableName()
}

func (t table[T]) Columns() []string {
	var zero T
	return zero.Columns()
}

func (t table[T]) Count(ctx context.Context) (int64, error) {
	return t.repo.Count(ctx)
}

func (t table[T]) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := t.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

func (t table[T]) Delete(ctx context.Context, id string, audit domain.AuditLog) (domain.Record, error) {
	deleted, err := t.repo.DeleteAudited(ctx, id, audit)
	if err != nil {
		return nil, err
	}
	return *deleted, nil
}

// Registry resolves admin table names in a fixed display order.
type Registry struct {
	order  []string
	tables map[string]Table
}

func newRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		r.order = append(r.order, t.Name())
		r.tables[t.Name()] = t
	}
	return r
}

// Lookup returns the table called name
func (r *Registry) Lookup(name string) (Table, error) {
	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// All returns every table in display order
func (r *Registry) All() []Table {
	out := make([]Table, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}

// Names returns the registered table names in display order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Stores groups the repositories backing the service.
type Stores struct {
	Leads          *Repository[domain.Lead]
	Contacts       *Repository[domain.Contact]
	Newsletters    *Repository[domain.Newsletter]
	BamsAdmissions *Repository[domain.BamsAdmission]
	Blogs          *BlogRepository
	Audit          *AuditRepository
	Tables         *Registry
}

// New builds every repository over db
func New(db *gorm.DB) *Stores {
	s := &Stores{
		Leads:          NewRepository[domain.Lead](db),
		Contacts:       NewRepository[domain.Contact](db),
		Newsletters:    NewRepository[domain.Newsletter](db),
		BamsAdmissions: NewRepository[domain.BamsAdmission](db),
		Blogs:          NewBlogRepository(db),
		Audit:          NewAuditRepository(db),
	}
	s.Tables = newRegistry(
		table[domain.Lead]{repo: s.Leads},
		table[domain.Contact]{repo: s.Contacts},
		table[domain.Newsletter]{repo: s.Newsletters},
		table[domain.BamsAdmission]{repo: s.BamsAdmissions},
		table[domain.Blog]{repo: s.Blogs.Repository},
	)
	return s
}
