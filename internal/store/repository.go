package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"medadmit/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrUnknownTable = errors.New("unknown table")
)

// Repository provides create/list/count/get/delete over one entity table.
type Repository[T domain.Record] struct {
	db *gorm.DB
}

// NewRepository creates a repository for T
func NewRepository[T domain.Record](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Create inserts rec, assigning its id and creation timestamp.
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}
	return nil
}

// List returns rows newest first. A non-positive limit returns every row.
func (r *Repository[T]) List(ctx context.Context, limit int) ([]T, error) {
	var zero T
	out := []T{}
	q := r.db.WithContext(ctx).Order(zero.SortColumn() + " DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of rows
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Get returns the row with id
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// DeleteAudited removes the row with id and writes entry, completed with a
// JSON snapshot of the removed row, in the same transaction.
func (r *Repository[T]) DeleteAudited(ctx context.Context, id string, entry domain.AuditLog) (*T, error) {
	var deleted T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Delete(&deleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		snapshot, err := json.Marshal(deleted)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		entry.Action = domain.AuditActionDelete
		entry.ResourceType = deleted.TableName()
		entry.ResourceID = deleted.GetID()
		entry.Snapshot = string(snapshot)
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
