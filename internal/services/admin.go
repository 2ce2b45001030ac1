package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medadmit/internal/domain"
	"medadmit/internal/export"
	"medadmit/internal/logging"
	"medadmit/internal/metrics"
	"medadmit/internal/store"
	apperrors "medadmit/pkg/errors"
)

const auditTrailLimit = 200

// TableSnapshot is one table as shown on the dashboard
type TableSnapshot struct {
	Name    string
	Columns []string
	Total   int64
	Records []domain.Record
}

// ExportFile is a rendered table export
type ExportFile struct {
	Filename    string
	ContentType string
	Rows        int
	Body        []byte
}

// AdminService backs the dashboard, deletes and exports
type AdminService struct {
	tables      *store.Registry
	audit       *store.AuditRepository
	recentLimit int
	now         func() time.Time
	log         *logrus.Entry
}

// NewAdminService creates a new admin service showing recentLimit rows per
// table on the dashboard.
func NewAdminService(stores *store.Stores, recentLimit int) *AdminService {
	return &AdminService{
		tables:      stores.Tables,
		audit:       stores.Audit,
		recentLimit: recentLimit,
		now:         time.Now,
		log:         logging.For("admin"),
	}
}

// TableNames lists the tables admins can browse, delete from and export
func (s *AdminService) TableNames() []string {
	return s.tables.Names()
}

// Dashboard returns every table with its row count and most recent rows
func (s *AdminService) Dashboard(ctx context.Context) ([]TableSnapshot, error) {
	return s.snapshots(ctx, s.tables.All(), s.recentLimit)
}

// Data returns all rows of every table, or only of table when it is set
func (s *AdminService) Data(ctx context.Context, table string) ([]TableSnapshot, error) {
	tables := s.tables.All()
	if table != "" {
		t, err := s.lookup(table)
		if err != nil {
			return nil, err
		}
		tables = []store.Table{t}
	}
	return s.snapshots(ctx, tables, 0)
}

func (s *AdminService) snapshots(ctx context.Context, tables []store.Table, limit int) ([]TableSnapshot, error) {
	out := make([]TableSnapshot, 0, len(tables))
	for _, t := range tables {
		total, err := t.Count(ctx)
		if err != nil {
			return nil, s.internal("Failed to load dashboard", t.Name(), err)
		}
		records, err := t.Recent(ctx, limit)
		if err != nil {
			return nil, s.internal("Failed to load dashboard", t.Name(), err)
		}
		out = append(out, TableSnapshot{
			Name:    t.Name(),
			Columns: t.Columns(),
			Total:   total,
			Records: records,
		})
	}
	return out, nil
}

// Delete permanently removes one row and records it in the audit trail.
func (s *AdminService) Delete(ctx context.Context, table, id, actor string, meta RequestMeta) error {
	t, err := s.lookup(table)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.New(apperrors.ErrCodeBadRequest, "Missing record id")
	}

	if _, err := t.Delete(ctx, id, *meta.audit(domain.AuditActionDelete, actor)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.ErrCodeNotFound, "Record not found")
		}
		return s.internal("Failed to delete record", table, err)
	}

	metrics.RecordDelete(table)
	s.log.WithFields(logrus.Fields{"table": table, "id": id, "actor": actor}).Info("Record deleted")
	return nil
}

// Export renders every row of table in format. An empty format means CSV.
func (s *AdminService) Export(ctx context.Context, table, format, actor string, meta RequestMeta) (*ExportFile, error) {
	t, err := s.lookup(table)
	if err != nil {
		return nil, err
	}
	f, err := export.Lookup(format)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid export format", err)
	}

	records, err := t.Recent(ctx, 0)
	if err != nil {
		return nil, s.internal("Failed to export table", table, err)
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}

	var buf bytes.Buffer
	if err := f.Write(&buf, table, t.Columns(), rows); err != nil {
		return nil, s.internal("Failed to export table", table, err)
	}

	entry := meta.audit(domain.AuditActionExport, actor)
	entry.ResourceType = table
	entry.Snapshot = fmt.Sprintf(`{"format":%q,"rows":%d}`, f.Name, len(rows))
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.WithError(err).Warn("Failed to write audit entry")
	}

	metrics.RecordExport(table, f.Name)
	s.log.WithFields(logrus.Fields{"table": table, "format": f.Name, "rows": len(rows), "actor": actor}).Info("Table exported")

	return &ExportFile{
		Filename:    f.Filename(table, s.now()),
		ContentType: f.ContentType,
		Rows:        len(rows),
		Body:        buf.Bytes(),
	}, nil
}

// AuditTrail returns the most recent audit entries
func (s *AdminService) AuditTrail(ctx context.Context) ([]domain.AuditLog, error) {
	entries, err := s.audit.List(ctx, auditTrailLimit)
	if err != nil {
		return nil, s.internal("Failed to load audit trail", domain.TableAuditLogs, err)
	}
	return entries, nil
}

func (s *AdminService) lookup(table string) (store.Table, error) {
	t, err := s.tables.Lookup(table)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid table name", err)
	}
	return t, nil
}

func (s *AdminService) internal(message, table string, err error) error {
	s.log.WithError(err).WithField("table", table).Error(message)
	return apperrors.Wrap(apperrors.ErrCodeInternalError, message, err)
}
