package store

import (
	"context"

	"gorm.io/gorm"

	"medadmit/internal/domain"
)

// AuditRepository stores admin audit entries
type AuditRepository struct {
	*Repository[domain.AuditLog]
}

// NewAuditRepository creates an audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{Repository: NewRepository[domain.AuditLog](db)}
}

// Record appends entry
func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	return r.Create(ctx, entry)
}
