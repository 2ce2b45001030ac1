package domain

import (
	"time"

	"gorm.io/gorm"
)

// Audit actions recorded for admin activity.
const (
	AuditActionLogin       = "login"
	AuditActionLoginFailed = "login_failed"
	AuditActionLogout      = "logout"
	AuditActionDelete      = "delete"
	AuditActionExport      = "export"
	AuditActionBlogCreate  = "blog_create"
	AuditActionBlogUpdate  = "blog_update"
)

// AuditLog records an admin action. Deletes carry a JSON snapshot of the
// removed row so the record can be reconstructed.
type AuditLog struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Action       string    `gorm:"size:32;not null;index" json:"action"`
	Actor        string    `gorm:"size:100;not null" json:"actor"`
	ResourceType string    `gorm:"size:50" json:"resourceType"`
	ResourceID   string    `gorm:"size:36;index" json:"resourceId"`
	Snapshot     string    `gorm:"type:text" json:"snapshot"`
	IPAddress    string    `gorm:"size:64" json:"ipAddress"`
	UserAgent    string    `gorm:"size:255" json:"userAgent"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return TableAuditLogs
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&a.ID, &a.CreatedAt)
	a.Actor = truncateRunes(a.Actor, 100)
	a.IPAddress = truncateRunes(a.IPAddress, 64)
	a.UserAgent = truncateRunes(a.UserAgent, 255)
	return nil
}

func (a AuditLog) GetID() string { return a.ID }
func (AuditLog) SortColumn() string { return "created_at" }

func (AuditLog) Columns() []string {
	return []string{"id", "action", "actor", "resourceType", "resourceId", "snapshot", "ipAddress", "userAgent", "createdAt"}
}

func (a AuditLog) Values() []string {
	return []string{a.ID, a.Action, a.Actor, a.ResourceType, a.ResourceID, a.Snapshot, a.IPAddress, a.UserAgent, formatTime(a.CreatedAt)}
}
