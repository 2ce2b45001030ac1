package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Table names exposed to the admin dashboard and export.
const (
	TableLeads          = "leads"
	TableContacts       = "contacts"
	TableNewsletters    = "newsletters"
	TableBamsAdmissions = "bams_admissions"
	TableBlogs          = "blogs"
	TableAuditLogs      = "audit_logs"
)

// Record is implemented by every persisted entity so that admin views and
// exports can treat tables uniformly.
type Record interface {
	TableName() string
	GetID() string
	// SortColumn is the timestamp column used for newest-first listing.
	SortColumn() string
	// Columns returns the JSON field names in display order.
	Columns() []string
	// Values returns the record's fields formatted for display, aligned with Columns.
	Values() []string
}

const timestampLayout = time.RFC3339

// assignIdentity fills the immutable id and creation timestamp on insert.
func assignIdentity(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// truncateRunes cuts s to at most n characters without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for blank strings so optional columns store NULL.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
