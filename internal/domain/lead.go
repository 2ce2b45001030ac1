package domain

import (
	"time"

	"gorm.io/gorm"
)

// DefaultLeadSource tags leads that arrive without an explicit channel.
const DefaultLeadSource = "chatbot"

// Lead represents a counselling enquiry captured by the chatbot or landing forms
type Lead struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:255;not null;index" json:"email"`
	Phone          string    `gorm:"size:20;not null" json:"phone"`
	Exam           string    `gorm:"size:20;not null" json:"exam"`
	PreferredState *string   `gorm:"size:100" json:"preferredState"`
	Message        *string   `gorm:"type:text" json:"message"`
	Source         string    `gorm:"size:50;not null;default:'chatbot'" json:"source"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return TableLeads
}

// BeforeCreate hook
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&l.ID, &l.CreatedAt)
	if l.Source == "" {
		l.Source = DefaultLeadSource
	}
	return nil
}

func (l Lead) GetID() string { return l.ID }
func (Lead) SortColumn() string { return "created_at" }

func (Lead) Columns() []string {
	return []string{"id", "name", "email", "phone", "exam", "preferredState", "message", "source", "createdAt"}
}

func (l Lead) Values() []string {
	return []string{l.ID, l.Name, l.Email, l.Phone, l.Exam, deref(l.PreferredState), deref(l.Message), l.Source, formatTime(l.CreatedAt)}
}
