package domain

import (
	"time"

	"gorm.io/gorm"
)

// Contact represents a contact form submission
type Contact struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName       string    `gorm:"size:100;not null" json:"fullName"`
	Email          string    `gorm:"size:255;not null;index" json:"email"`
	Phone          string    `gorm:"size:20;not null" json:"phone"`
	Exam           string    `gorm:"size:20;not null" json:"exam"`
	PreferredState *string   `gorm:"size:100" json:"preferredState"`
	Message        *string   `gorm:"type:text" json:"message"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return TableContacts
}

// BeforeCreate hook
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&c.ID, &c.CreatedAt)
	return nil
}

func (c Contact) GetID() string { return c.ID }
func (Contact) SortColumn() string { return "created_at" }

func (Contact) Columns() []string {
	return []string{"id", "fullName", "email", "phone", "exam", "preferredState", "message", "createdAt"}
}

func (c Contact) Values() []string {
	return []string{c.ID, c.FullName, c.Email, c.Phone, c.Exam, deref(c.PreferredState), deref(c.Message), formatTime(c.CreatedAt)}
}
