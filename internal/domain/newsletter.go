package domain

import (
	"time"

	"gorm.io/gorm"
)

// Newsletter is a mailing list subscription. Email is unique across rows.
type Newsletter struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	SubscribedAt time.Time `gorm:"not null;index" json:"subscribedAt"`
}

// TableName specifies the table name for Newsletter
func (Newsletter) TableName() string {
	return TableNewsletters
}

// BeforeCreate hook
func (n *Newsletter) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&n.ID, &n.SubscribedAt)
	return nil
}

func (n Newsletter) GetID() string { return n.ID }
func (Newsletter) SortColumn() string { return "subscribed_at" }

func (Newsletter) Columns() []string {
	return []string{"id", "email", "subscribedAt"}
}

func (n Newsletter) Values() []string {
	return []string{n.ID, n.Email, formatTime(n.SubscribedAt)}
}
