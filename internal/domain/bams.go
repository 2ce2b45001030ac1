package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultBamsCategory       = "general"
	DefaultBamsDomicileState  = "uttar-pradesh"
	DefaultBamsCounselingType = "state"
)

// BamsAdmission is an application for BAMS (Ayurveda) admission counselling
type BamsAdmission struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName       string    `gorm:"size:100;not null" json:"fullName"`
	Email          string    `gorm:"size:255;not null;index" json:"email"`
	Phone          string    `gorm:"size:20;not null" json:"phone"`
	Category       string    `gorm:"size:20;not null;default:'general'" json:"category"`
	DomicileState  string    `gorm:"size:100;not null;default:'uttar-pradesh'" json:"domicileState"`
	CounselingType string    `gorm:"size:20;not null;default:'state'" json:"counselingType"`
	Message        *string   `gorm:"type:text" json:"message"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for BamsAdmission
func (BamsAdmission) TableName() string {
	return TableBamsAdmissions
}

// BeforeCreate hook
func (b *BamsAdmission) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&b.ID, &b.CreatedAt)
	if b.Category == "" {
		b.Category = DefaultBamsCategory
	}
	if b.DomicileState == "" {
		b.DomicileState = DefaultBamsDomicileState
	}
	if b.CounselingType == "" {
		b.CounselingType = DefaultBamsCounselingType
	}
	return nil
}

func (b BamsAdmission) GetID() string { return b.ID }
func (BamsAdmission) SortColumn() string { return "created_at" }

func (BamsAdmission) Columns() []string {
	return []string{"id", "fullName", "email", "phone", "category", "domicileState", "counselingType", "message", "createdAt"}
}

func (b BamsAdmission) Values() []string {
	return []string{b.ID, b.FullName, b.Email, b.Phone, b.Category, b.DomicileState, b.CounselingType, deref(b.Message), formatTime(b.CreatedAt)}
}
