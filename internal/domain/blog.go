package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// Blog is an admin-authored article. Only published posts are visible publicly,
// looked up by their unique slug.
type Blog struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Slug          string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Excerpt       string    `gorm:"size:500;not null" json:"excerpt"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	FeaturedImage *string   `gorm:"size:500" json:"featuredImage"`
	Tags          *string   `gorm:"size:500" json:"tags"`
	Status        string    `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for Blog
func (Blog) TableName() string {
	return TableBlogs
}

// BeforeCreate hook
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	assignIdentity(&b.ID, &b.CreatedAt)
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	if b.Status == "" {
		b.Status = BlogStatusDraft
	}
	return nil
}

// BeforeUpdate hook
func (b *Blog) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// IsPublished reports whether the post is publicly visible
func (b Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// TagList splits the comma separated tags column.
func (b Blog) TagList() []string {
	if b.Tags == nil {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(*b.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (b Blog) GetID() string { return b.ID }
func (Blog) SortColumn() string { return "created_at" }

func (Blog) Columns() []string {
	return []string{"id", "title", "slug", "excerpt", "content", "featuredImage", "tags", "status", "createdAt", "updatedAt"}
}

func (b Blog) Values() []string {
	return []string{b.ID, b.Title, b.Slug, b.Excerpt, b.Content, deref(b.FeaturedImage), deref(b.Tags), b.Status, formatTime(b.CreatedAt), formatTime(b.UpdatedAt)}
}
