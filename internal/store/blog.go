package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"medadmit/internal/domain"
)

// BlogRepository adds slug lookup and publication filtering to the blog table.
type BlogRepository struct {
	*Repository[domain.Blog]
}

// NewBlogRepository creates a blog repository
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{Repository: NewRepository[domain.Blog](db)}
}

// GetBySlug returns the post with slug. With publishedOnly, drafts are
// reported as ErrNotFound.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error) {
	var blog domain.Blog
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("status = ?", domain.BlogStatusPublished)
	}
	if err := q.First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// ListPublished returns published posts newest first, optionally only those
// carrying tag.
func (r *BlogRepository) ListPublished(ctx context.Context, tag string) ([]domain.Blog, error) {
	var blogs []domain.Blog
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.BlogStatusPublished).
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Blog, 0, len(blogs))
	for _, b := range blogs {
		if tag == "" || hasTag(b, tag) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Update persists every editable field of blog
func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	res := r.db.WithContext(ctx).Model(blog).Select("*").Omit("id", "created_at").Updates(blog)
	if res.Error != nil {
		if IsDuplicate(res.Error) {
			return fmt.Errorf("%w: %v", ErrDuplicate, res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func hasTag(b domain.Blog, tag string) bool {
	for _, t := range b.TagList() {
		if t == tag {
			return true
		}
	}
	return false
}
