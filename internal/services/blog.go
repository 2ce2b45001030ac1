package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"medadmit/internal/content"
	"medadmit/internal/domain"
	"medadmit/internal/logging"
	"medadmit/internal/store"
	"medadmit/internal/validation"
	apperrors "medadmit/pkg/errors"
)

const duplicateSlugMessage = "slug is already in use"

// BlogPost is a published post with its Markdown rendered to HTML
type BlogPost struct {
	domain.Blog
	ContentHTML string `json:"contentHtml"`
}

// BlogService serves published posts publicly and full CRUD to admins
type BlogService struct {
	blogs    *store.BlogRepository
	audit    *store.AuditRepository
	renderer *content.Renderer
	log      *logrus.Entry
}

// NewBlogService creates a new blog service
func NewBlogService(blogs *store.BlogRepository, audit *store.AuditRepository) *BlogService {
	return &BlogService{
		blogs:    blogs,
		audit:    audit,
		renderer: content.NewRenderer(),
		log:      logging.For("blog"),
	}
}

// ListPublished returns published posts newest first, optionally filtered by tag
func (s *BlogService) ListPublished(ctx context.Context, tag string) ([]domain.Blog, error) {
	blogs, err := s.blogs.ListPublished(ctx, tag)
	if err != nil {
		s.log.WithError(err).Error("Failed to list blogs")
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch blogs", err)
	}
	return blogs, nil
}

// GetPublished returns the published post with slug. Drafts are not found.
func (s *BlogService) GetPublished(ctx context.Context, slug string) (*BlogPost, error) {
	if !content.IsValidSlug(slug) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "Blog not found")
	}

	blog, err := s.blogs.GetBySlug(ctx, slug, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Blog not found")
		}
		s.log.WithError(err).WithField("slug", slug).Error("Failed to fetch blog")
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch blog", err)
	}

	html, err := s.renderer.Render(blog.Content)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to render blog", err)
	}
	return &BlogPost{Blog: *blog, ContentHTML: html}, nil
}

// List returns every post, drafts included
func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	blogs, err := s.blogs.List(ctx, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch blogs", err)
	}
	return blogs, nil
}

// Get returns the post with id, drafts included
func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Blog not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch blog", err)
	}
	return blog, nil
}

// Create validates in and stores a new post
func (s *BlogService) Create(ctx context.Context, in *validation.BlogInput, actor string, meta RequestMeta) (*domain.Blog, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	blog := in.Record()
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, s.writeError("Failed to create blog", err)
	}

	s.log.WithFields(logrus.Fields{"id": blog.ID, "slug": blog.Slug, "actor": actor}).Info("Blog created")
	s.record(ctx, meta.audit(domain.AuditActionBlogCreate, actor), blog)
	return blog, nil
}

// Update replaces the editable fields of post id with in
func (s *BlogService) Update(ctx context.Context, id string, in *validation.BlogInput, actor string, meta RequestMeta) (*domain.Blog, error) {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.Apply(blog)
	if err := s.blogs.Update(ctx, blog); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Blog not found")
		}
		return nil, s.writeError("Failed to update blog", err)
	}

	s.log.WithFields(logrus.Fields{"id": blog.ID, "slug": blog.Slug, "actor": actor}).Info("Blog updated")
	s.record(ctx, meta.audit(domain.AuditActionBlogUpdate, actor), blog)
	return blog, nil
}

func (s *BlogService) writeError(message string, err error) error {
	if store.IsDuplicate(err) {
		return apperrors.Wrap(apperrors.ErrCodeConflict, message, errors.New(duplicateSlugMessage))
	}
	s.log.WithError(err).Error(message)
	return apperrors.Wrap(apperrors.ErrCodeInternalError, message, err)
}

func (s *BlogService) record(ctx context.Context, entry *domain.AuditLog, blog *domain.Blog) {
	entry.ResourceType = domain.TableBlogs
	entry.ResourceID = blog.ID
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Warn("Failed to write audit entry")
	}
}
