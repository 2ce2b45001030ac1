package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medadmit/internal/database/databasetest"
	"medadmit/internal/domain"
	"medadmit/internal/store"
)

func newStores(t *testing.T) *store.Stores {
	t.Helper()
	return store.New(databasetest.New(t))
}

func TestCreateAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		lead := &domain.Lead{Name: name, Email: name + "@example.com", Phone: "9876543210", Exam: "NEET-UG", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.Leads.Create(ctx, lead))
		assert.NotEmpty(t, lead.ID)
	}

	all, err := s.Leads.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Name)
	assert.Equal(t, "first", all[2].Name)
	assert.Equal(t, domain.DefaultLeadSource, all[0].Source)

	recent, err := s.Leads.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	n, err := s.Leads.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestListEmptyTableReturnsEmptySlice(t *testing.T) {
	rows, err := newStores(t).Contacts.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNewsletterDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	require.NoError(t, s.Newsletters.Create(ctx, &domain.Newsletter{Email: "a@example.com"}))
	err := s.Newsletters.Create(ctx, &domain.Newsletter{Email: "a@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicate))
	assert.True(t, store.IsDuplicate(err))

	n, err := s.Newsletters.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGetMissing(t *testing.T) {
	_, err := newStores(t).Leads.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAuditedRemovesOneRowAndWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	keep := &domain.Contact{FullName: "Keep", Email: "k@example.com", Phone: "9876543210", Exam: "NEET-PG"}
	drop := &domain.Contact{FullName: "Drop", Email: "d@example.com", Phone: "9876543210", Exam: "NEET-PG"}
	require.NoError(t, s.Contacts.Create(ctx, keep))
	require.NoError(t, s.Contacts.Create(ctx, drop))

	deleted, err := s.Contacts.DeleteAudited(ctx, drop.ID, domain.AuditLog{Actor: "admin", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "Drop", deleted.FullName)

	rows, err := s.Contacts.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.ID, rows[0].ID)

	entries, err := s.Audit.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, domain.AuditActionDelete, entry.Action)
	assert.Equal(t, domain.TableContacts, entry.ResourceType)
	assert.Equal(t, drop.ID, entry.ResourceID)
	assert.Equal(t, "admin", entry.Actor)

	var snap domain.Contact
	require.NoError(t, json.Unmarshal([]byte(entry.Snapshot), &snap))
	assert.Equal(t, "d@example.com", snap.Email)
}

func TestDeleteAuditedMissingLeavesNoAudit(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	_, err := s.Leads.DeleteAudited(ctx, "missing", domain.AuditLog{Actor: "admin"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Audit.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBlogSlugLookupAndPublishedFilter(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	tags := "neet,cutoffs"
	published := &domain.Blog{Title: "Cutoffs", Slug: "cutoffs", Excerpt: "x", Content: "y", Status: domain.BlogStatusPublished, Tags: &tags}
	draft := &domain.Blog{Title: "Draft", Slug: "draft-post", Excerpt: "x", Content: "y"}
	require.NoError(t, s.Blogs.Create(ctx, published))
	require.NoError(t, s.Blogs.Create(ctx, draft))

	got, err := s.Blogs.GetBySlug(ctx, "cutoffs", true)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	_, err = s.Blogs.GetBySlug(ctx, "draft-post", true)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.Blogs.GetBySlug(ctx, "draft-post", false)
	require.NoError(t, err)
	assert.Equal(t, domain.BlogStatusDraft, got.Status)

	list, err := s.Blogs.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = s.Blogs.ListPublished(ctx, "cutoffs")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.Blogs.ListPublished(ctx, "bams")
	require.NoError(t, err)
	assert.Empty(t, list)

	err = s.Blogs.Create(ctx, &domain.Blog{Title: "Again", Slug: "cutoffs", Excerpt: "x", Content: "y"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestBlogUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	b := &domain.Blog{Title: "Old", Slug: "old", Excerpt: "x", Content: "y"}
	require.NoError(t, s.Blogs.Create(ctx, b))
	other := &domain.Blog{Title: "Other", Slug: "other", Excerpt: "x", Content: "y"}
	require.NoError(t, s.Blogs.Create(ctx, other))
	created := b.CreatedAt

	b.Title = "New"
	b.Slug = "new"
	b.Status = domain.BlogStatusPublished
	require.NoError(t, s.Blogs.Update(ctx, b))

	got, err := s.Blogs.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.IsPublished())
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.UpdatedAt.Before(created))

	b.Slug = "other"
	assert.ErrorIs(t, s.Blogs.Update(ctx, b), store.ErrDuplicate)

	ghost := &domain.Blog{ID: "ghost", Title: "Ghost", Slug: "ghost", Excerpt: "x", Content: "y"}
	assert.ErrorIs(t, s.Blogs.Update(ctx, ghost), store.ErrNotFound)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	assert.Equal(t, []string{"leads", "contacts", "newsletters", "bams_admissions", "blogs"}, s.Tables.Names())

	_, err := s.Tables.Lookup("users")
	assert.ErrorIs(t, err, store.ErrUnknownTable)
	_, err = s.Tables.Lookup("audit_logs")
	assert.ErrorIs(t, err, store.ErrUnknownTable)

	require.NoError(t, s.Newsletters.Create(ctx, &domain.Newsletter{Email: "n@example.com"}))

	tbl, err := s.Tables.Lookup("newsletters")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email", "subscribedAt"}, tbl.Columns())

	rows, err := tbl.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	deleted, err := tbl.Delete(ctx, rows[0].GetID(), domain.AuditLog{Actor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "n@example.com", deleted.Values()[1])

	n, err := tbl.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
