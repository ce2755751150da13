package blog

import (
	"context"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type fakeBlogRepo struct {
	blogs map[uuid.UUID]*model.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[uuid.UUID]*model.Blog)}
}

func (r *fakeBlogRepo) Create(_ context.Context, blog *model.Blog) error {
	blog.ID = uuid.New()
	blog.CreatedAt = time.Now().Add(time.Duration(len(r.blogs)) * time.Millisecond)
	r.blogs[blog.ID] = blog
	return nil
}

func (r *fakeBlogRepo) Get(_ context.Context, id uuid.UUID) (*model.Blog, error) {
	if b, ok := r.blogs[id]; ok {
		return b, nil
	}
	return nil, apperr.NotFound("blog", nil)
}

func (r *fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*model.Blog, error) {
	for _, b := range r.blogs {
		if b.Slug == slug && b.Status == model.BlogStatusPublished {
			return b, nil
		}
	}
	return nil, apperr.NotFound("blog", nil)
}

func (r *fakeBlogRepo) Update(_ context.Context, blog *model.Blog) error {
	r.blogs[blog.ID] = blog
	return nil
}

func (r *fakeBlogRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.blogs, id)
	return nil
}

func (r *fakeBlogRepo) List(_ context.Context, filters *model.BlogFilters) ([]*model.Blog, int64, error) {
	var out []*model.Blog
	for _, b := range r.blogs {
		if filters.Status != "" && string(b.Status) != filters.Status {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBlogRepo) ListFeatured(_ context.Context, _ int) ([]*model.Blog, error) {
	return nil, nil
}

func (r *fakeBlogRepo) ListTrending(_ context.Context, _ int) ([]*model.Blog, error) {
	return nil, nil
}

func (r *fakeBlogRepo) ListLatestTrends(_ context.Context, _ int) ([]*model.Blog, error) {
	return nil, nil
}

func (r *fakeBlogRepo) ListTags(_ context.Context) ([]string, error) {
	var tags []string
	for _, b := range r.blogs {
		if b.Status != model.BlogStatusPublished {
			continue
		}
		for _, tag := range b.Tags {
			if !contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

func (r *fakeBlogRepo) ListRelated(_ context.Context, blogID uuid.UUID, tags []string, limit int) ([]*model.Blog, error) {
	var out []*model.Blog
	for _, b := range r.blogs {
		if b.ID == blogID || b.Status != model.BlogStatusPublished {
			continue
		}
		for _, tag := range tags {
			if contains(b.Tags, tag) {
				out = append(out, b)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func (r *fakeBlogRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	if b, ok := r.blogs[id]; ok {
		b.ViewsCount++
		return nil
	}
	return apperr.NotFound("blog", nil)
}

func (r *fakeBlogRepo) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	for _, b := range r.blogs {
		if b.Slug == slug && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBlogRepo) GetStats(_ context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	for _, b := range r.blogs {
		stats.TotalBlogs++
		switch b.Status {
		case model.BlogStatusPublished:
			stats.PublishedBlogs++
		case model.BlogStatusDraft:
			stats.DraftBlogs++
		}
		if b.IsFeatured {
			stats.FeaturedBlogs++
		}
	}

	for _, b := range r.blogs {
		stats.Recent = append(stats.Recent, b)
	}
	sort.Slice(stats.Recent, func(i, j int) bool {
		return stats.Recent[i].CreatedAt.After(stats.Recent[j].CreatedAt)
	})
	if len(stats.Recent) > 5 {
		stats.Recent = stats.Recent[:5]
	}
	return stats, nil
}

type fakeStore struct {
	deleted []string
	puts    int
}

func (s *fakeStore) Put(_ context.Context, prefix, filename string, _ io.Reader, _ string) (string, error) {
	s.puts++
	return fmt.Sprintf("%s/%d-%s", prefix, s.puts, filename), nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) Replace(ctx context.Context, oldKey, prefix, filename string, body io.Reader, contentType string) (string, error) {
	if oldKey != "" {
		if err := s.Delete(ctx, oldKey); err != nil {
			return "", err
		}
	}
	return s.Put(ctx, prefix, filename, body, contentType)
}

func (s *fakeStore) URL(key string) string { return "https://cdn.example.com/" + key }

func createReq(title, slugStr, status string) *model.CreateBlogRequest {
	return &model.CreateBlogRequest{
		Title:   title,
		Slug:    slugStr,
		Content: "body",
		Status:  status,
	}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)

	b, err := svc.Create(context.Background(), createReq("Managing Diabetes at Home", "", "draft"))
	require.NoError(t, err)
	assert.Equal(t, "managing-diabetes-at-home", b.Slug)
}

func TestCreateKeepsProvidedSlug(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)

	b, err := svc.Create(context.Background(), createReq("Managing Diabetes at Home", "custom-slug", "draft"))
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", b.Slug)
}

func TestCreateSuffixesDuplicateSlugs(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq("Healthy Eating", "", "draft"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("Healthy Eating", "", "draft"))
	require.NoError(t, err)
	third, err := svc.Create(ctx, createReq("Healthy Eating", "", "draft"))
	require.NoError(t, err)

	assert.Equal(t, "healthy-eating", first.Slug)
	assert.Equal(t, "healthy-eating-2", second.Slug)
	assert.Equal(t, "healthy-eating-3", third.Slug)
}

func TestPublishedAtStampedOnCreate(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)

	draft, err := svc.Create(context.Background(), createReq("Draft Post", "", "draft"))
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)

	published, err := svc.Create(context.Background(), createReq("Published Post", "", "published"))
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
}

func TestPublishedAtStampedOnlyOnce(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq("Long Running Post", "", "draft"))
	require.NoError(t, err)

	updateReq := &model.UpdateBlogRequest{Title: b.Title, Content: b.Content, Status: "published"}
	updated, err := svc.Update(ctx, b.ID, updateReq)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	firstStamp := *updated.PublishedAt

	time.Sleep(5 * time.Millisecond)
	again, err := svc.Update(ctx, b.ID, updateReq)
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *again.PublishedAt)
}

func TestGetBySlugBumpsViewsAndAttachesRelated(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	main, err := svc.Create(ctx, &model.CreateBlogRequest{
		Title: "Hypertension Basics", Content: "body", Status: "published", Tags: []string{"heart"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreateBlogRequest{
		Title: "Heart Healthy Diets", Content: "body", Status: "published", Tags: []string{"heart"},
	})
	require.NoError(t, err)

	got, related, err := svc.GetBySlug(ctx, main.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewsCount)
	assert.Len(t, related, 1)
}

func TestDeleteRemovesFeaturedImage(t *testing.T) {
	repo := newFakeBlogRepo()
	store := &fakeStore{}
	svc := NewService(repo, store, nil)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq("Post With Image", "", "draft"))
	require.NoError(t, err)

	key := "blogs/1-hero.jpg"
	repo.blogs[b.ID].FeaturedImage = &key

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.Equal(t, []string{key}, store.deleted)
}

func TestListAllDefaultPageSize(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("One", "", "draft"))
	require.NoError(t, err)

	_, meta, err := svc.ListAll(ctx, &model.BlogFilters{})
	require.NoError(t, err)
	assert.Equal(t, 15, meta.PerPage)
}

func TestDashboardStats(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("One", "", "published"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Two", "", "draft"))
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBlogs)
	assert.Equal(t, int64(1), stats.PublishedBlogs)
	assert.Equal(t, int64(1), stats.DraftBlogs)
	require.Len(t, stats.Recent, 2)
	assert.Equal(t, "Two", stats.Recent[0].Title)
}

func TestDashboardStatsRecentCapped(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewService(repo, &fakeStore{}, nil)
	ctx := context.Background()

	titles := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	for _, title := range titles {
		_, err := svc.Create(ctx, createReq(title, "", "published"))
		require.NoError(t, err)
	}

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.Recent, 5)
	assert.Equal(t, "Seven", stats.Recent[0].Title)
}
