package blog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/xyvra/marketplace-api/internal/cache"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	"github.com/xyvra/marketplace-api/internal/storage"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

const (
	listCacheTTL     = 2 * time.Minute
	listCachePattern = "blogs:list:*"
	relatedLimit     = 3
	highlightLimit   = 5
)

type Service struct {
	repo      repository.BlogRepository
	store     storage.Store
	listCache *cache.Store
}

func NewService(repo repository.BlogRepository, store storage.Store, listCache *cache.Store) *Service {
	return &Service{repo: repo, store: store, listCache: listCache}
}

type listResult struct {
	Blogs []*model.Blog  `json:"blogs"`
	Meta  model.PageMeta `json:"meta"`
}

// ListPublished serves the public feed, cached briefly in redis.
func (s *Service) ListPublished(ctx context.Context, filters *model.BlogFilters) ([]*model.Blog, model.PageMeta, error) {
	filters.Status = string(model.BlogStatusPublished)
	filters.Normalize(10)

	key := fmt.Sprintf("blogs:list:%d:%d:%s:%s", filters.Page, filters.PerPage, filters.Search, filters.Tag)
	if s.listCache != nil {
		var cached listResult
		if err := s.listCache.Get(ctx, key, &cached); err == nil {
			return cached.Blogs, cached.Meta, nil
		}
	}

	blogs, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	meta := model.NewPageMeta(filters.Pagination, total)

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, key, listResult{Blogs: blogs, Meta: meta}, listCacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache blog list")
		}
	}

	return blogs, meta, nil
}

// GetBySlug returns a published post, bumps its view counter and attaches
// related posts sharing a tag.
func (s *Service) GetBySlug(ctx context.Context, slugStr string) (*model.Blog, []*model.Blog, error) {
	blog, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.IncrementViews(ctx, blog.ID); err != nil {
		log.Warn().Err(err).Str("slug", slugStr).Msg("failed to increment views")
	} else {
		blog.ViewsCount++
	}

	related, err := s.repo.ListRelated(ctx, blog.ID, blog.Tags, relatedLimit)
	if err != nil {
		return nil, nil, err
	}

	return blog, related, nil
}

func (s *Service) ListFeatured(ctx context.Context) ([]*model.Blog, error) {
	return s.repo.ListFeatured(ctx, highlightLimit)
}

func (s *Service) ListTrending(ctx context.Context) ([]*model.Blog, error) {
	return s.repo.ListTrending(ctx, highlightLimit)
}

func (s *Service) ListLatestTrends(ctx context.Context) ([]*model.Blog, error) {
	return s.repo.ListLatestTrends(ctx, highlightLimit)
}

func (s *Service) ListTags(ctx context.Context) ([]string, error) {
	return s.repo.ListTags(ctx)
}

// ListAll is the admin view over every status.
func (s *Service) ListAll(ctx context.Context, filters *model.BlogFilters) ([]*model.Blog, model.PageMeta, error) {
	filters.Normalize(15)

	blogs, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	return blogs, model.NewPageMeta(filters.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	return s.repo.Get(ctx, id)
}

// Create writes a new post. The slug is derived from the title only when
// the request leaves it empty, and published_at is stamped when the post
// is born published.
func (s *Service) Create(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error) {
	blog := &model.Blog{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		AuthorName: req.AuthorName,
		Tags:       model.StringArray(req.Tags),
		Status:     model.BlogStatus(req.Status),
		IsFeatured: req.IsFeatured,
		IsTrending: req.IsTrending,
	}

	uniqueSlug, err := s.ensureSlug(ctx, blog.Slug, blog.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	blog.Slug = uniqueSlug

	if blog.Status == model.BlogStatusPublished {
		now := time.Now()
		blog.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.invalidateListCache(ctx)
	return blog, nil
}

// Update edits a post. An existing slug is kept unless the request sets a
// new one, and published_at is only ever stamped once.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBlogRequest) (*model.Blog, error) {
	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.Title = req.Title
	blog.Excerpt = req.Excerpt
	blog.Content = req.Content
	blog.AuthorName = req.AuthorName
	blog.Tags = model.StringArray(req.Tags)
	blog.IsFeatured = req.IsFeatured
	blog.IsTrending = req.IsTrending

	if req.Slug != "" && req.Slug != blog.Slug {
		uniqueSlug, err := s.ensureSlug(ctx, req.Slug, blog.Title, id)
		if err != nil {
			return nil, err
		}
		blog.Slug = uniqueSlug
	} else if blog.Slug == "" {
		uniqueSlug, err := s.ensureSlug(ctx, "", blog.Title, id)
		if err != nil {
			return nil, err
		}
		blog.Slug = uniqueSlug
	}

	blog.Status = model.BlogStatus(req.Status)
	if blog.Status == model.BlogStatusPublished && blog.PublishedAt == nil {
		now := time.Now()
		blog.PublishedAt = &now
	}

	if err := s.repo.Update(ctx, blog); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return blog, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if blog.FeaturedImage != nil {
		if err := s.store.Delete(ctx, *blog.FeaturedImage); err != nil {
			return fmt.Errorf("failed to delete featured image: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	return nil
}

// UpdateFeaturedImage replaces the post's featured image object.
func (s *Service) UpdateFeaturedImage(ctx context.Context, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Blog, error) {
	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	if blog.FeaturedImage != nil {
		oldKey = *blog.FeaturedImage
	}

	key, err := s.store.Replace(ctx, oldKey, storage.PrefixBlogImages, filename, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store featured image: %w", err)
	}

	blog.FeaturedImage = &key
	if err := s.repo.Update(ctx, blog); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return blog, nil
}

func (s *Service) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.repo.GetStats(ctx)
}

// ensureSlug returns a unique slug, generating one from the title when
// none was supplied and suffixing a counter on collisions.
func (s *Service) ensureSlug(ctx context.Context, requested, title string, excludeID uuid.UUID) (string, error) {
	candidate := requested
	if candidate == "" {
		candidate = slug.Make(title)
	} else {
		candidate = slug.Make(candidate)
	}
	if candidate == "" {
		return "", apperr.BadRequest("cannot derive a slug from the title", nil)
	}

	base := candidate
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx, listCachePattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate blog list cache")
	}
}
