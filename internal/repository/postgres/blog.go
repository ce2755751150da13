package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type blogRepository struct {
	BaseRepository
}

func NewBlogRepository(base BaseRepository) repository.BlogRepository {
	return &blogRepository{base}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `
		INSERT INTO blogs (
			id, title, slug, excerpt, content, featured_image, author_name,
			tags, status, is_featured, is_trending, views_count, published_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	blog.ID = uuid.New()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		blog.ID,
		blog.Title,
		blog.Slug,
		blog.Excerpt,
		blog.Content,
		blog.FeaturedImage,
		blog.AuthorName,
		blog.Tags,
		blog.Status,
		blog.IsFeatured,
		blog.IsTrending,
		blog.ViewsCount,
		blog.PublishedAt,
		blog.CreatedAt,
		blog.UpdatedAt,
	)
	return mapError(err, "blog")
}

func (r *blogRepository) Get(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	query := `SELECT * FROM blogs WHERE id = $1`

	var blog model.Blog
	if err := r.db.GetContext(ctx, &blog, query, id); err != nil {
		return nil, mapError(err, "blog")
	}
	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	query := `SELECT * FROM blogs WHERE slug = $1 AND status = 'published'`

	var blog model.Blog
	if err := r.db.GetContext(ctx, &blog, query, slug); err != nil {
		return nil, mapError(err, "blog")
	}
	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *model.Blog) error {
	query := `
		UPDATE blogs SET
			title = $1,
			slug = $2,
			excerpt = $3,
			content = $4,
			featured_image = $5,
			author_name = $6,
			tags = $7,
			status = $8,
			is_featured = $9,
			is_trending = $10,
			published_at = $11,
			updated_at = $12
		WHERE id = $13
	`

	result, err := r.db.ExecContext(ctx, query,
		blog.Title,
		blog.Slug,
		blog.Excerpt,
		blog.Content,
		blog.FeaturedImage,
		blog.AuthorName,
		blog.Tags,
		blog.Status,
		blog.IsFeatured,
		blog.IsTrending,
		blog.PublishedAt,
		time.Now(),
		blog.ID,
	)
	if err != nil {
		return mapError(err, "blog")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("blog not found"), "blog")
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return mapError(fmt.Errorf("blog not found"), "blog")
	}

	return nil
}

func (r *blogRepository) List(ctx context.Context, filters *model.BlogFilters) ([]*model.Blog, int64, error) {
	base := r.Builder().From("blogs")
	if filters != nil {
		if filters.Status != "" {
			base = base.Where(goqu.Ex{"status": filters.Status})
		}
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			base = base.Where(goqu.Or(
				goqu.I("title").ILike(pattern),
				goqu.I("content").ILike(pattern),
				goqu.I("excerpt").ILike(pattern),
			))
		}
		if filters.Tag != "" {
			base = base.Where(goqu.L("tags @> ?::jsonb", fmt.Sprintf(`["%s"]`, filters.Tag)))
		}
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	p := model.Pagination{}
	if filters != nil {
		p = filters.Pagination
	}

	listSQL, listArgs, err := base.Select("*").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(p.PerPage)).
		Offset(uint(p.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	blogs := []*model.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}

	return blogs, total, nil
}

func (r *blogRepository) ListFeatured(ctx context.Context, limit int) ([]*model.Blog, error) {
	query := `
		SELECT * FROM blogs
		WHERE status = 'published' AND is_featured = TRUE
		ORDER BY published_at DESC
		LIMIT $1
	`

	blogs := []*model.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list featured blogs: %w", err)
	}
	return blogs, nil
}

func (r *blogRepository) ListTrending(ctx context.Context, limit int) ([]*model.Blog, error) {
	query := `
		SELECT * FROM blogs
		WHERE status = 'published' AND is_trending = TRUE
		ORDER BY views_count DESC
		LIMIT $1
	`

	blogs := []*model.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list trending blogs: %w", err)
	}
	return blogs, nil
}

func (r *blogRepository) ListLatestTrends(ctx context.Context, limit int) ([]*model.Blog, error) {
	query := `
		SELECT * FROM blogs
		WHERE status = 'published' AND is_trending = TRUE
		ORDER BY published_at DESC
		LIMIT $1
	`

	blogs := []*model.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest trends: %w", err)
	}
	return blogs, nil
}

func (r *blogRepository) ListTags(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT jsonb_array_elements_text(tags) AS tag
		FROM blogs
		WHERE status = 'published'
		ORDER BY tag
	`

	tags := []string{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("failed to list blog tags: %w", err)
	}
	return tags, nil
}

// ListRelated finds published posts sharing at least one tag, newest first.
func (r *blogRepository) ListRelated(ctx context.Context, blogID uuid.UUID, tags []string, limit int) ([]*model.Blog, error) {
	if len(tags) == 0 {
		query := `
			SELECT * FROM blogs
			WHERE status = 'published' AND id != $1
			ORDER BY published_at DESC
			LIMIT $2
		`
		blogs := []*model.Blog{}
		if err := r.db.SelectContext(ctx, &blogs, query, blogID, limit); err != nil {
			return nil, fmt.Errorf("failed to list related blogs: %w", err)
		}
		return blogs, nil
	}

	tagJSON := model.StringArray(tags)
	query := `
		SELECT * FROM blogs
		WHERE status = 'published'
		AND id != $1
		AND tags ?| (SELECT array_agg(value) FROM jsonb_array_elements_text($2::jsonb))
		ORDER BY published_at DESC
		LIMIT $3
	`

	blogs := []*model.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, blogID, tagJSON, limit); err != nil {
		return nil, fmt.Errorf("failed to list related blogs: %w", err)
	}
	return blogs, nil
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE blogs SET views_count = views_count + 1 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1 AND id != $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *blogRepository) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_blogs,
			COUNT(*) FILTER (WHERE status = 'published') AS published_blogs,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft_blogs,
			COUNT(*) FILTER (WHERE is_featured = TRUE) AS featured_blogs
		FROM blogs
	`

	var stats struct {
		TotalBlogs     int64 `db:"total_blogs"`
		PublishedBlogs int64 `db:"published_blogs"`
		DraftBlogs     int64 `db:"draft_blogs"`
		FeaturedBlogs  int64 `db:"featured_blogs"`
	}
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get blog stats: %w", err)
	}

	recent := []*model.Blog{}
	recentQuery := `SELECT * FROM blogs ORDER BY created_at DESC LIMIT 5`
	if err := r.db.SelectContext(ctx, &recent, recentQuery); err != nil {
		return nil, fmt.Errorf("failed to list recent blogs: %w", err)
	}

	return &model.DashboardStats{
		TotalBlogs:     stats.TotalBlogs,
		PublishedBlogs: stats.PublishedBlogs,
		DraftBlogs:     stats.DraftBlogs,
		FeaturedBlogs:  stats.FeaturedBlogs,
		Recent:         recent,
	}, nil
}
