package model

import "time"

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

type Blog struct {
	Base
	Title         string      `db:"title" json:"title"`
	Slug          string      `db:"slug" json:"slug"`
	Excerpt       *string     `db:"excerpt" json:"excerpt,omitempty"`
	Content       string      `db:"content" json:"content"`
	FeaturedImage *string     `db:"featured_image" json:"featured_image,omitempty"`
	AuthorName    *string     `db:"author_name" json:"author_name,omitempty"`
	Tags          StringArray `db:"tags" json:"tags"`
	Status        BlogStatus  `db:"status" json:"status"`
	IsFeatured    bool        `db:"is_featured" json:"is_featured"`
	IsTrending    bool        `db:"is_trending" json:"is_trending"`
	ViewsCount    int         `db:"views_count" json:"views_count"`
	PublishedAt   *time.Time  `db:"published_at" json:"published_at,omitempty"`
}

type CreateBlogRequest struct {
	Title      string   `json:"title" binding:"required,max=255"`
	Slug       string   `json:"slug"`
	Excerpt    *string  `json:"excerpt" binding:"omitempty,max=500"`
	Content    string   `json:"content" binding:"required"`
	AuthorName *string  `json:"author_name" binding:"omitempty,max=255"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status" binding:"required,oneof=draft published archived"`
	IsFeatured bool     `json:"is_featured"`
	IsTrending bool     `json:"is_trending"`
}

type UpdateBlogRequest struct {
	Title      string   `json:"title" binding:"required,max=255"`
	Slug       string   `json:"slug"`
	Excerpt    *string  `json:"excerpt" binding:"omitempty,max=500"`
	Content    string   `json:"content" binding:"required"`
	AuthorName *string  `json:"author_name" binding:"omitempty,max=255"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status" binding:"required,oneof=draft published archived"`
	IsFeatured bool     `json:"is_featured"`
	IsTrending bool     `json:"is_trending"`
}

type BlogFilters struct {
	Pagination
	Search string `form:"search"`
	Tag    string `form:"tag"`
	Status string `form:"status"`
}

// DashboardStats backs the admin dashboard counters.
type DashboardStats struct {
	TotalBlogs     int64   `json:"total_blogs"`
	PublishedBlogs int64   `json:"published_blogs"`
	DraftBlogs     int64   `json:"draft_blogs"`
	FeaturedBlogs  int64   `json:"featured_blogs"`
	Recent         []*Blog `json:"recent_blogs"`
}
