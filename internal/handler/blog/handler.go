package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/blog"
)

// Handler serves the public blog surface. The admin surface lives in the
// admin package.
type Handler struct {
	svc *blog.Service
}

func NewHandler(svc *blog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/blogs")
	{
		b.GET("", h.List)
		b.GET("/featured", h.ListFeatured)
		b.GET("/trending", h.ListTrending)
		b.GET("/latest-trends", h.ListLatestTrends)
		b.GET("/tags", h.ListTags)
		b.GET("/:slug", h.GetBySlug)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filters model.BlogFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	blogs, meta, err := h.svc.ListPublished(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"blogs":      blogs,
		"pagination": meta,
	}))
}

func (h *Handler) ListFeatured(c *gin.Context) {
	blogs, err := h.svc.ListFeatured(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blogs": blogs}))
}

func (h *Handler) ListTrending(c *gin.Context) {
	blogs, err := h.svc.ListTrending(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blogs": blogs}))
}

func (h *Handler) ListLatestTrends(c *gin.Context) {
	blogs, err := h.svc.ListLatestTrends(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blogs": blogs}))
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.svc.ListTags(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"tags": tags}))
}

func (h *Handler) GetBySlug(c *gin.Context) {
	b, related, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"blog":    b,
		"related": related,
	}))
}
