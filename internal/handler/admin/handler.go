package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/blog"
)

// Handler is the authenticated admin surface for blog management.
type Handler struct {
	blogSvc *blog.Service
}

func NewHandler(blogSvc *blog.Service) *Handler {
	return &Handler{blogSvc: blogSvc}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	a := r.Group("/admin")
	{
		a.GET("/dashboard", h.Dashboard)
		a.GET("/blogs", h.ListBlogs)
		a.POST("/blogs", h.CreateBlog)
		a.GET("/blogs/:id", h.GetBlog)
		a.PUT("/blogs/:id", h.UpdateBlog)
		a.DELETE("/blogs/:id", h.DeleteBlog)
		a.POST("/blogs/:id/featured-image", h.UpdateFeaturedImage)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.blogSvc.DashboardStats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"stats": stats}))
}

func (h *Handler) ListBlogs(c *gin.Context) {
	var filters model.BlogFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	blogs, meta, err := h.blogSvc.ListAll(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"blogs":      blogs,
		"pagination": meta,
	}))
}

func (h *Handler) CreateBlog(c *gin.Context) {
	var req model.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	b, err := h.blogSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"blog": b}))
}

func (h *Handler) GetBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid blog ID"))
		return
	}

	b, err := h.blogSvc.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blog": b}))
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid blog ID"))
		return
	}

	var req model.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	b, err := h.blogSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blog": b}))
}

func (h *Handler) DeleteBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid blog ID"))
		return
	}

	if err := h.blogSvc.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Blog deleted."))
}

func (h *Handler) UpdateFeaturedImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid blog ID"))
		return
	}

	fh, f, err := handler.FormFile(c, "image")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	defer f.Close()

	b, err := h.blogSvc.UpdateFeaturedImage(c.Request.Context(), id, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"blog": b}))
}
