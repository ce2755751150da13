package facility

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/middleware"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/facility"
)

type Handler struct {
	svc *facility.Service
}

func NewHandler(svc *facility.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	f := r.Group("/facilities")
	{
		f.GET("", h.List)
		f.GET("/:id", h.Get)
		f.POST("", h.Create)
		f.PUT("/:id", h.Update)
		f.DELETE("/:id", h.Delete)
		f.POST("/specialties", h.SaveSpecialties)
		f.POST("/:id/logo", h.UpdateLogo)
		f.POST("/:id/cover", h.UpdateCoverImage)
	}
}

// List returns the caller's active facilities, optionally filtered by a
// search term.
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	facilities, err := h.svc.ListMine(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"facilities": facilities}))
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	f, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"facility": f}))
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	var req model.SaveFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	f, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"facility": f}))
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	var req model.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	f, err := h.svc.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"facility": f}))
}

func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Facility deleted."))
}

func (h *Handler) SaveSpecialties(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	var req model.SaveFacilitySpecialtiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	if err := h.svc.SaveSpecialties(c.Request.Context(), userID, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Facility specialties saved."))
}

func (h *Handler) UpdateLogo(c *gin.Context) {
	h.updateImage(c, h.svc.UpdateLogo)
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, h.svc.UpdateCoverImage)
}

type imageUpdater func(ctx context.Context, userID, id uuid.UUID, filename string, body io.Reader, contentType string) (*model.Facility, error)

func (h *Handler) updateImage(c *gin.Context, update imageUpdater) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	fh, f, err := handler.FormFile(c, "image")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	defer f.Close()

	facility, err := update(c.Request.Context(), userID, id, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"facility": facility}))
}
