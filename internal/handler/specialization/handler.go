package specialization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/specialization"
)

type Handler struct {
	svc *specialization.Service
}

func NewHandler(svc *specialization.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/specializations")
	{
		s.GET("", h.List)
		s.GET("/facilities", h.ListForFacilities)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filters model.SpecializationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	specs, err := h.svc.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"specializations": specs}))
}

func (h *Handler) ListForFacilities(c *gin.Context) {
	specs, err := h.svc.ListForFacilities(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"specializations": specs}))
}
