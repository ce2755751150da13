package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/middleware"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/profile"
)

type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	p := r.Group("/profile")
	{
		p.GET("", h.GetProfile)
		p.PUT("/basic-details", h.UpdateBasicDetails)
		p.PUT("/service-provider-details", h.UpdateServiceProviderDetails)
		p.POST("/image", h.UpdateProfileImage)
		p.POST("/documents", h.UploadDocument)
		p.DELETE("/documents/:id", h.DeleteDocument)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	p, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateBasicDetails(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	var req model.UpdateBasicDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	user, err := h.svc.UpdateBasicDetails(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"user": user}))
}

func (h *Handler) UpdateServiceProviderDetails(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	var req model.ServiceProviderDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	user, err := h.svc.UpdateServiceProviderDetails(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"user": user}))
}

func (h *Handler) UpdateProfileImage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	fh, f, err := handler.FormFile(c, "image")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	defer f.Close()

	user, err := h.svc.UpdateProfileImage(c.Request.Context(), userID, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"user": user}))
}

func (h *Handler) UploadDocument(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	docType := c.PostForm("document_type")
	fh, f, err := handler.FormFile(c, "document")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	defer f.Close()

	doc, err := h.svc.UploadDocument(c.Request.Context(), userID, docType, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"document": doc}))
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid document ID"))
		return
	}

	if err := h.svc.DeleteDocument(c.Request.Context(), userID, docID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Document deleted."))
}
