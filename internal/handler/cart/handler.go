package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/middleware"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/service/cart"
)

type Handler struct {
	svc *cart.Service
}

func NewHandler(svc *cart.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	g := r.Group("/cart")
	{
		g.GET("", h.GetCart)
		g.GET("/summary", h.Summary)
		g.POST("", h.AddToCart)
		g.PUT("/:id", h.UpdateItem)
		g.DELETE("/:id", h.RemoveItem)
		g.DELETE("", h.ClearCart)
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	summary, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

// Summary returns the cart counters without the item list.
func (h *Handler) Summary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	summary, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"total_amount":  summary.TotalAmount,
		"item_count":    summary.ItemCount,
		"items_in_cart": summary.ItemsInCart,
	}))
}

func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	item, err := h.svc.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"item": item}))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid cart item ID"))
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"item": item}))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid cart item ID"))
		return
	}

	if err := h.svc.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Item removed from cart."))
}

func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}

	if err := h.svc.ClearCart(c.Request.Context(), userID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("Cart cleared."))
}
