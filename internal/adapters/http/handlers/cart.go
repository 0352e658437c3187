package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/adapters/http/dto"
	"github.com/jsamuelsen/storefront/internal/app"
)

// CartHandler serves the session cart and the checkout stub.
type CartHandler struct {
	storefront *app.StorefrontService
	checkout   *app.CheckoutService
}

// NewCartHandler creates a cart handler.
func NewCartHandler(storefront *app.StorefrontService, checkout *app.CheckoutService) *CartHandler {
	return &CartHandler{
		storefront: storefront,
		checkout:   checkout,
	}
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "product id must be a positive integer")
		return 0, false
	}

	return id, true
}

func respondCart(c *gin.Context, summary *app.CartSummary, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(summary))
}

// Get handles GET /api/v1/cart.
//
// @Summary Get the cart
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Router /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	summary, err := h.storefront.Cart(c.Request.Context(), sid)
	respondCart(c, summary, err)
}

// AddItem handles POST /api/v1/cart/items.
//
// @Summary Add one unit of a product
// @Tags cart
// @Accept json
// @Produce json
// @Param request body dto.AddToCartRequest true "Product"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req dto.AddToCartRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	summary, err := h.storefront.AddToCart(c.Request.Context(), sid, req.ProductID)
	respondCart(c, summary, err)
}

// RemoveItem handles DELETE /api/v1/cart/items/:id. Removing an absent
// product answers with the unchanged cart.
//
// @Summary Remove one unit of a product
// @Tags cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	id, ok := productIDParam(c)
	if !ok {
		return
	}

	summary, err := h.storefront.RemoveFromCart(c.Request.Context(), sid, id)
	respondCart(c, summary, err)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/:id. The quantity never
// drops below 1.
//
// @Summary Adjust a line quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body dto.UpdateQuantityRequest true "Delta"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	summary, err := h.storefront.UpdateQuantity(c.Request.Context(), sid, id, *req.Delta)
	respondCart(c, summary, err)
}

// RemoveLine handles DELETE /api/v1/cart/lines/:id.
//
// @Summary Remove a whole line
// @Tags cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/cart/lines/{id} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	id, ok := productIDParam(c)
	if !ok {
		return
	}

	summary, err := h.storefront.RemoveLine(c.Request.Context(), sid, id)
	respondCart(c, summary, err)
}

// Clear handles DELETE /api/v1/cart.
//
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Router /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	summary, err := h.storefront.ClearCart(c.Request.Context(), sid)
	respondCart(c, summary, err)
}

// Checkout handles POST /api/v1/cart/checkout. The order is accepted as
// pending; no payment is taken and the cart is kept.
//
// @Summary Check out
// @Tags cart
// @Produce json
// @Success 202 {object} dto.OrderResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), sid)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewOrderResponse(order))
}

// Register mounts the cart routes on rg.
func (h *CartHandler) Register(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.GET("", h.Get)
	cart.DELETE("", h.Clear)
	cart.POST("/items", h.AddItem)
	cart.DELETE("/items/:id", h.RemoveItem)
	cart.PATCH("/items/:id", h.UpdateQuantity)
	cart.DELETE("/lines/:id", h.RemoveLine)
	cart.POST("/checkout", h.Checkout)
}
