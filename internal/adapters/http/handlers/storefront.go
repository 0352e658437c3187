package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/adapters/http/dto"
	"github.com/jsamuelsen/storefront/internal/adapters/http/middleware"
	"github.com/jsamuelsen/storefront/internal/app"
)

// StorefrontHandler serves the per-session view state.
type StorefrontHandler struct {
	service *app.StorefrontService
}

// NewStorefrontHandler creates a storefront handler.
func NewStorefrontHandler(service *app.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{service: service}
}

// sessionID returns the id set by the session middleware. Routes mounted
// without it answer 400.
func sessionID(c *gin.Context) (string, bool) {
	id := middleware.GetSessionID(c)
	if id == "" {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "session id is required")
		return "", false
	}

	return id, true
}

// View handles GET /api/v1/storefront.
//
// @Summary Session view
// @Tags storefront
// @Produce json
// @Param max_visible query int false "Page window size"
// @Param viewport_width query int false "Client viewport width"
// @Success 200 {object} dto.StorefrontResponse
// @Router /api/v1/storefront [get]
func (h *StorefrontHandler) View(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var q dto.WindowQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	h.respondView(c, sid, viewOptions(q))
}

func (h *StorefrontHandler) respondView(c *gin.Context, sid string, opts app.ViewOptions) {
	view, err := h.service.View(c.Request.Context(), sid, opts)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStorefrontResponse(view))
}

// SetFilters handles PUT /api/v1/storefront/filters and answers with the
// updated view.
//
// @Summary Set filters
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body dto.SetFiltersRequest true "Filters"
// @Success 200 {object} dto.StorefrontResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/storefront/filters [put]
func (h *StorefrontHandler) SetFilters(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req dto.SetFiltersRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	if err := h.service.SetFilters(c.Request.Context(), sid, req.Filters()); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondView(c, sid, app.ViewOptions{})
}

// SetPage handles PUT /api/v1/storefront/page. A page past the end renders
// no items.
//
// @Summary Set page
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body dto.SetPageRequest true "Page"
// @Success 200 {object} dto.StorefrontResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/storefront/page [put]
func (h *StorefrontHandler) SetPage(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req dto.SetPageRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	if err := h.service.SetPage(c.Request.Context(), sid, req.Page); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondView(c, sid, app.ViewOptions{})
}

// NextPage handles POST /api/v1/storefront/page/next.
//
// @Summary Next page
// @Tags storefront
// @Produce json
// @Success 200 {object} dto.NavigationResponse
// @Router /api/v1/storefront/page/next [post]
func (h *StorefrontHandler) NextPage(c *gin.Context) {
	h.navigate(c, h.service.NextPage)
}

// PrevPage handles POST /api/v1/storefront/page/prev.
//
// @Summary Previous page
// @Tags storefront
// @Produce json
// @Success 200 {object} dto.NavigationResponse
// @Router /api/v1/storefront/page/prev [post]
func (h *StorefrontHandler) PrevPage(c *gin.Context) {
	h.navigate(c, h.service.PrevPage)
}

func (h *StorefrontHandler) navigate(c *gin.Context, move func(ctx context.Context, sid string) (bool, error)) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	moved, err := move(ctx, sid)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	view, err := h.service.View(ctx, sid, app.ViewOptions{})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NavigationResponse{
		Moved:       moved,
		CurrentPage: view.Page.CurrentPage,
	})
}

// SetCartVisibility handles PUT /api/v1/storefront/cart-visibility.
//
// @Summary Open or close the cart
// @Tags storefront
// @Accept json
// @Produce json
// @Param request body dto.CartVisibilityRequest true "Visibility"
// @Success 200 {object} dto.StorefrontResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/storefront/cart-visibility [put]
func (h *StorefrontHandler) SetCartVisibility(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req dto.CartVisibilityRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	if err := h.service.SetCartOpen(c.Request.Context(), sid, *req.Open); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondView(c, sid, app.ViewOptions{})
}

// Register mounts the storefront routes on rg.
func (h *StorefrontHandler) Register(rg *gin.RouterGroup) {
	sf := rg.Group("/storefront")
	sf.GET("", h.View)
	sf.PUT("/filters", h.SetFilters)
	sf.PUT("/page", h.SetPage)
	sf.POST("/page/next", h.NextPage)
	sf.POST("/page/prev", h.PrevPage)
	sf.PUT("/cart-visibility", h.SetCartVisibility)
}
