package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/adapters/http/dto"
	"github.com/jsamuelsen/storefront/internal/app"
)

// CatalogHandler serves the product source and the stateless listing.
type CatalogHandler struct {
	catalog    *app.CatalogService
	storefront *app.StorefrontService
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog *app.CatalogService, storefront *app.StorefrontService) *CatalogHandler {
	return &CatalogHandler{
		catalog:    catalog,
		storefront: storefront,
	}
}

// Status handles GET /api/v1/catalog/status.
//
// @Summary Catalog status
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.CatalogStatusResponse
// @Router /api/v1/catalog/status [get]
func (h *CatalogHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCatalogStatusResponse(h.catalog.Status()))
}

// Reload handles POST /api/v1/catalog/reload. Concurrent reloads share one
// upstream fetch.
//
// @Summary Reload the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.CatalogStatusResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/catalog/reload [post]
func (h *CatalogHandler) Reload(c *gin.Context) {
	status, err := h.catalog.Reload(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCatalogStatusResponse(status))
}

// ListProducts handles GET /api/v1/products. It filters and pages the
// catalog without reading or writing any session.
//
// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "Category, or all"
// @Param search query string false "Case-insensitive title search"
// @Param page query int false "1-based page"
// @Param per_page query int false "Items per page"
// @Param max_visible query int false "Page window size"
// @Param viewport_width query int false "Client viewport width"
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ListProductsQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	res, err := h.storefront.Browse(c.Request.Context(), app.BrowseQuery{
		Filters:      q.Filters(),
		Page:         q.Page,
		ItemsPerPage: q.PerPage,
		View:         viewOptions(q.WindowQuery),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductListResponse(res))
}

// Categories handles GET /api/v1/categories.
//
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /api/v1/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.catalog.Categories()})
}

// Register mounts the catalog routes on rg.
func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog/status", h.Status)
	rg.POST("/catalog/reload", h.Reload)
	rg.GET("/products", h.ListProducts)
	rg.GET("/categories", h.Categories)
}

func viewOptions(q dto.WindowQuery) app.ViewOptions {
	return app.ViewOptions{
		ViewportWidth: q.ViewportWidth,
		MaxVisible:    q.MaxVisible,
	}
}
