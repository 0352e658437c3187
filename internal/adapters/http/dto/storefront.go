package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/storefront/internal/app"
	"github.com/jsamuelsen/storefront/internal/domain"
)

// Money renders an amount with exactly two fractional digits. Amounts are
// strings so clients never see binary float rounding.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ProductResponse is a catalog product.
type ProductResponse struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       string          `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Rating      *RatingResponse `json:"rating,omitempty"`
}

// RatingResponse is the aggregate customer rating.
type RatingResponse struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// NewProductResponse converts a domain product.
func NewProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       Money(p.Price),
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
	}

	if p.Rating != (domain.Rating{}) {
		resp.Rating = &RatingResponse{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}

	return resp
}

// FiltersResponse is the active category and search.
type FiltersResponse struct {
	Category string `json:"category"`
	Search   string `json:"search"`
}

// ProductListResponse is a filtered page of the catalog.
type ProductListResponse struct {
	Loading bool              `json:"loading"`
	Filters FiltersResponse   `json:"filters"`
	Items   []ProductResponse `json:"items"`
	Page    PageMeta          `json:"page"`
}

// NewProductListResponse converts a browse result.
func NewProductListResponse(res *app.BrowseResult) *ProductListResponse {
	paged := NewPagedResponse(res.Page.Items, NewPageMeta(res.Page, res.ItemsPerPage, res.Window), NewProductResponse)

	return &ProductListResponse{
		Loading: res.Loading,
		Filters: FiltersResponse{Category: res.Filters.Category, Search: res.Filters.Search},
		Items:   paged.Items,
		Page:    paged.Page,
	}
}

// CategoriesResponse lists the categories, "all" first.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CatalogStatusResponse reports the product source.
type CatalogStatusResponse struct {
	Loading  bool       `json:"loading"`
	Status   string     `json:"status"`
	Products int        `json:"products"`
	Source   string     `json:"source,omitempty"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// NewCatalogStatusResponse converts a catalog status.
func NewCatalogStatusResponse(st app.CatalogStatus) *CatalogStatusResponse {
	resp := &CatalogStatusResponse{
		Loading:  st.Loading(),
		Status:   string(st.State),
		Products: st.Products,
		Source:   st.Source,
		Error:    st.Error,
	}

	if !st.LoadedAt.IsZero() {
		loadedAt := st.LoadedAt.UTC()
		resp.LoadedAt = &loadedAt
	}

	return resp
}

// CartLineResponse is one cart line.
type CartLineResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal string          `json:"subtotal"`
}

// CartResponse is the cart with its totals.
type CartResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalAmount   string             `json:"totalAmount"`
}

func newCartLines(lines []domain.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineResponse{
			Product:  NewProductResponse(l.Product),
			Quantity: l.Quantity,
			Subtotal: Money(l.Subtotal()),
		})
	}

	return out
}

// NewCartResponse converts a cart summary.
func NewCartResponse(c *app.CartSummary) *CartResponse {
	return &CartResponse{
		Lines:         newCartLines(c.Lines),
		TotalQuantity: c.TotalQuantity,
		TotalAmount:   Money(c.TotalAmount),
	}
}

// StorefrontResponse is the full session view.
type StorefrontResponse struct {
	Loading    bool              `json:"loading"`
	Filters    FiltersResponse   `json:"filters"`
	Categories []string          `json:"categories"`
	Items      []ProductResponse `json:"items"`
	Page       PageMeta          `json:"page"`
	CartOpen   bool              `json:"cartOpen"`
	Cart       *CartResponse     `json:"cart"`
}

// NewStorefrontResponse converts a session view.
func NewStorefrontResponse(v *app.StorefrontView) *StorefrontResponse {
	list := NewProductListResponse(&v.BrowseResult)

	return &StorefrontResponse{
		Loading:    list.Loading,
		Filters:    list.Filters,
		Categories: v.Categories,
		Items:      list.Items,
		Page:       list.Page,
		CartOpen:   v.CartOpen,
		Cart:       NewCartResponse(v.Cart),
	}
}

// NavigationResponse reports whether a prev/next request moved the page.
type NavigationResponse struct {
	Moved       bool `json:"moved"`
	CurrentPage int  `json:"currentPage"`
}

// OrderResponse is the checkout stub result.
type OrderResponse struct {
	OrderID       string             `json:"orderId"`
	Status        string             `json:"status"`
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalAmount   string             `json:"totalAmount"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewOrderResponse converts an order. The session id is not exposed.
func NewOrderResponse(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		OrderID:       o.ID,
		Status:        string(o.Status),
		Lines:         newCartLines(o.Lines),
		TotalQuantity: o.TotalQuantity,
		TotalAmount:   Money(o.TotalAmount),
		CreatedAt:     o.CreatedAt.UTC(),
	}
}

// ProductFilterQuery is the filter part of GET /products.
type ProductFilterQuery struct {
	Category string `form:"category" validate:"omitempty,max=100,printable"`
	Search   string `form:"search"   validate:"omitempty,max=200,printable"`
}

// Filters returns the domain filters; an empty category means all.
func (q ProductFilterQuery) Filters() domain.ViewFilters {
	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = domain.AllCategories
	}

	return domain.ViewFilters{Category: category, Search: q.Search}
}

// ListProductsQuery is the full query of GET /products.
type ListProductsQuery struct {
	ProductFilterQuery
	PageQuery
}

// SetFiltersRequest is the body of PUT /storefront/filters.
type SetFiltersRequest struct {
	Category string `json:"category" validate:"omitempty,max=100,printable"`
	Search   string `json:"search"   validate:"omitempty,max=200,printable"`
}

// Filters returns the domain filters; an empty category means all.
func (r SetFiltersRequest) Filters() domain.ViewFilters {
	return ProductFilterQuery(r).Filters()
}

// SetPageRequest is the body of PUT /storefront/page.
type SetPageRequest struct {
	Page int `json:"page" validate:"required,gte=1"`
}

// CartVisibilityRequest is the body of PUT /storefront/cart-visibility.
type CartVisibilityRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// AddToCartRequest is the body of POST /cart/items.
type AddToCartRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
}

// UpdateQuantityRequest is the body of PATCH /cart/items/:id.
type UpdateQuantityRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// Validate rejects a zero delta, which can never change a line.
func (r UpdateQuantityRequest) Validate() error {
	if r.Delta != nil && *r.Delta == 0 {
		return domain.NewValidationError("delta", "must not be zero")
	}

	return nil
}
