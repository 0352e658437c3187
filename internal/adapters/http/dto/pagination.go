package dto

import "github.com/jsamuelsen/storefront/internal/domain"

// MaxPerPage bounds the per_page query parameter.
const MaxPerPage = 100

// WindowQuery chooses the size of the page button window. MaxVisible wins
// over ViewportWidth; with neither the wide size is used.
type WindowQuery struct {
	MaxVisible    int `form:"max_visible"    validate:"omitempty,gte=1,lte=25"`
	ViewportWidth int `form:"viewport_width" validate:"omitempty,gte=1,lte=10000"`
}

// PageQuery is the pagination part of GET /products. Zero values take the
// configured defaults.
type PageQuery struct {
	WindowQuery

	Page    int `form:"page"     validate:"omitempty,gte=1"`
	PerPage int `form:"per_page" validate:"omitempty,gte=1,lte=100"`
}

// PageMeta describes one page of a filtered listing.
type PageMeta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int   `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasPrev      bool  `json:"hasPrev"`
	HasNext      bool  `json:"hasNext"`
	Window       []int `json:"window"`
}

// NewPageMeta builds page metadata. window is never null in JSON.
func NewPageMeta(p domain.Page, itemsPerPage int, window []int) PageMeta {
	if window == nil {
		window = []int{}
	}

	return PageMeta{
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
		TotalItems:   p.TotalItems,
		ItemsPerPage: itemsPerPage,
		HasPrev:      p.HasPrev(),
		HasNext:      p.HasNext(),
		Window:       window,
	}
}

// PagedResponse is a page of items with its metadata.
type PagedResponse[T any] struct {
	Items []T      `json:"items"`
	Page  PageMeta `json:"page"`
}

// NewPagedResponse converts items with fn. Items is never null in JSON.
func NewPagedResponse[S, T any](items []S, meta PageMeta, fn func(S) T) *PagedResponse[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return &PagedResponse[T]{Items: out, Page: meta}
}
