package domain

import "strings"

// AllCategories is the category sentinel that matches every product.
const AllCategories = "all"

// ViewFilters is the user's current category and search selection.
type ViewFilters struct {
	Category string
	Search   string
}

// DefaultFilters returns the filters of a fresh session.
func DefaultFilters() ViewFilters {
	return ViewFilters{Category: AllCategories}
}

// Matches reports whether p passes both the category and the search filter.
// The search is a case-insensitive substring match on the title.
func (f ViewFilters) Matches(p Product) bool {
	if f.Category != AllCategories && f.Category != "" && p.Category != f.Category {
		return false
	}

	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search))
}

// FilterProducts returns the products matching filters, in their original
// order. The input slice is not modified.
func FilterProducts(products []Product, filters ViewFilters) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filters.Matches(p) {
			out = append(out, p)
		}
	}

	return out
}

// Categories returns the AllCategories sentinel followed by each distinct
// category in order of first occurrence.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategories}

	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}

	return out
}

// Page is one window of a filtered product list.
type Page struct {
	Items       []Product
	CurrentPage int
	TotalPages  int
	TotalItems  int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// TotalPages returns ceil(count / itemsPerPage).
func TotalPages(count, itemsPerPage int) int {
	if itemsPerPage <= 0 || count <= 0 {
		return 0
	}

	return (count + itemsPerPage - 1) / itemsPerPage
}

// Paginate returns the slice [(page-1)*n, page*n) of filtered, clipped to
// the list. Pages are 1-indexed; a page past the end yields no items.
// The page number is echoed back unclamped.
func Paginate(filtered []Product, currentPage, itemsPerPage int) Page {
	page := Page{
		Items:       []Product{},
		CurrentPage: currentPage,
		TotalPages:  TotalPages(len(filtered), itemsPerPage),
		TotalItems:  len(filtered),
	}

	if currentPage < 1 || itemsPerPage <= 0 {
		return page
	}

	start := (currentPage - 1) * itemsPerPage
	if start >= len(filtered) {
		return page
	}

	end := min(start+itemsPerPage, len(filtered))
	page.Items = filtered[start:end]

	return page
}

// PageWindow returns the page numbers to show as navigation buttons: at
// most maxVisible contiguous pages centered on currentPage, clipped to
// [1, totalPages]. When one end is clipped the window widens toward the
// other end.
func PageWindow(currentPage, totalPages, maxVisible int) []int {
	if totalPages <= 0 || maxVisible <= 0 {
		return []int{}
	}

	start := max(1, currentPage-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)

	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}

	return out
}

// WindowSizing chooses the page window size from a viewport width.
type WindowSizing struct {
	// Wide is the window size on wide viewports.
	Wide int

	// Compact is the window size below CompactBelow pixels.
	Compact int

	// CompactBelow is the viewport width threshold in pixels.
	CompactBelow int
}

// DefaultWindowSizing mirrors the storefront defaults: 3 buttons under
// 768px, 5 otherwise.
func DefaultWindowSizing() WindowSizing {
	return WindowSizing{Wide: 5, Compact: 3, CompactBelow: 768}
}

// MaxVisible returns the window size for a viewport width. A zero or
// negative width means unknown and selects the wide size.
func (w WindowSizing) MaxVisible(viewportWidth int) int {
	if viewportWidth > 0 && viewportWidth < w.CompactBelow {
		return w.Compact
	}

	return w.Wide
}
