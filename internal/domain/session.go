package domain

import "time"

// PageState is the current page of the filtered product list.
type PageState struct {
	CurrentPage  int
	ItemsPerPage int
}

// ViewState is the per-session presentation state: the active filters, the
// page being viewed and whether the cart panel is open.
type ViewState struct {
	Filters  ViewFilters
	Page     PageState
	CartOpen bool
}

// NewViewState returns the view state of a fresh session.
func NewViewState(itemsPerPage int) ViewState {
	return ViewState{
		Filters: DefaultFilters(),
		Page:    PageState{CurrentPage: 1, ItemsPerPage: itemsPerPage},
	}
}

// SetFilters replaces the filters. The current page resets to 1 only when
// the filters actually change.
func (v *ViewState) SetFilters(f ViewFilters) {
	if f.Category == "" {
		f.Category = AllCategories
	}

	if f == v.Filters {
		return
	}

	v.Filters = f
	v.Page.CurrentPage = 1
}

// SetPage moves to page n. n must be at least 1; it is not clamped to the
// page count because the count depends on the catalog at read time.
func (v *ViewState) SetPage(n int) error {
	if n < 1 {
		return NewValidationErrorWithValue("page", "must be at least 1", n)
	}

	v.Page.CurrentPage = n

	return nil
}

// Next advances one page when a following page exists and reports whether
// the page changed.
func (v *ViewState) Next(totalPages int) bool {
	if v.Page.CurrentPage >= totalPages {
		return false
	}

	v.Page.CurrentPage++

	return true
}

// Prev goes back one page when a previous page exists and reports whether
// the page changed.
func (v *ViewState) Prev() bool {
	if v.Page.CurrentPage <= 1 {
		return false
	}

	v.Page.CurrentPage--

	return true
}

// Session is the state owned by one browser session.
type Session struct {
	ID       string
	Cart     *Cart
	View     ViewState
	LastSeen time.Time
}

// NewSession returns an empty session.
func NewSession(id string, itemsPerPage int, now time.Time) *Session {
	return &Session{
		ID:       id,
		Cart:     NewCart(),
		View:     NewViewState(itemsPerPage),
		LastSeen: now,
	}
}

// Touch records activity on the session.
func (s *Session) Touch(now time.Time) {
	s.LastSeen = now
}

// Expired reports whether the session has been idle for longer than ttl.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen) > ttl
}
