// Package app contains the application services. They orchestrate the
// domain through ports and know nothing about HTTP.
package app

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// DefaultItemsPerPage is the page size used when none is configured.
const DefaultItemsPerPage = 8

// Cart operation labels.
const (
	opAdd            = "add"
	opRemove         = "remove"
	opRemoveLine     = "remove_line"
	opUpdateQuantity = "update_quantity"
	opClear          = "clear"
)

// ViewOptions chooses the page window size. MaxVisible wins when positive;
// otherwise ViewportWidth picks between the wide and compact sizes.
type ViewOptions struct {
	ViewportWidth int
	MaxVisible    int
}

// CartSummary is a read-only copy of a cart with its derived totals.
type CartSummary struct {
	Lines         []domain.CartLine
	TotalQuantity int
	TotalAmount   decimal.Decimal
}

func summarize(c *domain.Cart) *CartSummary {
	return &CartSummary{
		Lines:         c.Lines(),
		TotalQuantity: c.TotalQuantity(),
		TotalAmount:   c.TotalAmount(),
	}
}

// BrowseQuery is a stateless product listing request.
type BrowseQuery struct {
	Filters      domain.ViewFilters
	Page         int
	ItemsPerPage int
	View         ViewOptions
}

// BrowseResult is one page of the filtered catalog.
type BrowseResult struct {
	Loading      bool
	Filters      domain.ViewFilters
	Page         domain.Page
	ItemsPerPage int
	Window       []int
}

// StorefrontView is everything a UI needs to render a session.
type StorefrontView struct {
	BrowseResult

	Categories []string
	CartOpen   bool
	Cart       *CartSummary
}

// StorefrontServiceConfig holds optional settings of the storefront service.
type StorefrontServiceConfig struct {
	ItemsPerPage int
	Sizing       domain.WindowSizing
	Metrics      *Metrics
	Logger       *slog.Logger
}

// StorefrontService runs the cart and view operations of a session.
type StorefrontService struct {
	sessions     ports.SessionStore
	products     ports.ProductSource
	flags        ports.FeatureFlags
	itemsPerPage int
	sizing       domain.WindowSizing
	metrics      *Metrics
	logger       *slog.Logger
}

// NewStorefrontService creates the service. flags may be nil, in which case
// every flag takes its default.
func NewStorefrontService(
	sessions ports.SessionStore,
	products ports.ProductSource,
	flags ports.FeatureFlags,
	cfg *StorefrontServiceConfig,
) *StorefrontService {
	if cfg == nil {
		cfg = &StorefrontServiceConfig{}
	}

	itemsPerPage := cfg.ItemsPerPage
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}

	sizing := cfg.Sizing
	if sizing.Wide <= 0 || sizing.Compact <= 0 {
		sizing = domain.DefaultWindowSizing()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StorefrontService{
		sessions:     sessions,
		products:     products,
		flags:        flags,
		itemsPerPage: itemsPerPage,
		sizing:       sizing,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "app.StorefrontService")),
	}
}

func (s *StorefrontService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *StorefrontService) flag(ctx context.Context, name string, def bool) bool {
	if s.flags == nil {
		return def
	}

	return s.flags.IsEnabled(ctx, name, def)
}

func (s *StorefrontService) maxVisible(opts ViewOptions) int {
	if opts.MaxVisible > 0 {
		return opts.MaxVisible
	}

	return s.sizing.MaxVisible(opts.ViewportWidth)
}

func (s *StorefrontService) browse(filters domain.ViewFilters, page, perPage int, opts ViewOptions) BrowseResult {
	filtered := domain.FilterProducts(s.products.Products(), filters)
	p := domain.Paginate(filtered, page, perPage)

	return BrowseResult{
		Loading:      s.products.Loading(),
		Filters:      filters,
		Page:         p,
		ItemsPerPage: perPage,
		Window:       domain.PageWindow(p.CurrentPage, p.TotalPages, s.maxVisible(opts)),
	}
}

// with runs fn on the session and refreshes the live session gauge.
func (s *StorefrontService) with(ctx context.Context, sessionID string, fn func(*domain.Session) error) error {
	err := s.sessions.With(ctx, sessionID, fn)
	s.metrics.SessionsActive.Set(float64(s.sessions.Len()))

	return err
}

// Browse filters and paginates the catalog without touching any session.
func (s *StorefrontService) Browse(_ context.Context, q BrowseQuery) (*BrowseResult, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return nil, domain.NewValidationErrorWithValue("page", "must be at least 1", q.Page)
	}

	if q.ItemsPerPage == 0 {
		q.ItemsPerPage = s.itemsPerPage
	}
	if q.ItemsPerPage < 1 {
		return nil, domain.NewValidationErrorWithValue("per_page", "must be at least 1", q.ItemsPerPage)
	}

	if q.Filters.Category == "" {
		q.Filters.Category = domain.AllCategories
	}

	res := s.browse(q.Filters, q.Page, q.ItemsPerPage, q.View)

	return &res, nil
}

// View derives the session's page, window and cart summary.
func (s *StorefrontService) View(ctx context.Context, sessionID string, opts ViewOptions) (*StorefrontView, error) {
	var view *StorefrontView

	err := s.with(ctx, sessionID, func(sess *domain.Session) error {
		v := sess.View
		view = &StorefrontView{
			BrowseResult: s.browse(v.Filters, v.Page.CurrentPage, v.Page.ItemsPerPage, opts),
			Categories:   domain.Categories(s.products.Products()),
			CartOpen:     v.CartOpen,
			Cart:         summarize(sess.Cart),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// SetFilters replaces the session filters. The page resets to 1 when they
// change.
func (s *StorefrontService) SetFilters(ctx context.Context, sessionID string, f domain.ViewFilters) error {
	return s.with(ctx, sessionID, func(sess *domain.Session) error {
		before := sess.View.Page.CurrentPage
		sess.View.SetFilters(f)

		s.log(ctx).DebugContext(ctx, "filters set",
			slog.String("category", sess.View.Filters.Category),
			slog.Int("page_before", before),
			slog.Int("page", sess.View.Page.CurrentPage))

		return nil
	})
}

// SetPage jumps to page n.
func (s *StorefrontService) SetPage(ctx context.Context, sessionID string, n int) error {
	return s.with(ctx, sessionID, func(sess *domain.Session) error {
		return sess.View.SetPage(n)
	})
}

// NextPage advances one page if the filtered catalog has one and reports
// whether it moved.
func (s *StorefrontService) NextPage(ctx context.Context, sessionID string) (bool, error) {
	moved := false

	err := s.with(ctx, sessionID, func(sess *domain.Session) error {
		filtered := domain.FilterProducts(s.products.Products(), sess.View.Filters)
		moved = sess.View.Next(domain.TotalPages(len(filtered), sess.View.Page.ItemsPerPage))

		return nil
	})

	return moved, err
}

// PrevPage goes back one page if possible and reports whether it moved.
func (s *StorefrontService) PrevPage(ctx context.Context, sessionID string) (bool, error) {
	moved := false

	err := s.with(ctx, sessionID, func(sess *domain.Session) error {
		moved = sess.View.Prev()
		return nil
	})

	return moved, err
}

// SetCartOpen shows or hides the cart panel.
func (s *StorefrontService) SetCartOpen(ctx context.Context, sessionID string, open bool) error {
	return s.with(ctx, sessionID, func(sess *domain.Session) error {
		sess.View.CartOpen = open
		return nil
	})
}

// Cart returns the session cart.
func (s *StorefrontService) Cart(ctx context.Context, sessionID string) (*CartSummary, error) {
	return s.mutateCart(ctx, sessionID, "", func(*domain.Session) (bool, error) { return false, nil })
}

// AddToCart adds one unit of a loaded product. Unknown ids are not found
// and leave the cart unchanged.
func (s *StorefrontService) AddToCart(ctx context.Context, sessionID string, productID int) (*CartSummary, error) {
	if s.products.Loading() {
		return nil, domain.NewUnavailableError("storefront", "catalog is still loading")
	}

	product, ok := s.products.Product(productID)
	if !ok {
		return nil, domain.NewNotFoundError("product", strconv.Itoa(productID))
	}

	autoOpen := s.flag(ctx, ports.FlagCartAutoOpen, true)

	return s.mutateCart(ctx, sessionID, opAdd, func(sess *domain.Session) (bool, error) {
		sess.Cart.Add(product)
		if autoOpen {
			sess.View.CartOpen = true
		}

		return true, nil
	})
}

// RemoveFromCart takes one unit off a line, dropping the line at zero.
// Absent ids are a no-op.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, sessionID string, productID int) (*CartSummary, error) {
	return s.mutateCart(ctx, sessionID, opRemove, func(sess *domain.Session) (bool, error) {
		return sess.Cart.Remove(productID), nil
	})
}

// RemoveLine drops a whole line. Absent ids are a no-op.
func (s *StorefrontService) RemoveLine(ctx context.Context, sessionID string, productID int) (*CartSummary, error) {
	return s.mutateCart(ctx, sessionID, opRemoveLine, func(sess *domain.Session) (bool, error) {
		return sess.Cart.RemoveLine(productID), nil
	})
}

// UpdateQuantity adjusts a line by delta, never below 1.
func (s *StorefrontService) UpdateQuantity(ctx context.Context, sessionID string, productID, delta int) (*CartSummary, error) {
	return s.mutateCart(ctx, sessionID, opUpdateQuantity, func(sess *domain.Session) (bool, error) {
		return sess.Cart.UpdateQuantity(productID, delta), nil
	})
}

// ClearCart empties the cart.
func (s *StorefrontService) ClearCart(ctx context.Context, sessionID string) (*CartSummary, error) {
	return s.mutateCart(ctx, sessionID, opClear, func(sess *domain.Session) (bool, error) {
		changed := !sess.Cart.IsEmpty()
		sess.Cart.Clear()

		return changed, nil
	})
}

func (s *StorefrontService) mutateCart(
	ctx context.Context,
	sessionID, operation string,
	fn func(*domain.Session) (bool, error),
) (*CartSummary, error) {
	var summary *CartSummary

	err := s.with(ctx, sessionID, func(sess *domain.Session) error {
		changed, err := fn(sess)
		if err != nil {
			return err
		}

		summary = summarize(sess.Cart)

		if operation != "" {
			s.metrics.CartOperations.WithLabelValues(operation, strconv.FormatBool(changed)).Inc()
			s.log(ctx).DebugContext(ctx, "cart updated",
				slog.String("operation", operation),
				slog.Bool("changed", changed),
				slog.Int("total_quantity", summary.TotalQuantity))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// RunSweeper evicts idle sessions every interval until ctx is done.
func (s *StorefrontService) RunSweeper(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if removed := s.sessions.Sweep(ctx, now.Add(-ttl)); removed > 0 {
				s.logger.DebugContext(ctx, "idle sessions evicted", slog.Int("count", removed))
			}
			s.metrics.SessionsActive.Set(float64(s.sessions.Len()))
		}
	}
}
