package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/storefront/internal/adapters/sessions"
	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/mocks"
	"github.com/jsamuelsen/storefront/internal/ports"
)

const sid = "session-1"

// catalogOf returns n products alternating between two categories, priced
// at id dollars.
func catalogOf(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		id := i + 1
		category := "electronics"
		if id%2 == 0 {
			category = "jewelery"
		}
		out[i] = domain.Product{
			ID:       id,
			Title:    fmt.Sprintf("Item %02d", id),
			Price:    decimal.NewFromInt(int64(id)),
			Category: category,
		}
	}

	return out
}

func readySource(t *testing.T, products []domain.Product) *mocks.MockProductSource {
	t.Helper()

	src := mocks.NewMockProductSource(t)
	src.EXPECT().Products().Return(products).Maybe()
	src.EXPECT().Loading().Return(false).Maybe()
	src.EXPECT().Product(mock.Anything).RunAndReturn(func(id int) (domain.Product, bool) {
		for _, p := range products {
			if p.ID == id {
				return p, true
			}
		}
		return domain.Product{}, false
	}).Maybe()

	return src
}

type fixture struct {
	svc     *StorefrontService
	store   *sessions.MemoryStore
	metrics *Metrics
}

func newFixture(t *testing.T, products []domain.Product, flags ports.FeatureFlags) fixture {
	t.Helper()

	store := sessions.NewMemoryStore(sessions.Config{ItemsPerPage: 8, TTL: time.Hour})
	metrics := NewMetrics(prometheus.NewRegistry())

	svc := NewStorefrontService(store, readySource(t, products), flags, &StorefrontServiceConfig{
		ItemsPerPage: 8,
		Metrics:      metrics,
		Logger:       discardLogger(),
	})

	return fixture{svc: svc, store: store, metrics: metrics}
}

func TestStorefrontService_Browse(t *testing.T) {
	f := newFixture(t, catalogOf(20), nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		query      BrowseQuery
		wantIDs    []int
		wantPages  int
		wantTotal  int
		wantWindow []int
	}{
		{
			name:       "defaults to first page of everything",
			query:      BrowseQuery{},
			wantIDs:    []int{1, 2, 3, 4, 5, 6, 7, 8},
			wantPages:  3,
			wantTotal:  20,
			wantWindow: []int{1, 2, 3},
		},
		{
			name:       "category filter and last partial page",
			query:      BrowseQuery{Filters: domain.ViewFilters{Category: "jewelery"}, Page: 2},
			wantIDs:    []int{18, 20},
			wantPages:  2,
			wantTotal:  10,
			wantWindow: []int{1, 2},
		},
		{
			name:       "case-insensitive search",
			query:      BrowseQuery{Filters: domain.ViewFilters{Search: "item 1"}},
			wantIDs:    []int{10, 11, 12, 13, 14, 15, 16, 17},
			wantPages:  2,
			wantTotal:  10,
			wantWindow: []int{1, 2},
		},
		{
			name:       "page past the end is empty",
			query:      BrowseQuery{Page: 9},
			wantIDs:    []int{},
			wantPages:  3,
			wantTotal:  20,
			wantWindow: []int{1, 2, 3},
		},
		{
			name:       "compact viewport narrows the window",
			query:      BrowseQuery{Page: 5, ItemsPerPage: 2, View: ViewOptions{ViewportWidth: 500}},
			wantIDs:    []int{9, 10},
			wantPages:  10,
			wantTotal:  20,
			wantWindow: []int{4, 5, 6},
		},
		{
			name:       "explicit max visible wins",
			query:      BrowseQuery{Page: 5, ItemsPerPage: 2, View: ViewOptions{ViewportWidth: 500, MaxVisible: 5}},
			wantIDs:    []int{9, 10},
			wantPages:  10,
			wantTotal:  20,
			wantWindow: []int{3, 4, 5, 6, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Browse(ctx, tt.query)
			require.NoError(t, err)

			ids := make([]int, 0, len(res.Page.Items))
			for _, p := range res.Page.Items {
				ids = append(ids, p.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPages, res.Page.TotalPages)
			assert.Equal(t, tt.wantTotal, res.Page.TotalItems)
			assert.Equal(t, tt.wantWindow, res.Window)
			if tt.query.Filters.Category == "" {
				assert.Equal(t, domain.AllCategories, res.Filters.Category)
			}
		})
	}
}

func TestStorefrontService_Browse_Validation(t *testing.T) {
	f := newFixture(t, catalogOf(3), nil)

	_, err := f.svc.Browse(context.Background(), BrowseQuery{Page: -1})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Browse(context.Background(), BrowseQuery{ItemsPerPage: -4})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStorefrontService_View(t *testing.T) {
	f := newFixture(t, catalogOf(20), nil)
	ctx := context.Background()

	view, err := f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)

	assert.False(t, view.Loading)
	assert.Equal(t, domain.DefaultFilters(), view.Filters)
	assert.Equal(t, 1, view.Page.CurrentPage)
	assert.Len(t, view.Page.Items, 8)
	assert.Equal(t, []int{1, 2, 3}, view.Window)
	assert.Equal(t, []string{"all", "electronics", "jewelery"}, view.Categories)
	assert.False(t, view.CartOpen)
	assert.Zero(t, view.Cart.TotalQuantity)
	assert.True(t, view.Cart.TotalAmount.IsZero())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.SessionsActive), 0)
}

func TestStorefrontService_FiltersResetPageOnlyOnChange(t *testing.T) {
	f := newFixture(t, catalogOf(20), nil)
	ctx := context.Background()

	require.NoError(t, f.svc.SetPage(ctx, sid, 3))
	require.NoError(t, f.svc.SetFilters(ctx, sid, domain.ViewFilters{Category: domain.AllCategories}))

	view, err := f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page.CurrentPage, "identical filters keep the page")

	require.NoError(t, f.svc.SetFilters(ctx, sid, domain.ViewFilters{Category: "jewelery"}))

	view, err = f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page.CurrentPage)
	assert.Equal(t, 10, view.Page.TotalItems)
}

func TestStorefrontService_SetPage_Validation(t *testing.T) {
	f := newFixture(t, catalogOf(3), nil)

	err := f.svc.SetPage(context.Background(), sid, 0)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStorefrontService_NextPrev(t *testing.T) {
	f := newFixture(t, catalogOf(20), nil)
	ctx := context.Background()

	moved, err := f.svc.PrevPage(ctx, sid)
	require.NoError(t, err)
	assert.False(t, moved, "no page before the first")

	for want := 2; want <= 3; want++ {
		moved, err = f.svc.NextPage(ctx, sid)
		require.NoError(t, err)
		assert.True(t, moved)
	}

	moved, err = f.svc.NextPage(ctx, sid)
	require.NoError(t, err)
	assert.False(t, moved, "no page after the last")

	moved, err = f.svc.PrevPage(ctx, sid)
	require.NoError(t, err)
	assert.True(t, moved)

	view, err := f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page.CurrentPage)
}

func TestStorefrontService_CartVisibility(t *testing.T) {
	f := newFixture(t, catalogOf(3), nil)
	ctx := context.Background()

	require.NoError(t, f.svc.SetCartOpen(ctx, sid, true))
	view, err := f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)
	assert.True(t, view.CartOpen)

	require.NoError(t, f.svc.SetCartOpen(ctx, sid, false))
	view, err = f.svc.View(ctx, sid, ViewOptions{})
	require.NoError(t, err)
	assert.False(t, view.CartOpen)
}

func TestStorefrontService_CartOperations(t *testing.T) {
	f := newFixture(t, catalogOf(5), nil)
	ctx := context.Background()

	cart, err := f.svc.AddToCart(ctx, sid, 2)
	require.NoError(t, err)
	cart, err = f.svc.AddToCart(ctx, sid, 2)
	require.NoError(t, err)
	cart, err = f.svc.AddToCart(ctx, sid, 5)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Product.ID, "lines keep insertion order")
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.Equal(t, "9.00", cart.TotalAmount.StringFixed(2))

	cart, err = f.svc.RemoveFromCart(ctx, sid, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalQuantity)

	cart, err = f.svc.RemoveFromCart(ctx, sid, 404)
	require.NoError(t, err, "removing an absent product is a no-op")
	assert.Equal(t, 2, cart.TotalQuantity)

	cart, err = f.svc.UpdateQuantity(ctx, sid, 5, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, cart.TotalQuantity)

	cart, err = f.svc.UpdateQuantity(ctx, sid, 5, -20)
	require.NoError(t, err)
	line := cart.Lines[1]
	assert.Equal(t, 1, line.Quantity, "quantity never drops below one")

	cart, err = f.svc.RemoveLine(ctx, sid, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	cart, err = f.svc.ClearCart(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.TotalAmount.IsZero())

	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.CartOperations.WithLabelValues("add", "true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CartOperations.WithLabelValues("remove", "false")), 0)
}

func TestStorefrontService_AddUnknownProduct(t *testing.T) {
	f := newFixture(t, catalogOf(3), nil)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, sid, 42)
	require.ErrorIs(t, err, domain.ErrNotFound)

	cart, err := f.svc.Cart(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestStorefrontService_AddWhileLoading(t *testing.T) {
	src := mocks.NewMockProductSource(t)
	src.EXPECT().Loading().Return(true).Once()

	store := sessions.NewMemoryStore(sessions.Config{ItemsPerPage: 8, TTL: time.Hour})
	svc := NewStorefrontService(store, src, nil, &StorefrontServiceConfig{Logger: discardLogger()})

	_, err := svc.AddToCart(context.Background(), sid, 1)

	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestStorefrontService_AutoOpenFlag(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		wantOpen bool
	}{
		{name: "enabled opens the cart", enabled: true, wantOpen: true},
		{name: "disabled leaves it closed", enabled: false, wantOpen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := mocks.NewMockFeatureFlags(t)
			flags.EXPECT().IsEnabled(mock.Anything, ports.FlagCartAutoOpen, true).Return(tt.enabled).Once()

			f := newFixture(t, catalogOf(3), flags)
			ctx := context.Background()

			_, err := f.svc.AddToCart(ctx, sid, 1)
			require.NoError(t, err)

			view, err := f.svc.View(ctx, sid, ViewOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOpen, view.CartOpen)
		})
	}
}

func TestStorefrontService_RunSweeper(t *testing.T) {
	store := mocks.NewMockSessionStore(t)
	store.EXPECT().Sweep(mock.Anything, mock.Anything).Return(2)
	store.EXPECT().Len().Return(0)

	svc := NewStorefrontService(store, readySource(t, nil), nil, &StorefrontServiceConfig{Logger: discardLogger()})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, svc.RunSweeper(ctx, 5*time.Millisecond, time.Minute))
}
