package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/storefront/internal/adapters/events"
	"github.com/jsamuelsen/storefront/internal/adapters/flags"
	"github.com/jsamuelsen/storefront/internal/adapters/http/middleware"
	"github.com/jsamuelsen/storefront/internal/adapters/sessions"
	"github.com/jsamuelsen/storefront/internal/app"
	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// catalogOf builds n products: odd ids are electronics, even ids jewelery,
// and each costs its id in whole units.
func catalogOf(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for id := 1; id <= n; id++ {
		category := "electronics"
		if id%2 == 0 {
			category = "jewelery"
		}

		products = append(products, domain.Product{
			ID:       id,
			Title:    fmt.Sprintf("Item %02d", id),
			Price:    decimal.NewFromInt(int64(id)),
			Category: category,
			Image:    fmt.Sprintf("https://img.example/%d.jpg", id),
		})
	}

	return products
}

type harness struct {
	router   *gin.Engine
	catalog  *app.CatalogService
	upstream *mocks.MockProductCatalog
}

type harnessOptions struct {
	products []domain.Product
	fetchErr error
	flags    map[string]bool
	noLoad   bool
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := app.NewMetrics(prometheus.NewRegistry())

	upstream := mocks.NewMockProductCatalog(t)
	catalog := app.NewCatalogService(upstream, &app.CatalogServiceConfig{Metrics: metrics, Logger: logger})

	if !opts.noLoad {
		upstream.EXPECT().FetchProducts(mock.Anything).Return(opts.products, opts.fetchErr).Once()
		<-catalog.Start(context.Background())
	}

	store := sessions.NewMemoryStore(sessions.Config{ItemsPerPage: 8, TTL: time.Hour})
	ff := flags.NewStatic(opts.flags, nil)

	storefront := app.NewStorefrontService(store, catalog, ff, &app.StorefrontServiceConfig{
		ItemsPerPage: 8,
		Metrics:      metrics,
		Logger:       logger,
	})
	checkout := app.NewCheckoutService(store, events.NewLogPublisher(logger), ff, &app.CheckoutServiceConfig{
		Metrics: metrics,
		Logger:  logger,
		NewID:   func() string { return "order-1" },
	})

	router := gin.New()
	api := router.Group("/api/v1", middleware.Session(middleware.SessionConfig{}))
	NewCatalogHandler(catalog, storefront).Register(api)
	NewStorefrontHandler(storefront).Register(api)
	NewCartHandler(storefront, checkout).Register(api)

	return &harness{router: router, catalog: catalog, upstream: upstream}
}

// do sends a request as the given session and returns the recorder.
func (h *harness) do(t *testing.T, method, path, sid string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.Header.Set(middleware.HeaderSessionID, sid)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return out
}
