//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/storefront/internal/adapters/cache"
	"github.com/jsamuelsen/storefront/internal/adapters/clients"
	"github.com/jsamuelsen/storefront/internal/adapters/clients/acl"
	"github.com/jsamuelsen/storefront/internal/adapters/events"
	"github.com/jsamuelsen/storefront/internal/adapters/flags"
	transport "github.com/jsamuelsen/storefront/internal/adapters/http"
	"github.com/jsamuelsen/storefront/internal/adapters/http/handlers"
	"github.com/jsamuelsen/storefront/internal/adapters/http/middleware"
	"github.com/jsamuelsen/storefront/internal/adapters/sessions"
	"github.com/jsamuelsen/storefront/internal/app"
	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// upstream is a fake product catalog. Odd ids are electronics, even ids
// jewelery, and product n costs n.50.
type upstream struct {
	server *httptest.Server
	count  int
	calls  atomic.Int32
	down   atomic.Bool
	delay  time.Duration
}

func newUpstream(count int, delay time.Duration) *upstream {
	u := &upstream{count: count, delay: delay}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))

	return u
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/products" {
		http.NotFound(w, r)
		return
	}

	if r.Method == http.MethodGet {
		u.calls.Add(1)
	}

	if u.delay > 0 {
		time.Sleep(u.delay)
	}

	if u.down.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"catalog exploded"}`)
		return
	}

	products := make([]map[string]any, 0, u.count)
	for id := 1; id <= u.count; id++ {
		category := "electronics"
		if id%2 == 0 {
			category = "jewelery"
		}

		products = append(products, map[string]any{
			"id":          id,
			"title":       fmt.Sprintf("Item %02d", id),
			"price":       json.Number(fmt.Sprintf("%d.50", id)),
			"category":    category,
			"image":       fmt.Sprintf("https://img.example/%d.jpg", id),
			"description": "A product.",
			"rating":      map[string]any{"rate": 4.1, "count": 10 * id},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(products)
}

func (u *upstream) Close() { u.server.Close() }

type stackOptions struct {
	products int
	down     bool
	delay    time.Duration
	redis    *miniredis.Miniredis
	features config.FeaturesConfig
	noWait   bool
}

// stack is the whole service running in process against a fake upstream.
type stack struct {
	server   *httptest.Server
	upstream *upstream
	catalog  *app.CatalogService
	cache    *cache.RedisCache
	loaded   <-chan struct{}
}

func testClientConfig() config.ClientConfig {
	return config.ClientConfig{
		Timeout: 2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
	}
}

func newStack(opts stackOptions) (*stack, error) {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	metrics := app.NewMetrics(registry)

	up := newUpstream(opts.products, opts.delay)
	up.down.Store(opts.down)

	clientCfg := testClientConfig()
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     up.server.URL,
		ServiceName: "catalog",
		Timeout:     clientCfg.Timeout,
		Retry:       clientCfg.Retry,
		Circuit:     clientCfg.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		up.Close()
		return nil, err
	}

	catalogClient := acl.NewCatalogClient(acl.CatalogClientConfig{Client: httpClient, Logger: logger})
	catalogCfg := &app.CatalogServiceConfig{LoadTimeout: 5 * time.Second, Metrics: metrics, Logger: logger}

	health := ports.NewHealthRegistry(time.Second)
	checkers := []ports.HealthChecker{catalogClient}

	var redisCache *cache.RedisCache
	if opts.redis != nil {
		redisCache = cache.NewRedis(cache.Config{Addr: opts.redis.Addr(), KeyPrefix: "storefront:", Logger: logger})
		catalogCfg.Cache = redisCache
		catalogCfg.CacheTTL = time.Minute
		checkers = append(checkers, redisCache)
	}

	catalog := app.NewCatalogService(catalogClient, catalogCfg)
	checkers = append(checkers, catalog)

	for _, c := range checkers {
		if err := health.Register(c); err != nil {
			up.Close()
			return nil, err
		}
	}

	features := opts.features
	if features == (config.FeaturesConfig{}) {
		features = config.FeaturesConfig{CartAutoOpen: true, CheckoutEnabled: true}
	}
	ff := flags.FromConfig(features)

	store := sessions.NewMemoryStore(sessions.Config{ItemsPerPage: 8, TTL: time.Hour})
	storefront := app.NewStorefrontService(store, catalog, ff, &app.StorefrontServiceConfig{
		ItemsPerPage: 8,
		Metrics:      metrics,
		Logger:       logger,
	})
	checkout := app.NewCheckoutService(store, events.NewLogPublisher(logger), ff, &app.CheckoutServiceConfig{
		Metrics: metrics,
		Logger:  logger,
	})

	engine := gin.New()
	transport.SetupRouter(engine, transport.RouterConfig{
		Logger:      logger,
		ServiceName: "storefront-integration",
		Session:     middleware.SessionConfig{CookieName: "sid", TTL: time.Hour},
		Timeout:     5 * time.Second,
		Health:      handlers.NewHealthHandler(health, handlers.NewBuildInfo("test", "none", "now"), registry),
		API: []transport.RouteRegistrar{
			handlers.NewCatalogHandler(catalog, storefront),
			handlers.NewStorefrontHandler(storefront),
			handlers.NewCartHandler(storefront, checkout),
		},
	})

	s := &stack{
		server:   httptest.NewServer(engine),
		upstream: up,
		catalog:  catalog,
		cache:    redisCache,
		loaded:   catalog.Start(context.Background()),
	}

	if !opts.noWait {
		<-s.loaded
	}

	return s, nil
}

func mustStack(t *testing.T, opts stackOptions) *stack {
	t.Helper()

	s, err := newStack(opts)
	if err != nil {
		t.Fatalf("starting stack: %v", err)
	}
	t.Cleanup(s.Close)

	return s
}

func (s *stack) Close() {
	<-s.loaded
	s.server.Close()
	s.upstream.Close()

	if s.cache != nil {
		_ = s.cache.Close()
	}
}

func (s *stack) URL(path string) string {
	return s.server.URL + path
}
