package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// CatalogCacheKey is the cache key holding the last good product list.
const CatalogCacheKey = "catalog:products"

const (
	defaultLoadTimeout = 30 * time.Second

	// One flight per mode: a reload must not join a cache-first start.
	startFlightKey  = "start"
	reloadFlightKey = "reload"

	sourceUpstream = "upstream"
	sourceCache    = "cache"
)

// CatalogState is the lifecycle state of the product list.
type CatalogState string

// Catalog states.
const (
	CatalogLoading CatalogState = "loading"
	CatalogReady   CatalogState = "ready"
	CatalogFailed  CatalogState = "failed"
)

// CatalogStatus is a point-in-time view of the product source.
type CatalogStatus struct {
	State    CatalogState
	Products int
	Source   string
	LoadedAt time.Time
	Error    string
}

// Loading reports whether the initial load is in flight.
func (s CatalogStatus) Loading() bool {
	return s.State == CatalogLoading
}

// CatalogServiceConfig holds optional collaborators of the catalog service.
type CatalogServiceConfig struct {
	// Cache enables cache-first loading when set.
	Cache    ports.Cache
	CacheTTL time.Duration

	// LoadTimeout bounds one fetch. Defaults to 30s.
	LoadTimeout time.Duration

	Metrics *Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// CatalogService is the product source. It loads the catalog once in the
// background and serves the result from memory.
//
// A failed load clears the loading flag and leaves an empty list with the
// failure recorded in Status; Reload is the retry path.
type CatalogService struct {
	catalog     ports.ProductCatalog
	cache       ports.Cache
	cacheTTL    time.Duration
	loadTimeout time.Duration
	metrics     *Metrics
	logger      *slog.Logger
	now         func() time.Time

	flight singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
	index    map[int]int
	status   CatalogStatus
}

// NewCatalogService creates a catalog service in the loading state.
func NewCatalogService(catalog ports.ProductCatalog, cfg *CatalogServiceConfig) *CatalogService {
	if cfg == nil {
		cfg = &CatalogServiceConfig{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics()
	}

	timeout := cfg.LoadTimeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &CatalogService{
		catalog:     catalog,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		loadTimeout: timeout,
		metrics:     metrics,
		logger:      logger.With(slog.String("component", "app.CatalogService")),
		now:         now,
		products:    []domain.Product{},
		index:       map[int]int{},
		status:      CatalogStatus{State: CatalogLoading},
	}
}

// Start kicks off the initial load without blocking. The returned channel
// closes when the load has finished either way.
func (s *CatalogService) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = s.run(ctx, true)
	}()

	return done
}

// Reload fetches the catalog from the upstream, bypassing the cache.
// Concurrent reloads share one fetch; a reload never waits on a start that
// is reading the cache. A failed reload keeps previously loaded products.
func (s *CatalogService) Reload(ctx context.Context) (CatalogStatus, error) {
	return s.run(ctx, false)
}

func (s *CatalogService) run(ctx context.Context, useCache bool) (CatalogStatus, error) {
	// Detached: other callers may be waiting on the same fetch.
	loadCtx := context.WithoutCancel(ctx)

	key := reloadFlightKey
	if useCache {
		key = startFlightKey
	}

	ch := s.flight.DoChan(key, func() (any, error) {
		return nil, s.load(loadCtx, useCache)
	})

	select {
	case res := <-ch:
		return s.Status(), res.Err
	case <-ctx.Done():
		return s.Status(), ctx.Err()
	}
}

func (s *CatalogService) load(ctx context.Context, useCache bool) error {
	logger := s.logger

	if useCache {
		if products, ok := s.readCache(ctx, logger); ok {
			products = s.dedupe(ctx, products, sourceCache)
			if !s.publishIfUnloaded(products) {
				logger.InfoContext(ctx, "catalog already loaded, ignoring cached copy")
				return nil
			}

			s.metrics.CatalogLoads.WithLabelValues(sourceCache, "success").Inc()
			logger.InfoContext(ctx, "catalog loaded", slog.String("source", sourceCache), slog.Int("count", len(products)))

			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	start := s.now()

	products, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		s.fail(err)
		s.metrics.CatalogLoads.WithLabelValues(sourceUpstream, "failure").Inc()
		logger.ErrorContext(ctx, "catalog load failed", slog.Any("error", err))

		return fmt.Errorf("loading catalog: %w", err)
	}

	products = s.dedupe(ctx, products, sourceUpstream)
	s.publish(products, sourceUpstream)
	s.metrics.CatalogLoads.WithLabelValues(sourceUpstream, "success").Inc()
	logger.InfoContext(ctx, "catalog loaded",
		slog.String("source", sourceUpstream),
		slog.Int("count", len(products)),
		slog.Duration("duration", s.now().Sub(start)))

	s.writeCache(ctx, logger, products)

	return nil
}

// dedupe drops products whose id was already seen. The first occurrence
// wins.
func (s *CatalogService) dedupe(ctx context.Context, products []domain.Product, source string) []domain.Product {
	seen := make(map[int]struct{}, len(products))
	out := products[:0:0]

	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			s.logger.WarnContext(ctx, "dropping duplicate product",
				slog.Int("id", p.ID),
				slog.String("source", source))

			continue
		}

		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	return out
}

func (s *CatalogService) publish(products []domain.Product, source string) {
	s.mu.Lock()
	s.setLocked(products, source)
	s.mu.Unlock()

	s.metrics.CatalogSize.Set(float64(len(products)))
}

// publishIfUnloaded installs a cached list unless a fetch has already
// published a fresher one.
func (s *CatalogService) publishIfUnloaded(products []domain.Product) bool {
	s.mu.Lock()
	if s.status.State == CatalogReady {
		s.mu.Unlock()
		return false
	}

	s.setLocked(products, sourceCache)
	s.mu.Unlock()

	s.metrics.CatalogSize.Set(float64(len(products)))

	return true
}

func (s *CatalogService) setLocked(products []domain.Product, source string) {
	if products == nil {
		products = []domain.Product{}
	}

	index := make(map[int]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	s.products = products
	s.index = index
	s.status = CatalogStatus{
		State:    CatalogReady,
		Products: len(products),
		Source:   source,
		LoadedAt: s.now(),
	}
}

func (s *CatalogService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Error = err.Error()
	if s.status.State != CatalogReady {
		s.status.State = CatalogFailed
	}
}

// Products implements ports.ProductSource.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.products
}

// Product implements ports.ProductSource.
func (s *CatalogService) Product(id int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}

	return s.products[i], true
}

// Loading implements ports.ProductSource.
func (s *CatalogService) Loading() bool {
	return s.Status().Loading()
}

// Categories returns the category filter options of the loaded catalog.
func (s *CatalogService) Categories() []string {
	return domain.Categories(s.Products())
}

// Status returns the current load status.
func (s *CatalogService) Status() CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// Name implements ports.HealthChecker.
func (s *CatalogService) Name() string {
	return "catalog.loaded"
}

// Check reports unhealthy until a product list has been loaded.
func (s *CatalogService) Check(context.Context) error {
	st := s.Status()

	switch st.State {
	case CatalogReady:
		return nil
	case CatalogFailed:
		return fmt.Errorf("catalog load failed: %s", st.Error)
	default:
		return errors.New("catalog still loading")
	}
}

// cachedProduct is the cache encoding of domain.Product.
type cachedProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Rate        float64         `json:"rate,omitempty"`
	Count       int             `json:"count,omitempty"`
}

func (s *CatalogService) readCache(ctx context.Context, logger *slog.Logger) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, CatalogCacheKey)
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.WarnContext(ctx, "catalog cache read failed", slog.Any("error", err))
		}

		return nil, false
	}

	var cached []cachedProduct
	if err := json.Unmarshal(raw, &cached); err != nil || len(cached) == 0 {
		logger.WarnContext(ctx, "discarding unusable catalog cache entry", slog.Any("error", err))
		s.metrics.CatalogLoads.WithLabelValues(sourceCache, "failure").Inc()

		return nil, false
	}

	products := make([]domain.Product, len(cached))
	for i, c := range cached {
		products[i] = domain.Product{
			ID:          c.ID,
			Title:       c.Title,
			Price:       c.Price,
			Category:    c.Category,
			Image:       c.Image,
			Description: c.Description,
			Rating:      domain.Rating{Rate: c.Rate, Count: c.Count},
		}
	}

	return products, true
}

func (s *CatalogService) writeCache(ctx context.Context, logger *slog.Logger, products []domain.Product) {
	if s.cache == nil || len(products) == 0 {
		return
	}

	cached := make([]cachedProduct, len(products))
	for i, p := range products {
		cached[i] = cachedProduct{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Category:    p.Category,
			Image:       p.Image,
			Description: p.Description,
			Rate:        p.Rating.Rate,
			Count:       p.Rating.Count,
		}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		logger.WarnContext(ctx, "encoding catalog cache entry", slog.Any("error", err))
		return
	}

	if err := s.cache.Set(ctx, CatalogCacheKey, raw, s.cacheTTL); err != nil {
		logger.WarnContext(ctx, "catalog cache write failed", slog.Any("error", err))
	}
}
