package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/storefront/internal/adapters/clients"
	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

const (
	defaultCatalogPath = "/products"
	defaultCatalogName = "catalog"
)

// CatalogClientConfig configures a CatalogClient.
type CatalogClientConfig struct {
	// Client is the resilient HTTP client pointed at the catalog base URL.
	Client *clients.Client

	// Path is the product list path. Defaults to "/products".
	Path string

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// CatalogClient implements ports.ProductCatalog and ports.HealthChecker
// against a Fake Store API compatible catalog.
type CatalogClient struct {
	client *clients.Client
	path   string
	logger *slog.Logger
}

// NewCatalogClient creates a catalog adapter. It panics without a client.
func NewCatalogClient(cfg CatalogClientConfig) *CatalogClient {
	if cfg.Client == nil {
		panic("CatalogClient: Client is required")
	}

	path := cfg.Path
	if path == "" {
		path = defaultCatalogPath
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogClient{
		client: cfg.Client,
		path:   path,
		logger: logger.With(slog.String("component", "acl.CatalogClient")),
	}
}

// catalogProduct is the upstream product record.
type catalogProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Rating      *catalogRating  `json:"rating"`
}

type catalogRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// FetchProducts loads the full product list. Records that fail validation
// are skipped and logged; the load only fails when the upstream does.
func (c *CatalogClient) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	const operation = "fetch products"

	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", c.path))

	resp, err := c.client.Get(ctx, c.path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, MapClientError(err, c.Name(), operation)
	}

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", c.path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()

		mapped := MapStatus(resp, c.Name(), operation, c.path)
		c.logger.WarnContext(ctx, "catalog returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.Any("error", mapped))

		return nil, mapped
	}

	records, err := DecodeJSON[[]catalogProduct](resp.Body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.Name(), err.Error())
	}

	products, rejected := TranslateEach(records, translateProduct)
	for _, r := range rejected {
		c.logger.WarnContext(ctx, "skipping invalid catalog record",
			slog.Int("index", r.Index),
			slog.Any("error", r.Err))
	}

	c.logger.DebugContext(ctx, "translated catalog",
		slog.Int("received", len(records)),
		slog.Int("accepted", len(products)))

	return products, nil
}

func translateProduct(ext *catalogProduct) (domain.Product, error) {
	if err := ValidatePositive(ext.ID, "id"); err != nil {
		return domain.Product{}, err
	}

	title := strings.TrimSpace(ext.Title)
	if err := ValidateRequired(title, "title"); err != nil {
		return domain.Product{}, fmt.Errorf("product %d: %w", ext.ID, err)
	}

	if ext.Price.IsNegative() {
		return domain.Product{}, domain.NewValidationErrorWithValue("price", "must not be negative", ext.Price.String())
	}

	p := domain.Product{
		ID:          ext.ID,
		Title:       title,
		Price:       ext.Price,
		Category:    ext.Category,
		Image:       ext.Image,
		Description: ext.Description,
	}

	if ext.Rating != nil {
		p.Rating = domain.Rating{Rate: ext.Rating.Rate, Count: ext.Rating.Count}
	}

	return p, nil
}

// Name implements ports.HealthChecker.
func (c *CatalogClient) Name() string {
	if name := c.client.ServiceName(); name != "" {
		return name
	}

	return defaultCatalogName
}

// Check implements ports.HealthChecker with a HEAD request against the
// product path. Any response below 500 counts as reachable.
func (c *CatalogClient) Check(ctx context.Context) error {
	if c.client.CircuitState() == clients.StateOpen {
		return clients.ErrCircuitOpen
	}

	resp, err := c.client.Head(ctx, c.path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	return nil
}
