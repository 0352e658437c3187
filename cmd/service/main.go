// Package main is the entry point for the storefront service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/storefront/internal/adapters/cache"
	"github.com/jsamuelsen/storefront/internal/adapters/clients"
	"github.com/jsamuelsen/storefront/internal/adapters/clients/acl"
	"github.com/jsamuelsen/storefront/internal/adapters/events"
	"github.com/jsamuelsen/storefront/internal/adapters/flags"
	"github.com/jsamuelsen/storefront/internal/adapters/http"
	"github.com/jsamuelsen/storefront/internal/adapters/http/handlers"
	"github.com/jsamuelsen/storefront/internal/adapters/http/middleware"
	"github.com/jsamuelsen/storefront/internal/adapters/sessions"
	"github.com/jsamuelsen/storefront/internal/app"
	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
	"github.com/jsamuelsen/storefront/internal/platform/telemetry"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser := logging.Open(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, os.Stdout)
	defer func() { _ = logCloser.Close() }()

	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportInterval: cfg.Telemetry.ExportInterval,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := app.NewMetrics(registry)

	health := ports.NewHealthRegistry(cfg.Server.HealthCheckTimeout)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Catalog.BaseURL,
		ServiceName: cfg.Services.Catalog.Name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.App.Name + "/" + Version,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	catalogClient := acl.NewCatalogClient(acl.CatalogClientConfig{
		Client: httpClient,
		Path:   cfg.Services.Catalog.Path,
		Logger: logger,
	})

	catalogCfg := &app.CatalogServiceConfig{
		LoadTimeout: cfg.Services.Catalog.LoadTimeout,
		Metrics:     metrics,
		Logger:      logger,
	}

	checkers := []ports.HealthChecker{catalogClient}

	if cfg.Cache.Enabled {
		redisCache := cache.NewRedis(cache.Config{
			Addr:      cfg.Cache.Addr,
			Password:  cfg.Cache.Password,
			DB:        cfg.Cache.DB,
			KeyPrefix: cfg.App.Name + ":",
			Logger:    logger,
		})
		defer func() { _ = redisCache.Close() }()

		catalogCfg.Cache = redisCache
		catalogCfg.CacheTTL = cfg.Cache.TTL
		checkers = append(checkers, redisCache)
	}

	catalog := app.NewCatalogService(catalogClient, catalogCfg)
	checkers = append(checkers, catalog)

	for _, c := range checkers {
		if err := health.Register(c); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	store := sessions.NewMemoryStore(sessions.Config{
		ItemsPerPage: cfg.Storefront.ItemsPerPage,
		TTL:          cfg.Storefront.SessionTTL,
	})
	featureFlags := flags.FromConfig(cfg.Features)

	storefront := app.NewStorefrontService(store, catalog, featureFlags, &app.StorefrontServiceConfig{
		ItemsPerPage: cfg.Storefront.ItemsPerPage,
		Sizing: domain.WindowSizing{
			Wide:         cfg.Storefront.MaxVisiblePages,
			Compact:      cfg.Storefront.CompactVisiblePages,
			CompactBelow: cfg.Storefront.CompactViewportWidth,
		},
		Metrics: metrics,
		Logger:  logger,
	})

	checkout := app.NewCheckoutService(store, events.NewLogPublisher(logger), featureFlags, &app.CheckoutServiceConfig{
		Metrics: metrics,
		Logger:  logger,
	})

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.App.Name,
		CORS:        &cfg.CORS,
		Session: middleware.SessionConfig{
			CookieName: cfg.Storefront.SessionCookie,
			TTL:        cfg.Storefront.SessionTTL,
			Secure:     cfg.App.Environment == "prod",
		},
		Timeout: cfg.Server.RequestTimeout,
		Health:  handlers.NewHealthHandler(health, handlers.NewBuildInfo(Version, Commit, BuildTime), registry),
		API: []http.RouteRegistrar{
			handlers.NewCatalogHandler(catalog, storefront),
			handlers.NewStorefrontHandler(storefront),
			handlers.NewCartHandler(storefront, checkout),
		},
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-catalog.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return storefront.RunSweeper(gctx, cfg.Storefront.SweepInterval, cfg.Storefront.SessionTTL)
	})

	g.Go(func() error {
		return server.Run(gctx)
	})

	err = g.Wait()

	logger.Info("shutdown complete")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
