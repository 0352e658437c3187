package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/adapters/http/handlers"
	"github.com/jsamuelsen/storefront/internal/adapters/http/middleware"
	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/platform/telemetry"
)

// DefaultRequestTimeout applies when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// RouteRegistrar mounts a group of API routes.
type RouteRegistrar interface {
	Register(rg *gin.RouterGroup)
}

// RouterConfig contains everything SetupRouter wires together.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string
	CORS        *config.CORSConfig
	Session     middleware.SessionConfig

	// Timeout bounds each /api/v1 request. Negative disables it.
	Timeout time.Duration

	Health *handlers.HealthHandler

	// API handlers are mounted under /api/v1 in order.
	API []RouteRegistrar
}

// SetupRouter configures middleware and routes on the engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. CORS
//  5. Tracing and HTTP metrics
//  6. Logging (skips /-/ routes)
//
// The /api/v1 group adds the session and a request deadline. The /-/
// operational routes carry neither so probes stay cheap.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.CORS(cfg.CORS),
		telemetry.Tracing(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.Health != nil {
		cfg.Health.Register(engine.Group("/-"))
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api/v1",
		middleware.Session(cfg.Session),
		middleware.Timeout(timeout),
	)

	for _, r := range cfg.API {
		r.Register(api)
	}
}
