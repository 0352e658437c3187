package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

// opsPrefix is the route prefix of probes and metrics.
const opsPrefix = "/-/"

// Logging returns middleware that logs each request on start and on
// completion. The completion level follows the status: error for 5xx, warn
// for 4xx. Operational routes under /-/ and any exact skipPaths are not
// logged.
//
// The query string is left out of logged paths because search terms are
// user input.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, ok := skip[path]; ok || strings.HasPrefix(path, opsPrefix) {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()
		ctxLogger := logging.FromContextOr(ctx, logger)

		ctxLogger.DebugContext(ctx, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		// Session middleware runs after this one and enriches the context
		// logger, so re-read it.
		ctx = c.Request.Context()
		ctxLogger = logging.FromContextOr(ctx, logger)

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		ctxLogger.Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
