package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/platform/telemetry"
)

// CORS returns the cross-origin middleware for browser storefronts. The
// id headers are allowed in and exposed back so a UI can keep its session
// without cookies. With no origins configured, or "*", every origin is
// allowed and credentials are disabled.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			HeaderRequestID, HeaderCorrelationID, HeaderSessionID,
		},
		ExposeHeaders: []string{HeaderRequestID, HeaderCorrelationID, HeaderSessionID, telemetry.HeaderTraceID},
		MaxAge:        12 * time.Hour,
	}

	if cfg != nil && cfg.MaxAge > 0 {
		c.MaxAge = cfg.MaxAge
	}

	if cfg == nil || len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = cfg.AllowCredentials
	}

	return cors.New(c)
}
