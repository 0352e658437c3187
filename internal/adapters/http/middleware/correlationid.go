package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the header name for correlation ID. Unlike the
	// request ID it is kept across services for one business transaction.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key of the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates or starts a correlation
// ID. The catalog client forwards it upstream.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		enrichers:  enrichers(ContextWithCorrelationID, logging.WithCorrelationID),
	})
}

// GetCorrelationID returns the correlation ID, or "" when the middleware did
// not run.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

func enrichers(fns ...func(context.Context, string) context.Context) []func(context.Context, string) context.Context {
	return fns
}
