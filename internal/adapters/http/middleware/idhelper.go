package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxIDLength bounds incoming ids so they are safe to echo and log.
const maxIDLength = 128

// idMiddlewareConfig configures a middleware that resolves one id per
// request: read it from the request, replace it with a UUID when absent or
// malformed, store it in the gin and request contexts, and echo it back.
type idMiddlewareConfig struct {
	headerName string
	contextKey string

	// read returns the incoming id. Defaults to the header.
	read func(c *gin.Context) string

	// write echoes the resolved id. Defaults to the response header.
	write func(c *gin.Context, id string)

	enrichers []func(ctx context.Context, id string) context.Context
}

func createIDMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	read := cfg.read
	if read == nil {
		read = func(c *gin.Context) string { return c.GetHeader(cfg.headerName) }
	}

	write := cfg.write
	if write == nil {
		write = func(c *gin.Context, id string) { c.Header(cfg.headerName, id) }
	}

	return func(c *gin.Context) {
		id := read(c)
		if !validID(id) {
			id = uuid.NewString()
		}

		c.Set(cfg.contextKey, id)
		write(c, id)

		ctx := c.Request.Context()
		for _, enrich := range cfg.enrichers {
			ctx = enrich(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// validID accepts 1 to maxIDLength characters of [A-Za-z0-9._:-].
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}

	return true
}

func getIDFromContext(c *gin.Context, key string) string {
	if id, exists := c.Get(key); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}

	return ""
}
