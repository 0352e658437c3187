package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/platform/logging"
	"github.com/jsamuelsen/storefront/internal/ports"
)

const (
	// HeaderSessionID carries the storefront session for clients that do
	// not keep cookies.
	HeaderSessionID = "X-Session-ID"

	// ContextKeySessionID is the gin context key of the session ID.
	ContextKeySessionID = "session_id"

	// DefaultSessionCookie is the cookie name used when none is configured.
	DefaultSessionCookie = "sid"
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	// CookieName defaults to DefaultSessionCookie.
	CookieName string

	// TTL is the cookie lifetime; zero makes it a browser-session cookie.
	TTL time.Duration

	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Session returns middleware that resolves the storefront session. The
// X-Session-ID header wins over the cookie; a new UUID is issued when
// neither carries a well-formed id. The id is echoed in both. Logs only
// ever see a fingerprint of it.
func Session(cfg SessionConfig) gin.HandlerFunc {
	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookie
	}

	maxAge := int(cfg.TTL / time.Second)

	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderSessionID,
		contextKey: ContextKeySessionID,
		read: func(c *gin.Context) string {
			if id := c.GetHeader(HeaderSessionID); id != "" {
				return id
			}

			id, err := c.Cookie(name)
			if err != nil {
				return ""
			}

			return id
		},
		write: func(c *gin.Context, id string) {
			c.Header(HeaderSessionID, id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, id, maxAge, "/", "", cfg.Secure, true)
		},
		enrichers: enrichers(ContextWithSessionID, logging.WithSessionID, withFlagSubject),
	})
}

func withFlagSubject(ctx context.Context, id string) context.Context {
	return ports.WithFeatureFlagSubject(ctx, &ports.FeatureFlagSubject{SessionID: id})
}

// GetSessionID returns the session ID, or "" when the middleware did not run.
func GetSessionID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeySessionID)
}
