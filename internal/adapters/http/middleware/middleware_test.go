package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/storefront/internal/adapters/http/dto"
	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		incoming     string
		wantPassThru bool
	}{
		{name: "generates UUID when no header present", incoming: ""},
		{name: "passes through existing header", incoming: "existing-req-123", wantPassThru: true},
		{name: "replaces malformed header", incoming: "bad id\r\nX-Evil: 1"},
		{name: "replaces oversized header", incoming: strings.Repeat("a", maxIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromGin, fromCtx string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetRequestID(c)
				fromCtx = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}

			w := serve(router, req)

			assert.Equal(t, fromGin, fromCtx)
			assert.Equal(t, fromGin, w.Header().Get(HeaderRequestID))

			if tt.wantPassThru {
				assert.Equal(t, tt.incoming, fromGin)
			} else {
				assert.True(t, isUUID(fromGin), "got %q", fromGin)
			}
		})
	}
}

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Parallel()

	var fromGin, fromCtx string

	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		fromGin = GetCorrelationID(c)
		fromCtx = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderCorrelationID, "txn-42")

	w := serve(router, req)

	assert.Equal(t, "txn-42", fromGin)
	assert.Equal(t, "txn-42", fromCtx)
	assert.Equal(t, "txn-42", w.Header().Get(HeaderCorrelationID))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.True(t, isUUID(w.Header().Get(HeaderCorrelationID)))
}

func TestGetIDs_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
	assert.Empty(t, GetSessionID(c))

	c.Set(ContextKeySessionID, 42)
	assert.Empty(t, GetSessionID(c), "non-string values are ignored")
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "header", header: "sess-header", want: "sess-header"},
		{name: "cookie", cookie: "sess-cookie", want: "sess-cookie"},
		{name: "header wins over cookie", header: "sess-header", cookie: "sess-cookie", want: "sess-header"},
		{name: "new session"},
		{name: "malformed cookie is replaced", cookie: "bad%2Fvalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromGin, fromCtx string
			var subject *ports.FeatureFlagSubject

			router := gin.New()
			router.Use(Session(SessionConfig{CookieName: "sid", TTL: 30 * time.Minute}))
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetSessionID(c)
				fromCtx = SessionIDFromContext(c.Request.Context())
				subject = ports.FeatureFlagSubjectFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderSessionID, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}

			w := serve(router, req)

			if tt.want != "" {
				assert.Equal(t, tt.want, fromGin)
			} else {
				assert.True(t, isUUID(fromGin), "got %q", fromGin)
			}
			assert.Equal(t, fromGin, fromCtx)
			assert.Equal(t, fromGin, w.Header().Get(HeaderSessionID))
			require.NotNil(t, subject)
			assert.Equal(t, fromGin, subject.SessionID)

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "sid", cookies[0].Name)
			assert.Equal(t, fromGin, cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, 1800, cookies[0].MaxAge)
			assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		})
	}
}

func TestSessionMiddleware_DefaultCookieName(t *testing.T) {
	router := gin.New()
	router.Use(Session(SessionConfig{}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultSessionCookie, cookies[0].Name)
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"abc_DEF.123:x", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"newline\n", false},
		{"ünïcode", false},
		{strings.Repeat("x", maxIDLength), true},
		{strings.Repeat("x", maxIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, validID(tt.id))
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		cfg             *config.CORSConfig
		origin          string
		wantAllowOrigin string
		wantCredentials string
	}{
		{
			name:            "configured origin",
			cfg:             &config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}, AllowCredentials: true},
			origin:          "http://localhost:5173",
			wantAllowOrigin: "http://localhost:5173",
			wantCredentials: "true",
		},
		{
			name:   "unknown origin",
			cfg:    &config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
			origin: "http://evil.example",
		},
		{
			name:            "no origins configured allows all",
			cfg:             nil,
			origin:          "http://anything.example",
			wantAllowOrigin: "*",
		},
		{
			name:            "wildcard allows all",
			cfg:             &config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			origin:          "http://anything.example",
			wantAllowOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.cfg))
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			req.Header.Set("Access-Control-Request-Headers", HeaderSessionID)

			w := serve(router, req)

			assert.Equal(t, tt.wantAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

type logLine struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []logLine {
	t.Helper()

	var lines []logLine
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var l logLine
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		lines = append(lines, l)
	}

	return lines
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLines int
		wantLevel string
	}{
		{name: "success logs at info", path: "/api/v1/cart", status: http.StatusOK, wantLines: 2, wantLevel: "INFO"},
		{name: "client error logs at warn", path: "/api/v1/cart", status: http.StatusNotFound, wantLines: 2, wantLevel: "WARN"},
		{name: "server error logs at error", path: "/api/v1/cart", status: http.StatusServiceUnavailable, wantLines: 2, wantLevel: "ERROR"},
		{name: "ops routes are skipped", path: "/-/ready", status: http.StatusOK, wantLines: 0},
		{name: "skip paths are skipped", path: "/favicon.ico", status: http.StatusOK, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLogger()

			router := gin.New()
			router.Use(Logging(logger, "/favicon.ico"))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			serve(router, httptest.NewRequest(http.MethodGet, tt.path+"?search=secret", nil))

			lines := logLines(t, buf)
			require.Len(t, lines, tt.wantLines)

			if tt.wantLines > 0 {
				done := lines[len(lines)-1]
				assert.Equal(t, "request completed", done.Msg)
				assert.Equal(t, tt.wantLevel, done.Level)
				assert.Equal(t, tt.status, done.Status)
				assert.Equal(t, tt.path, done.Path, "query strings are not logged")
				assert.NotContains(t, buf.String(), "secret")
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	logger, buf := captureLogger()

	var hooked any

	router := gin.New()
	router.Use(Recovery(logger, func(r any, stack []byte) {
		hooked = r
		assert.NotEmpty(t, stack)
	}))
	router.GET("/panic", func(*gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderRequestID, "req-1")

	w := serve(router, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.Equal(t, "req-1", resp.TraceID)
	assert.NotContains(t, w.Body.String(), "kaboom")

	assert.Equal(t, "kaboom", hooked)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_NoPanic(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(slog.Default()))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		handler    gin.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{
			name: "deadline expires before handler writes",
			path: "/slow",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   dto.ErrorCodeTimeout,
		},
		{
			name:       "fast handler is untouched",
			path:       "/fast",
			handler:    func(c *gin.Context) { c.Status(http.StatusOK) },
			wantStatus: http.StatusOK,
		},
		{
			name: "handler response wins",
			path: "/slow-written",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				c.JSON(http.StatusGatewayTimeout, gin.H{"late": true})
			},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name: "skip path has no deadline",
			path: "/skip",
			handler: func(c *gin.Context) {
				_, ok := c.Request.Context().Deadline()
				if ok {
					c.Status(http.StatusTeapot)
					return
				}
				c.Status(http.StatusOK)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Timeout(20*time.Millisecond, "/skip"))
			router.GET(tt.path, tt.handler)

			w := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestTimeout_SetsContextDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool

	router := gin.New()
	router.Use(Timeout(time.Minute))
	router.GET("/test", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestMiddlewareChain_IDsReachHandlers(t *testing.T) {
	var ctx context.Context

	router := gin.New()
	router.Use(RequestID(), CorrelationID(), Session(SessionConfig{}))
	router.GET("/test", func(c *gin.Context) {
		ctx = c.Request.Context()
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.NotNil(t, ctx)
	assert.NotEmpty(t, RequestIDFromContext(ctx))
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, SessionIDFromContext(ctx))
}
