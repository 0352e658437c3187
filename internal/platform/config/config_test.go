package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues tests that hardcoded defaults are applied and valid.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)

	require.NoError(t, cfg.Validate())
}

func TestLoad_CORSDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.CORS.MaxAge)
}

func TestLoad_StorefrontDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Storefront.ItemsPerPage)
	assert.Equal(t, 5, cfg.Storefront.MaxVisiblePages)
	assert.Equal(t, 3, cfg.Storefront.CompactVisiblePages)
	assert.Equal(t, 768, cfg.Storefront.CompactViewportWidth)
	assert.Equal(t, 30*time.Minute, cfg.Storefront.SessionTTL)
	assert.Equal(t, "sid", cfg.Storefront.SessionCookie)

	assert.Equal(t, "https://fakestoreapi.com", cfg.Services.Catalog.BaseURL)
	assert.Equal(t, "/products", cfg.Services.Catalog.Path)
	assert.Equal(t, "catalog", cfg.Services.Catalog.Name)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Features.CartAutoOpen)
	assert.True(t, cfg.Features.CheckoutEnabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

// TestLoad_EnvVarOverrides tests that environment variables override defaults,
// including keys that contain underscores.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_STOREFRONT_ITEMS_PER_PAGE", "12")
	t.Setenv("APP_SERVICES_CATALOG_BASE_URL", "http://catalog.internal")
	t.Setenv("APP_FEATURES_CART_AUTO_OPEN", "false")
	t.Setenv("APP_CACHE_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Storefront.ItemsPerPage)
	assert.Equal(t, "http://catalog.internal", cfg.Services.Catalog.BaseURL)
	assert.False(t, cfg.Features.CartAutoOpen)
	assert.True(t, cfg.Cache.Enabled)
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Server.HealthCheckTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
	assert.Equal(t, 30*time.Second, cfg.Services.Catalog.LoadTimeout)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.App.Name)
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/storefront.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"server.port", "storefront.items_per_page", "cache.db"})

	tests := []struct {
		env      string
		expected string
	}{
		{"APP_SERVER_PORT", "server.port"},
		{"APP_STOREFRONT_ITEMS_PER_PAGE", "storefront.items_per_page"},
		{"APP_CACHE_DB", "cache.db"},
		{"APP_UNKNOWN_NESTED_KEY", "unknown.nested.key"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper(tt.env))
		})
	}
}
