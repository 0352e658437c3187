// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts is the default number of retry attempts.
	DefaultClientRetryMaxAttempts = 3

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultItemsPerPage is the product grid page size.
	DefaultItemsPerPage = 8

	// DefaultMaxVisiblePages is the page window size on wide viewports.
	DefaultMaxVisiblePages = 5

	// DefaultCompactVisiblePages is the page window size on narrow viewports.
	DefaultCompactVisiblePages = 3

	// DefaultCompactViewportWidth is the width in pixels below which the
	// compact page window is used.
	DefaultCompactViewportWidth = 768

	// DefaultCatalogBaseURL is the public demo catalog.
	DefaultCatalogBaseURL = "https://fakestoreapi.com"

	// envPrefix marks environment variables that override config keys.
	envPrefix = "APP_"
)

// Config is the root configuration structure.
type Config struct {
	App        AppConfig        `koanf:"app"        validate:"required"`
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Log        LogConfig        `koanf:"log"        validate:"required"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Client     ClientConfig     `koanf:"client"     validate:"required"`
	Services   ServicesConfig   `koanf:"services"   validate:"required"`
	Storefront StorefrontConfig `koanf:"storefront" validate:"required"`
	Cache      CacheConfig      `koanf:"cache"`
	CORS       CORSConfig       `koanf:"cors"`
	Features   FeaturesConfig   `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port               int           `koanf:"port"                 validate:"required,min=1,max=65535"`
	Host               string        `koanf:"host"                 validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout"         validate:"required,min=1s"`
	WriteTimeout       time.Duration `koanf:"write_timeout"        validate:"required,min=1s"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"         validate:"required,min=1s"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"     validate:"required,min=1s"`
	RequestTimeout     time.Duration `koanf:"request_timeout"      validate:"required,min=100ms"`
	HealthCheckTimeout time.Duration `koanf:"health_check_timeout" validate:"required,min=10ms"`
	MaxRequestSize     int64         `koanf:"max_request_size"     validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Endpoint       string        `koanf:"endpoint"        validate:"required_if=Enabled true,omitempty,url"`
	ServiceName    string        `koanf:"service_name"    validate:"required_if=Enabled true"`
	SamplingRate   float64       `koanf:"sampling_rate"   validate:"min=0,max=1"`
	ExportInterval time.Duration `koanf:"export_interval" validate:"omitempty,min=1s"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	Catalog CatalogServiceConfig `koanf:"catalog" validate:"required"`
}

// CatalogServiceConfig locates the remote product catalog.
type CatalogServiceConfig struct {
	BaseURL     string        `koanf:"base_url"     validate:"required,url"`
	Path        string        `koanf:"path"         validate:"required,startswith=/"`
	Name        string        `koanf:"name"         validate:"required"`
	LoadTimeout time.Duration `koanf:"load_timeout" validate:"required,min=1s"`
}

// StorefrontConfig contains the storefront view and session settings.
type StorefrontConfig struct {
	ItemsPerPage         int           `koanf:"items_per_page"         validate:"required,min=1,max=100"`
	MaxVisiblePages      int           `koanf:"max_visible_pages"      validate:"required,min=1,max=25"`
	CompactVisiblePages  int           `koanf:"compact_visible_pages"  validate:"required,min=1,max=25"`
	CompactViewportWidth int           `koanf:"compact_viewport_width" validate:"required,min=1"`
	SessionTTL           time.Duration `koanf:"session_ttl"            validate:"required,min=1m"`
	SweepInterval        time.Duration `koanf:"sweep_interval"         validate:"required,min=1s"`
	SessionCookie        string        `koanf:"session_cookie"         validate:"required"`
}

// CacheConfig contains the optional Redis catalog cache settings.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"     validate:"required_if=Enabled true"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"       validate:"min=0,max=15"`
	TTL      time.Duration `koanf:"ttl"      validate:"required_if=Enabled true"`
}

// CORSConfig contains cross-origin settings for browser clients.
type CORSConfig struct {
	AllowedOrigins   []string      `koanf:"allowed_origins"   validate:"dive,url|eq=*"`
	AllowCredentials bool          `koanf:"allow_credentials"`
	MaxAge           time.Duration `koanf:"max_age"`
}

// FeaturesConfig contains static feature flag values.
type FeaturesConfig struct {
	CartAutoOpen    bool `koanf:"cart_auto_open"`
	CheckoutEnabled bool `koanf:"checkout_enabled"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "storefront",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":                 DefaultServerPort,
		"server.host":                 "0.0.0.0",
		"server.read_timeout":         "30s",
		"server.write_timeout":        "30s",
		"server.idle_timeout":         "120s",
		"server.shutdown_timeout":     "10s",
		"server.request_timeout":      "15s",
		"server.health_check_timeout": "2s",
		"server.max_request_size":     DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/storefront.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":         false,
		"telemetry.endpoint":        "",
		"telemetry.service_name":    "storefront",
		"telemetry.sampling_rate":   1.0,
		"telemetry.export_interval": "30s",

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.catalog.base_url":     DefaultCatalogBaseURL,
		"services.catalog.path":         "/products",
		"services.catalog.name":         "catalog",
		"services.catalog.load_timeout": "30s",

		"storefront.items_per_page":         DefaultItemsPerPage,
		"storefront.max_visible_pages":      DefaultMaxVisiblePages,
		"storefront.compact_visible_pages":  DefaultCompactVisiblePages,
		"storefront.compact_viewport_width": DefaultCompactViewportWidth,
		"storefront.session_ttl":            "30m",
		"storefront.sweep_interval":         "1m",
		"storefront.session_cookie":         "sid",

		"cache.enabled":  false,
		"cache.addr":     "localhost:6379",
		"cache.password": "",
		"cache.db":       0,
		"cache.ttl":      "10m",

		"cors.allowed_origins":   []string{"http://localhost:5173"},
		"cors.allow_credentials": true,
		"cors.max_age":           "12h",

		"features.cart_auto_open":   true,
		"features.checkout_enabled": true,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_STOREFRONT_ITEMS_PER_PAGE to storefront.items_per_page.
// Known keys are matched with both dots and underscores flattened, so keys
// containing underscores survive. Unknown variables fall back to replacing
// every underscore with a dot.
func envKeyMapper(known []string) func(string) string {
	flat := make(map[string]string, len(known))
	for _, key := range known {
		flat[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if key, ok := flat[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
