// Package flags provides a config-backed implementation of ports.FeatureFlags.
package flags

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/storefront/internal/platform/config"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// Static serves flag values fixed at startup. Unknown flags fall back to
// the caller's default.
type Static struct {
	bools map[string]bool
	ints  map[string]int
}

// NewStatic creates a provider with explicit values.
func NewStatic(bools map[string]bool, ints map[string]int) *Static {
	s := &Static{
		bools: make(map[string]bool, len(bools)),
		ints:  make(map[string]int, len(ints)),
	}

	for k, v := range bools {
		s.bools[k] = v
	}
	for k, v := range ints {
		s.ints[k] = v
	}

	return s
}

// FromConfig maps the features config section onto flag names.
func FromConfig(cfg config.FeaturesConfig) *Static {
	return NewStatic(map[string]bool{
		ports.FlagCartAutoOpen:    cfg.CartAutoOpen,
		ports.FlagCheckoutEnabled: cfg.CheckoutEnabled,
	}, nil)
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	v, ok := s.bools[flag]
	if !ok {
		logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "unknown feature flag",
			slog.String("flag", flag), slog.Bool("default", defaultValue))
		return defaultValue
	}

	return v
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(ctx context.Context, flag string, defaultValue int) int {
	v, ok := s.ints[flag]
	if !ok {
		logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "unknown feature flag",
			slog.String("flag", flag), slog.Int("default", defaultValue))
		return defaultValue
	}

	return v
}
