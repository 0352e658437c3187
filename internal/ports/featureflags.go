package ports

import (
	"context"
)

// Feature flags evaluated by the storefront.
const (
	// FlagCartAutoOpen opens the cart panel whenever a product is added.
	FlagCartAutoOpen = "cart.auto_open"

	// FlagCheckoutEnabled gates the checkout stub.
	FlagCheckoutEnabled = "checkout.enabled"
)

// FeatureFlags defines the contract for feature flag evaluation.
// Implementations return defaultValue when a flag is unknown or cannot be
// evaluated.
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagCartAutoOpen, true) {
//	    sess.View.CartOpen = true
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetInt retrieves an integer feature flag value.
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

// FeatureFlagSubject identifies who a flag is evaluated for.
type FeatureFlagSubject struct {
	// SessionID is the storefront session.
	SessionID string

	// Attributes contains custom attributes for targeting rules.
	Attributes map[string]any
}

type featureFlagSubjectKey struct{}

// WithFeatureFlagSubject adds the evaluation subject to ctx.
func WithFeatureFlagSubject(ctx context.Context, subject *FeatureFlagSubject) context.Context {
	return context.WithValue(ctx, featureFlagSubjectKey{}, subject)
}

// FeatureFlagSubjectFromContext returns the subject stored in ctx, or nil.
func FeatureFlagSubjectFromContext(ctx context.Context) *FeatureFlagSubject {
	if s, ok := ctx.Value(featureFlagSubjectKey{}).(*FeatureFlagSubject); ok {
		return s
	}

	return nil
}
