// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/storefront/internal/domain"
)

// ProductCatalog is the remote product catalog.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map upstream errors to domain errors
//   - Translate upstream records to domain products, skipping invalid ones
type ProductCatalog interface {
	// FetchProducts retrieves the full product list in catalog order.
	// Returns domain.ErrUnavailable if the catalog is unreachable.
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductSource is the product list loaded once from the ProductCatalog.
// The returned products are shared and must not be modified.
type ProductSource interface {
	// Products returns the loaded products in catalog order. It is empty
	// while loading and after a failed load.
	Products() []domain.Product

	// Product looks a loaded product up by id.
	Product(id int) (domain.Product, bool)

	// Loading reports whether the initial load is still in flight.
	Loading() bool
}

// SessionStore owns storefront sessions for their idle lifetime.
type SessionStore interface {
	// With runs fn with exclusive access to the session identified by id,
	// creating it when absent. Mutations made by fn are kept.
	With(ctx context.Context, id string, fn func(*domain.Session) error) error

	// Delete drops a session. Deleting an absent session is a no-op.
	Delete(ctx context.Context, id string) error

	// Sweep evicts sessions idle since before cutoff and returns how many
	// were removed.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len returns the number of live sessions.
	Len() int
}

// EventPublisher defines the contract for publishing domain events.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	// Returns domain.ErrUnavailable if the destination is unreachable.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

// Cache defines the contract for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
