// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// They are infrastructure failures that the ACL translates to domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all attempts have failed.
	// The last attempt's error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrUpstreamStatus is the attempt error for a retryable status code.
	ErrUpstreamStatus = errors.New("upstream returned retryable status")
)
