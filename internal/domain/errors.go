// Package domain contains storefront entities, their invariants and errors.
// Domain errors are business-level failures, not HTTP errors; adapters map
// them to transport responses.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error constructed in this package wraps exactly one of
// them, so callers branch with errors.Is or the Is helpers below.
var (
	// ErrNotFound: a product or cart line that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: the request does not fit the current state, such as
	// checking out an empty cart.
	ErrConflict = errors.New("conflict")

	// ErrValidation: input outside the allowed range.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable: the catalog is loading, failed, or its upstream is
	// unreachable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError reports a missing entity. id may be empty.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError explains why an operation cannot run in the current state.
type ConflictError struct {
	Entity string
	Reason string
}

// NewConflictError reports a state conflict on entity.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError ties a rule violation to the offending field. Value is
// kept for logging and never rendered in Error.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// NewValidationError reports a rule violation. field may be empty.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue is NewValidationError carrying the rejected
// value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnavailableError identifies the component that cannot serve the request.
// Service is "storefront" or "checkout" for local conditions such as a
// catalog that is still loading, and the upstream name otherwise.
type UnavailableError struct {
	Service string
	Reason  string
}

// NewUnavailableError reports that service cannot serve the request.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("service %q unavailable", e.Service)
	}

	return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable reports whether err wraps ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
