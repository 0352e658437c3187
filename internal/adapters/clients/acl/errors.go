package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/storefront/internal/adapters/clients"
	"github.com/jsamuelsen/storefront/internal/domain"
)

// maxErrorBody bounds how much of an upstream error body is read.
const maxErrorBody = 4 << 10

// upstreamError is the loose error envelope some upstreams return. Both the
// nested {"error":{"message":...}} and flat {"message":...} shapes decode.
type upstreamError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e upstreamError) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// errorMessage extracts a short, human-readable reason from an error body.
// Non-JSON bodies are returned trimmed; an empty result means no usable text.
func errorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var env upstreamError
	if json.Unmarshal(raw, &env) == nil && env.message() != "" {
		return env.message()
	}

	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "<") {
		return ""
	}

	return text
}

// MapClientError translates a failure from the HTTP client layer, where no
// response was received, into a domain error.
func MapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName, "max retries exceeded during "+operation)
	default:
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// MapStatus translates a non-2xx upstream response into a domain error.
// The body is read but not closed.
func MapStatus(resp *http.Response, serviceName, operation, entityID string) error {
	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	status := resp.StatusCode
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	message := errorMessage(resp.Body)
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", operation, status)
	}

	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)
	case status == http.StatusConflict:
		return domain.NewConflictError(serviceName, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")
	default:
		// Auth failures, unexpected redirects and 5xx all leave the catalog
		// unusable from the storefront's point of view.
		return domain.NewUnavailableError(serviceName, message)
	}
}
