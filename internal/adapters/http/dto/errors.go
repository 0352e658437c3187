// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

// ContextKeyTraceID is the gin context key a trace id may be stored under.
const ContextKeyTraceID = "trace_id"

// headerRequestID mirrors middleware.HeaderRequestID; dto cannot import
// middleware.
const headerRequestID = "X-Request-ID"

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status and error envelope.
// Unavailable and unknown errors get generic messages so upstream details
// stay out of responses.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusOK, nil

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, publicMessage(err, domain.ErrNotFound))

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, publicMessage(err, domain.ErrConflict))

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, publicMessage(err, domain.ErrValidation))

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, unavailableMessage(err))

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// publicMessage renders the innermost domain error without the context
// added while it was returned, such as the pipeline step. The full chain is
// logged by HandleError.
func publicMessage(err, kind error) string {
	var (
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		validation *domain.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &validation):
		return validation.Error()
	default:
		return kind.Error()
	}
}

// unavailableMessage keeps the reason of storefront-level unavailability,
// such as the catalog still loading, and hides upstream reasons.
func unavailableMessage(err error) string {
	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) && unavailable.Reason != "" {
		switch unavailable.Service {
		case "storefront", "checkout":
			return unavailable.Reason
		}
	}

	return "service temporarily unavailable"
}

// GetTraceID returns the id to echo in error envelopes: a trace id stored
// in the gin context, then the active span's trace id, then the request id
// header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		if id, ok := v.(string); ok {
			return id
		}
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.GetHeader(headerRequestID)
}

// HandleError writes the error envelope for err. Internal errors are logged
// at error level, others at debug, each with the full wrapped chain.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	if resp == nil {
		return
	}

	resp.TraceID = GetTraceID(c)

	ctx := c.Request.Context()
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID))
	} else {
		logging.FromContext(ctx).DebugContext(ctx, "request failed",
			slog.Int("status", status),
			slog.Any("error", err))
	}

	c.JSON(status, resp)
}

// RespondWithErrorCode writes an envelope for adapter-level failures that
// do not come from the domain, such as malformed path parameters.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode stops the chain with an error envelope. Middleware
// uses it when headers have not been written yet.
func AbortWithErrorCode(c *gin.Context, status int, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondBindError writes 400 for a failed BindAndValidate call, with field
// details when struct validation failed.
func RespondBindError(c *gin.Context, err error) {
	if fields := ValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation, "request validation failed", fields,
		).WithTraceID(GetTraceID(c)))

		return
	}

	if domain.IsValidation(err) {
		HandleError(c, err)
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request")
}
