// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// ErrorResponse is the error envelope for all error responses.
// Detail keeps the shape clients of the service already parse.
type ErrorResponse struct {
	// Detail is a human-readable error message.
	Detail string `json:"detail"`

	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code,omitempty"`

	// Errors holds field-level messages for validation failures.
	Errors map[string]string `json:"errors,omitempty"`

	// TraceID links the response to its trace when tracing is enabled.
	TraceID string `json:"trace_id,omitempty"`
}

// RateLimitResponse is the body of a 429 response.
type RateLimitResponse struct {
	Detail            string `json:"detail"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the requested resource was not found.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeMethodNotAllowed indicates the route exists for other methods only.
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	// ErrorCodeRateLimited indicates a rate limit window rejected the request.
	ErrorCodeRateLimited = "RATE_LIMITED"

	// ErrorCodeUnavailable indicates a dependency is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"
)

// Fixed details returned to clients.
const (
	DetailNotFound         = "Not Found"
	DetailMethodNotAllowed = "Method Not Allowed"
	DetailRateLimited      = "Rate limit exceeded. Please try again later."
	DetailValidation       = "request validation failed"
	DetailUnavailable      = "service temporarily unavailable"
	DetailTimeout          = "request timed out"
	DetailInternal         = "an internal error occurred"
)

// ContextKeyTraceID is the gin.Context key consulted before the active span.
const ContextKeyTraceID = "trace_id"

// NewErrorResponse creates a new error response with the given code and detail.
func NewErrorResponse(code, detail string) *ErrorResponse {
	return &ErrorResponse{
		Detail: detail,
		Code:   code,
	}
}

// NewErrorResponseWithErrors creates an error response with field-level messages.
func NewErrorResponseWithErrors(code, detail string, fieldErrors map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Detail: detail,
		Code:   code,
		Errors: fieldErrors,
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
	case ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromError maps an error to an HTTP status code and error response.
// Unknown errors are mapped to 500 with a generic detail so internals never leak.
func FromError(err error) (int, *ErrorResponse) {
	var fieldErrs FieldErrors
	var validationErr *domain.ValidationError

	switch {
	case err == nil:
		return http.StatusOK, nil

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, DetailNotFound)

	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, NewErrorResponseWithErrors(ErrorCodeValidation, fieldErrs.Error(), fieldErrs)

	case errors.As(err, &validationErr):
		resp := NewErrorResponse(ErrorCodeValidation, validationErr.Error())
		if validationErr.Field != "" {
			resp.Errors = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, DetailValidation)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, DetailUnavailable)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, DetailTimeout)

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, DetailInternal)
	}
}

// GetTraceID returns the trace ID for the request. A value stored under
// ContextKeyTraceID wins; otherwise the active OpenTelemetry span is used.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		if s, ok := v.(string); ok {
			return s
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return ""
}

// HandleError writes the mapped error response. Server-side failures are
// logged with the trace ID.
func HandleError(c *gin.Context, err error) {
	status, resp := errorResponse(c, err)
	c.JSON(status, resp)
}

// AbortWithError aborts the handler chain and writes the mapped error response.
func AbortWithError(c *gin.Context, err error) {
	status, resp := errorResponse(c, err)
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithErrorCode aborts the handler chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, detail string) {
	resp := NewErrorResponse(code, detail).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}

func errorResponse(c *gin.Context, err error) (int, *ErrorResponse) {
	status, resp := FromError(err)
	if resp == nil {
		resp = NewErrorResponse(ErrorCodeInternal, DetailInternal)
		status = http.StatusInternalServerError
	}

	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError && c.Request != nil {
		logging.FromContext(c.Request.Context()).Error("request failed",
			slog.Int("status", status),
			slog.String("trace_id", resp.TraceID),
			slog.Any("error", err),
		)
	}

	return status, resp
}
