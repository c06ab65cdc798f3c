package errors

import (
	"fmt"
	"net/http"
)

// APIError is a request-level failure with a fixed HTTP status. The handler
// turns it into problem details with error_code and details extensions.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError names the query parameter that was rejected.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PanicRecovery is the detail attached to a recovered handler panic.
type PanicRecovery struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrRateLimitExceeded is returned once a client runs out of tokens.
var ErrRateLimitExceeded = &APIError{
	StatusCode: http.StatusTooManyRequests,
	ErrorCode:  "RATE_LIMIT_EXCEEDED",
	Message:    "Rate limit exceeded",
}

// ErrValidation rejects a dashboard query parameter.
func ErrValidation(field, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "VALIDATION_FAILED",
		Message:    "Request validation failed",
		Details:    ValidationError{Field: field, Message: message},
	}
}

// NotFoundError reports an unknown route or an unavailable endpoint such as
// /metrics without an exporter.
func NotFoundError(resource string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "NOT_FOUND",
		Message:    resource + " not found",
		Details:    resource,
	}
}

// ErrPanic wraps a value recovered from a handler panic.
func ErrPanic(rec any) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		Details:    PanicRecovery{Message: fmt.Sprint(rec)},
	}
}
