package errors

import (
	"fmt"
	"net/http"
)

// ServerError represents an error that maps to an HTTP status code and a
// client-facing message. Handlers convert these into the standard JSON
// error payload.
type ServerError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Cause      error  `json:"-"`
}

func (e *ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *ServerError) Unwrap() error {
	return e.Cause
}

// Auth creates a 401 error with the given client-facing message.
func Auth(message string) *ServerError {
	return &ServerError{StatusCode: http.StatusUnauthorized, Message: message}
}

// Validation creates a 400 error with the given client-facing message.
func Validation(message string) *ServerError {
	return &ServerError{StatusCode: http.StatusBadRequest, Message: message}
}

// Synthesis creates a 500 error for a failed video synthesis, keeping the
// underlying cause for logging while hiding it from the client.
func Synthesis(cause error) *ServerError {
	return &ServerError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", Cause: cause}
}

// NotFound creates a 404 error with the given client-facing message.
func NotFound(message string) *ServerError {
	return &ServerError{StatusCode: http.StatusNotFound, Message: message}
}

// Empty creates a 500 error for a stored resource that exists but has no
// content.
func Empty(message string) *ServerError {
	return &ServerError{StatusCode: http.StatusInternalServerError, Message: message}
}

// Internal creates a generic 500 error that hides the cause from the client.
func Internal(cause error) *ServerError {
	return &ServerError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", Cause: cause}
}

// IsAuthError checks if the error is an authentication error
func IsAuthError(err error) bool {
	if serr, ok := err.(*ServerError); ok {
		return serr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound checks if the error is a not-found error
func IsNotFound(err error) bool {
	if serr, ok := err.(*ServerError); ok {
		return serr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsValidationError checks if the error is a request validation error
func IsValidationError(err error) bool {
	if serr, ok := err.(*ServerError); ok {
		return serr.StatusCode == http.StatusBadRequest
	}
	return false
}

// StatusCode returns the HTTP status for an error, defaulting to 500 for
// errors that carry no status of their own.
func StatusCode(err error) int {
	if serr, ok := err.(*ServerError); ok {
		return serr.StatusCode
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to show to a caller. Unknown
// errors collapse to a generic message so internals never leak.
func ClientMessage(err error) string {
	if serr, ok := err.(*ServerError); ok {
		return serr.Message
	}
	return "Internal server error"
}
