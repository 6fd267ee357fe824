package utils

import (
	"fmt"
	"net/http"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Body    string `json:"-"`
}

// Implement the Error() method to satisfy the error interface
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Body)
	}
	return e.Message
}

// New creates a new HTTPError instance with a custom status code and message
func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// NewHTTPErrorWithBody keeps the remote response body for diagnostics.
func NewHTTPErrorWithBody(code int, message, body string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
		Body:    body,
	}
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// Conflict creates a 409 Conflict error
func Conflict(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}
