package trilium

import (
	"fmt"
	"net/http"
)

// APIError is an upstream 4xx/5xx response with its decoded body.
type APIError struct {
	StatusCode int
	// Code is the upstream's machine-readable error code, such as
	// NOTE_NOT_FOUND. Empty when the body was not the standard shape.
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the upstream said the entity does not exist.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError is a network-level failure: connection refused, DNS,
// timeout, cancellation, or an unreadable response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
