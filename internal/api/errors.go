// Package api is the HTTP client for the resume service REST contract.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport means the request never completed (DNS, refused connection, timeout).
	KindTransport Kind = iota + 1
	// KindHTTP means the server answered with a non-success status.
	KindHTTP
	// KindUnauthorized means the server answered 401; the session must be discarded.
	KindUnauthorized
	// KindDecode means a success response body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindUnauthorized:
		return "unauthorized"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
// Status is zero for transport failures.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Status > 0 && e.Cause != nil:
		return fmt.Sprintf("api error (status %d): %s: %v", e.Status, e.Message, e.Cause)
	case e.Status > 0:
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("api error: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("api error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newStatusError(status int, message string) *Error {
	kind := KindHTTP
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the single human-readable message to show for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
