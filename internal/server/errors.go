package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAdminExists indicates the admin email is already registered
type ErrAdminExists struct {
	Email string
}

func (e *ErrAdminExists) Error() string {
	return fmt.Sprintf("admin with this email already exists: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid credentials"
}

// ErrResumeNotFound indicates the resume id does not exist
type ErrResumeNotFound struct {
	ID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Problems []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed: %d problems", len(e.Problems))
}

// ErrPayloadTooLarge indicates a request body over the configured limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("payload exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists   *ErrAdminExists
		creds    *ErrInvalidCredentials
		notFound *ErrResumeNotFound
		invalid  *ErrValidation
		tooLarge *ErrPayloadTooLarge
	)
	switch {
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message shown to API clients for err. Internal
// errors are replaced by fallback so that no storage details leak.
func publicMessage(err error, fallback string) string {
	switch HTTPStatus(err) {
	case http.StatusUnauthorized:
		return "Invalid credentials"
	case http.StatusNotFound:
		return "Resume not found"
	case http.StatusBadRequest:
		return "Validation failed"
	case http.StatusRequestEntityTooLarge:
		return "Payload too large"
	case http.StatusConflict:
		return "Admin with this email already exists"
	default:
		return fallback
	}
}
