// Package types provides type definitions for structured data used throughout the resume-builder system.
package types

// LoginRequest represents the admin login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the admin login response.
// Servers may name the credential either session_token or token.
type LoginResponse struct {
	Message        string `json:"message,omitempty"`
	SessionToken   string `json:"session_token,omitempty"`
	Token          string `json:"token,omitempty"`
	ExpiresInHours int    `json:"expires_in_hours,omitempty"`
}

// Credential returns the opaque session credential carried by the response.
func (r *LoginResponse) Credential() string {
	if r.SessionToken != "" {
		return r.SessionToken
	}
	return r.Token
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return Validator().Struct(r)
}
