// Package server provides the development REST API that resume submissions and the admin console talk to.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server/middleware"
)

// ErrSessionRevoked is returned for a well-formed token whose session was logged out or expired.
var ErrSessionRevoked = errors.New("session is no longer active")

// Claims represents the JWT claims of an admin session. The registered ID
// claim carries the session id tracked by the SessionRegistry.
type Claims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}

// GetAdminID returns the admin ID from the claims.
func (c *Claims) GetAdminID() uuid.UUID {
	return c.AdminID
}

// GetSessionID returns the session id (the jti claim).
func (c *Claims) GetSessionID() string {
	return c.ID
}

// JWTService provides JWT token generation and validation functionality.
type JWTService struct {
	config   *config.JWTConfig
	sessions SessionRegistry
	now      func() time.Time
}

// NewJWTService creates a new JWT service with the given configuration.
// sessions may be nil, in which case tokens are not revocable.
func NewJWTService(cfg *config.JWTConfig, sessions SessionRegistry) *JWTService {
	return &JWTService{config: cfg, sessions: sessions, now: time.Now}
}

// Expiry returns how long issued tokens stay valid.
func (s *JWTService) Expiry() time.Duration {
	return time.Duration(s.config.ExpirationHours) * time.Hour
}

// GenerateToken issues a token for the admin and registers its session.
func (s *JWTService) GenerateToken(ctx context.Context, adminID uuid.UUID, email string) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Expiry())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Add(ctx, claims.ID, s.Expiry()); err != nil {
			return "", nil, fmt.Errorf("failed to register session: %w", err)
		}
	}
	return tokenString, claims, nil
}

// ParseToken checks the signature, issuer and expiry of a token and returns its claims.
func (s *JWTService) ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// ValidateToken parses the token and checks that its session is still registered.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.sessions == nil {
		return claims, nil
	}

	active, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke ends the session of the given claims.
func (s *JWTService) Revoke(ctx context.Context, sessionID string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Remove(ctx, sessionID)
}

// AsTokenValidator returns a TokenValidator adapter for this JWTService.
// This allows the JWTService to be used with middleware without creating import cycles.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return &jwtServiceValidator{service: s}
}

// jwtServiceValidator adapts JWTService to middleware.TokenValidator interface.
type jwtServiceValidator struct {
	service *JWTService
}

func (v *jwtServiceValidator) ValidateToken(ctx context.Context, tokenString string) (middleware.Principal, error) {
	claims, err := v.service.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
