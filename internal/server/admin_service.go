package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/sirupsen/logrus"
)

// AdminService provides business logic for admin accounts
type AdminService struct {
	store          db.Store
	passwordConfig *config.PasswordConfig
	logger         logrus.FieldLogger
}

// NewAdminService creates a new AdminService with the given dependencies
func NewAdminService(store db.Store, passwordConfig *config.PasswordConfig, logger logrus.FieldLogger) *AdminService {
	return &AdminService{store: store, passwordConfig: passwordConfig, logger: logger}
}

// CreateAdmin registers a new admin with a bcrypt password hash.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (*db.Admin, error) {
	email = db.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if err := config.CheckNewPassword(password); err != nil {
		return nil, err
	}

	hash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := s.store.CreateAdmin(ctx, email, hash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateAdmin) {
			return nil, &ErrAdminExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// EnsureAdmin creates the admin unless one with the email already exists.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.CreateAdmin(ctx, email, password)
	var exists *ErrAdminExists
	if errors.As(err, &exists) {
		return nil
	}
	return err
}

// Login authenticates an admin and records the login time
func (s *AdminService) Login(ctx context.Context, email, password string) (*db.Admin, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	// Security: Always return generic error if admin not found or password wrong
	if admin == nil || !s.passwordConfig.VerifyPassword(password, admin.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if err := s.store.TouchAdminLogin(ctx, admin.ID); err != nil {
		s.logger.WithError(err).WithField("admin_id", admin.ID).Warn("failed to record last login")
	}
	return admin, nil
}
