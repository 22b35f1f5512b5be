package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	// ErrNotFound is returned when a resume id does not exist.
	ErrNotFound = errors.New("resume not found")
	// ErrDuplicateAdmin is returned when an admin with the same email already exists.
	ErrDuplicateAdmin = errors.New("admin with this email already exists")
)

// TimeLayout is the ISO-8601 layout used for timestamps in API payloads.
const TimeLayout = time.RFC3339

// Store persists submitted resumes and admin accounts.
type Store interface {
	CreateResume(ctx context.Context, r *types.ResumeData) (*types.StoredResume, error)
	// ListResumes returns one page of summaries, newest first, and the total count.
	ListResumes(ctx context.Context, page, perPage int) ([]types.ResumeListItem, int, error)
	GetResume(ctx context.Context, id string) (*types.StoredResume, error)
	DeleteResume(ctx context.Context, id string) error

	CreateAdmin(ctx context.Context, email, passwordHash string) (*Admin, error)
	// GetAdminByEmail returns nil, nil when no admin has the email.
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	TouchAdminLogin(ctx context.Context, id uuid.UUID) error
}

// Admin represents an administrator account
type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// offset converts a 1-based page into a row offset.
func offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
