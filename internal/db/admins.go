package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// NormalizeEmail lowercases and trims an admin email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAdmin inserts a new admin account.
func (db *DB) CreateAdmin(ctx context.Context, email, passwordHash string) (*Admin, error) {
	admin := &Admin{ID: uuid.New(), Email: NormalizeEmail(email), PasswordHash: passwordHash}

	query, args, err := psql.Insert("admin_users").
		Columns("id", "email", "password_hash").
		Values(admin.ID, admin.Email, admin.PasswordHash).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := db.pool.QueryRow(ctx, query, args...).Scan(&admin.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateAdmin
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// GetAdminByEmail retrieves an admin by email. Returns nil, nil if not found.
func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	query, args, err := psql.Select("id", "email", "password_hash", "created_at", "last_login").
		From("admin_users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var admin Admin
	err = db.pool.QueryRow(ctx, query, args...).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &admin.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// TouchAdminLogin records the current time as the admin's last login.
func (db *DB) TouchAdminLogin(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Update("admin_users").
		Set("last_login", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
