// Package db provides resume and admin account storage for the development server.
package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool and implements Store.
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the resumes and admin_users tables when they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id UUID PRIMARY KEY,
		user_email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		social_links JSON NOT NULL DEFAULT '{}',
		profile_summary TEXT NOT NULL DEFAULT '',
		education JSONB NOT NULL DEFAULT '[]',
		technical_skills JSON NOT NULL DEFAULT '{}',
		work_experience JSONB NOT NULL DEFAULT '[]',
		projects JSONB NOT NULL DEFAULT '[]',
		languages JSONB NOT NULL DEFAULT '[]',
		certifications JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// social_links and technical_skills are JSON rather than JSONB so object key order survives.
	`DO $$
	BEGIN
		IF EXISTS (SELECT 1 FROM information_schema.columns
			WHERE table_name = 'resumes' AND column_name = 'technical_skills' AND data_type = 'jsonb') THEN
			ALTER TABLE resumes
				ALTER COLUMN social_links TYPE JSON USING social_links::json,
				ALTER COLUMN technical_skills TYPE JSON USING technical_skills::json;
		END IF;
	END $$`,
	`CREATE INDEX IF NOT EXISTS idx_resumes_created_at ON resumes (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_resumes_user_email ON resumes (user_email)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login TIMESTAMPTZ
	)`,
}
