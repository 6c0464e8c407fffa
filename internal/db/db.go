// Package db provides PostgreSQL storage for the watchlist, subscriber
// lifecycle, and brief history used by change detection.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

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

// EnsureSchema creates the tables this application needs if they do not
// exist. The schema is small enough that in-place creation beats a separate
// migration tool for this deployment.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS watchlist (
		domain      TEXT PRIMARY KEY,
		added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS subscribers (
		email       TEXT PRIMARY KEY,
		status      TEXT NOT NULL DEFAULT 'active',
		signup_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS pending_verifications (
		email       TEXT PRIMARY KEY,
		token       UUID NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS briefs (
		id                UUID PRIMARY KEY,
		target            TEXT NOT NULL,
		headline          TEXT,
		summary           TEXT NOT NULL,
		value_proposition TEXT,
		source_url        TEXT,
		generated_at      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS briefs_target_generated_idx ON briefs (target, generated_at DESC);
	`
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
