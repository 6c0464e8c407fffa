package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTokenNotFound indicates a verification token that does not match any
// pending signup (already used, expired, or never issued).
var ErrTokenNotFound = errors.New("verification token not found")

// CreatePendingVerification records a signup request and returns the token to
// embed in the verification link. Re-signing-up replaces the previous token.
func (db *DB) CreatePendingVerification(ctx context.Context, email string) (uuid.UUID, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	token := uuid.New()

	_, err := db.pool.Exec(ctx,
		`INSERT INTO pending_verifications (email, token)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET token = $2, created_at = NOW()`,
		email, token,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create pending verification: %w", err)
	}
	return token, nil
}

// VerifyToken activates the subscriber matching the token and removes the
// pending record. Returns the activated email address.
func (db *DB) VerifyToken(ctx context.Context, token uuid.UUID) (string, error) {
	var email string
	err := db.pool.QueryRow(ctx,
		`SELECT email FROM pending_verifications WHERE token = $1`, token,
	).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up verification token: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO subscribers (email, status)
		 VALUES ($1, 'active')
		 ON CONFLICT (email) DO UPDATE SET status = 'active'`,
		email,
	)
	if err != nil {
		return "", fmt.Errorf("failed to activate subscriber %s: %w", email, err)
	}

	_, _ = db.pool.Exec(ctx, `DELETE FROM pending_verifications WHERE email = $1`, email)
	return email, nil
}

// Unsubscribe removes a subscriber entirely.
func (db *DB) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	_, err := db.pool.Exec(ctx, `DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe %s: %w", email, err)
	}
	return nil
}

// ListActiveSubscribers returns the addresses that receive the daily brief.
func (db *DB) ListActiveSubscribers(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT email FROM subscribers WHERE status = 'active' ORDER BY signup_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
