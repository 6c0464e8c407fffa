package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrTargetNotFound indicates a domain that is not on the watchlist.
var ErrTargetNotFound = errors.New("target not found")

// NormalizeDomain canonicalizes an operator-supplied target: scheme and
// leading www are stripped, the path is dropped, and the result lowercased.
func NormalizeDomain(raw string) string {
	domain := strings.TrimSpace(strings.ToLower(raw))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if idx := strings.IndexAny(domain, "/?#"); idx >= 0 {
		domain = domain[:idx]
	}
	return domain
}

// ListTargets returns the watchlist in insertion order.
func (db *DB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT domain FROM watchlist ORDER BY added_at, domain`)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		targets = append(targets, domain)
	}
	return targets, rows.Err()
}

// AddTarget adds a domain to the watchlist. Adding an existing domain is a
// no-op so repeated adds from the portal stay idempotent.
func (db *DB) AddTarget(ctx context.Context, raw string) (string, error) {
	domain := NormalizeDomain(raw)
	if domain == "" {
		return "", fmt.Errorf("empty target domain")
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO watchlist (domain) VALUES ($1) ON CONFLICT (domain) DO NOTHING`,
		domain,
	)
	if err != nil {
		return "", fmt.Errorf("failed to add target %s: %w", domain, err)
	}
	return domain, nil
}

// RemoveTarget removes a domain from the watchlist.
func (db *DB) RemoveTarget(ctx context.Context, raw string) error {
	domain := NormalizeDomain(raw)
	tag, err := db.pool.Exec(ctx, `DELETE FROM watchlist WHERE domain = $1`, domain)
	if err != nil {
		return fmt.Errorf("failed to remove target %s: %w", domain, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrTargetNotFound, domain)
	}
	return nil
}
