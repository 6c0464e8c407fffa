package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/marketing-intel/internal/types"
)

// SaveBrief stores one generated brief for later change detection.
func (db *DB) SaveBrief(ctx context.Context, brief *types.Brief) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO briefs (id, target, headline, summary, value_proposition, source_url, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), NormalizeDomain(brief.Target), brief.Headline, brief.Summary,
		brief.ValueProposition, brief.SourceURL, brief.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save brief for %s: %w", brief.Target, err)
	}
	return nil
}

// LatestBrief returns the most recent stored brief for a target, or nil when
// the target has never been analyzed.
func (db *DB) LatestBrief(ctx context.Context, target string) (*types.Brief, error) {
	var brief types.Brief
	err := db.pool.QueryRow(ctx,
		`SELECT target, COALESCE(headline, ''), summary, COALESCE(value_proposition, ''), COALESCE(source_url, ''), generated_at
		 FROM briefs
		 WHERE target = $1
		 ORDER BY generated_at DESC
		 LIMIT 1`,
		NormalizeDomain(target),
	).Scan(&brief.Target, &brief.Headline, &brief.Summary, &brief.ValueProposition, &brief.SourceURL, &brief.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest brief for %s: %w", target, err)
	}
	return &brief, nil
}
