package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ConsumeUsage atomically increments a user's counter for day unless it has reached limit.
// It returns the counter after the call and whether the increment happened.
func (db *DB) ConsumeUsage(ctx context.Context, userKey string, day time.Time, limit int) (int, bool, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`INSERT INTO usage_counters (user_key, usage_date, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_key, usage_date) DO UPDATE
		   SET count = usage_counters.count + 1, updated_at = NOW()
		   WHERE usage_counters.count < $3
		 RETURNING count`,
		userKey, UTCDay(day), limit,
	).Scan(&count)
	if err == nil {
		return count, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to consume usage: %w", err)
	}

	// Limit reached; report the current count
	count, err = db.GetUsage(ctx, userKey, day)
	if err != nil {
		return 0, false, err
	}
	return count, false, nil
}

// ReleaseUsage gives back one unit of a user's counter for day, never going below zero
func (db *DB) ReleaseUsage(ctx context.Context, userKey string, day time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE usage_counters SET count = count - 1, updated_at = NOW()
		 WHERE user_key = $1 AND usage_date = $2 AND count > 0`,
		userKey, UTCDay(day),
	)
	if err != nil {
		return fmt.Errorf("failed to release usage: %w", err)
	}
	return nil
}

// GetUsage returns a user's counter for day, zero if none exists
func (db *DB) GetUsage(ctx context.Context, userKey string, day time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT count FROM usage_counters WHERE user_key = $1 AND usage_date = $2`,
		userKey, UTCDay(day),
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get usage: %w", err)
	}
	return count, nil
}

// PurgeUsageBefore deletes counters older than day and returns how many were removed
func (db *DB) PurgeUsageBefore(ctx context.Context, day time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM usage_counters WHERE usage_date < $1`,
		UTCDay(day),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge usage: %w", err)
	}
	return tag.RowsAffected(), nil
}
