package repository

import (
	"database/sql"
	"fmt"
	"time"

	"efggames/internal/database"
)

// RateLimitRepository implements a fixed-window rate limiter backed by the
// shared database, so limits hold across server instances.
type RateLimitRepository struct {
	db *database.DB
}

// NewRateLimitRepository creates a new rate limit repository
func NewRateLimitRepository(db *database.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Allow checks whether another event is allowed under the key's window,
// counting the event when it is. The check and the increment run in one
// transaction.
func (r *RateLimitRepository) Allow(key string, limit int, window time.Duration) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var windowStart time.Time
	var count int64
	err = tx.QueryRow("SELECT window_started_at, count FROM rate_limits WHERE limit_key = ?", key).
		Scan(&windowStart, &count)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec("INSERT INTO rate_limits (limit_key, window_started_at, count) VALUES (?, ?, 1)", key, now)
		if err != nil {
			return false, fmt.Errorf("failed to start window: %w", err)
		}
	case err != nil:
		return false, fmt.Errorf("failed to read window: %w", err)
	case now.Sub(windowStart) >= window:
		_, err = tx.Exec("UPDATE rate_limits SET window_started_at = ?, count = 1 WHERE limit_key = ?", now, key)
		if err != nil {
			return false, fmt.Errorf("failed to reset window: %w", err)
		}
	case count >= int64(limit):
		return false, nil
	default:
		_, err = tx.Exec("UPDATE rate_limits SET count = count + 1 WHERE limit_key = ?", key)
		if err != nil {
			return false, fmt.Errorf("failed to count event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit window: %w", err)
	}
	return true, nil
}

// CleanupExpired removes windows older than the given duration
func (r *RateLimitRepository) CleanupExpired(window time.Duration) error {
	cutoff := time.Now().UTC().Add(-window)
	if _, err := r.db.Exec("DELETE FROM rate_limits WHERE window_started_at < ?", cutoff); err != nil {
		return fmt.Errorf("failed to clean up rate limits: %w", err)
	}
	return nil
}
