// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLLimiter keeps fixed-window counters in the rate_limit_window table.
// The upsert works unchanged on PostgreSQL and SQLite.
type SQLLimiter struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLLimiter(db *sql.DB) *SQLLimiter {
	return &SQLLimiter{db: db, now: time.Now}
}

func (l *SQLLimiter) Allow(ctx context.Context, policy Policy, key string) (Result, error) {
	if key == "" {
		return Result{}, fmt.Errorf("rate limit key is required")
	}

	now := l.now().UTC()
	start := windowStart(now, policy.Window)

	var hits int
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO rate_limit_window (key, window_start, hits)
		VALUES ($1, $2, 1)
		ON CONFLICT (key, window_start) DO UPDATE SET hits = rate_limit_window.hits + 1
		RETURNING hits
	`, key, start).Scan(&hits)
	if err != nil {
		return Result{}, fmt.Errorf("increment rate limit window: %w", err)
	}

	return newResult(policy, hits, start, now), nil
}
