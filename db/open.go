// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/lib/pq"
)

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	driver, dsn := "postgres", cfg.DatabaseURL
	if cfg.DatabaseType == cliparse.DatabaseSQLite {
		driver, dsn = "sqlite", SQLiteDSN(cfg.DatabaseURL, cfg.Timeout())
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return conn, nil
}

// IsPostgres reports whether conn was opened with the lib/pq driver.
func IsPostgres(conn *sql.DB) bool {
	_, ok := conn.Driver().(*pq.Driver)
	return ok
}

// SQLiteDSN adds the connection options the stores rely on: a busy timeout
// and IMMEDIATE transactions, so concurrent writers queue instead of failing
// with SQLITE_BUSY. The busy wait does not observe context cancellation, so
// busy should not exceed the per-call store timeout.
func SQLiteDSN(dsn string, busy time.Duration) string {
	var params []string
	if !strings.Contains(dsn, "busy_timeout") {
		ms := busy.Milliseconds()
		if ms < 1 {
			ms = 1
		}
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", ms))
	}
	if !strings.Contains(dsn, "journal_mode") {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	if !strings.Contains(dsn, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + sep + strings.Join(params, "&")
}
