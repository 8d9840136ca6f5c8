// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Signatures
	`CREATE TABLE IF NOT EXISTS signature (
    id TEXT PRIMARY KEY,
    hashed_identifier TEXT NOT NULL UNIQUE,
    verification_type TEXT NOT NULL CHECK (verification_type IN ('id', 'phone')),
    county TEXT NOT NULL,
    comment TEXT,
    ip_hash TEXT NOT NULL,
    verification_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_signature_county ON signature(county)`,
	`CREATE INDEX IF NOT EXISTS idx_signature_ip_hash_created ON signature(ip_hash, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_signature_created ON signature(created_at)`,

	// Verification codes
	`CREATE TABLE IF NOT EXISTS verification_code (
    id TEXT PRIMARY KEY,
    phone_hash TEXT NOT NULL,
    code TEXT NOT NULL,
    used BOOLEAN NOT NULL DEFAULT FALSE,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_verification_code_lookup ON verification_code(phone_hash, code)`,

	// Request rate limit windows
	`CREATE TABLE IF NOT EXISTS rate_limit_window (
    key TEXT NOT NULL,
    window_start TIMESTAMP NOT NULL,
    hits INTEGER NOT NULL,
    PRIMARY KEY (key, window_start)
)`,
}
