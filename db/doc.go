// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(ctx, cfg)

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite and the
DSN is extended by SQLiteDSN with a busy timeout, WAL journaling and
IMMEDIATE transactions. The busy timeout is taken from Config.StoreTimeout.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The server refuses to start when schema creation fails.

# Tables

  - signature: One row per accepted signature, unique on hashed_identifier
  - verification_code: One-time phone codes with expiry and a used flag
  - rate_limit_window: Fixed-window request counters per key

# Indexes

  - signature.hashed_identifier (unique)
  - signature.county
  - signature.(ip_hash, created_at)
  - signature.created_at
  - verification_code.(phone_hash, code)

# Errors

IsUniqueViolation recognizes unique constraint failures from both drivers
so callers can treat duplicates as a first-class outcome.
*/
package db
