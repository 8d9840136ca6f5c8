// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Julisha petition API server.

Julisha collects petition signatures from a static browser frontend. The
browser hashes the signer's national ID, passport or phone number with a
public salt; the server hashes that token again with a secret salt, rejects
duplicates, verifies phone numbers with one-time codes and rate-limits
submissions per client.

# Starting the Server

	DATABASE_URL=postgres://... SERVER_SALT=... ADMIN_TOKEN=... go run .

For local development SQLite works too:

	go run . -t sqlite -d julisha.db -server-salt dev -admin-token dev

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite file
  - SERVER_SALT (--server-salt): Secret for the second identifier hash and IP hashing
  - ADMIN_TOKEN (--admin-token): Bearer token for /admin routes

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - RATE_LIMIT_BACKEND, REDIS_URL: sql (default) or redis counters
  - SMS_MODE, NATS_URL: demo (default) or nats code delivery
  - STORE_TIMEOUT, LOG_LEVEL, LOG_FORMAT

An optional .env file is loaded first.

# Architecture

  - petition: signing pipeline and error taxonomy
  - store: signature and verification code persistence
  - ratelimit: SQL and Redis fixed-window limiters
  - sms: verification code delivery (log or NATS)
  - metrics: Prometheus counters on /metrics
  - handlers, router, middleware: HTTP layer
  - auth: hashing, normalization, codes and tokens
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
