// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julisha-ke/julisha-api/auth"
	"github.com/julisha-ke/julisha-api/db"
	"github.com/julisha-ke/julisha-api/models"
)

// VoteStore owns the signature table. Rows are only ever inserted.
type VoteStore struct {
	db       *sql.DB
	postgres bool
}

func NewVoteStore(conn *sql.DB) *VoteStore {
	return &VoteStore{db: conn, postgres: db.IsPostgres(conn)}
}

// Exists reports whether a signature with this final hash was accepted
func (s *VoteStore) Exists(ctx context.Context, hashedIdentifier string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM signature WHERE hashed_identifier = $1
		)
	`, hashedIdentifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check signature: %w", err)
	}
	return exists, nil
}

// Insert stores sig and returns the new total. The unique constraint on
// hashed_identifier is the authoritative dedup guard; a violation is
// reported as ErrDuplicateSignature even if an earlier Exists check passed.
func (s *VoteStore) Insert(ctx context.Context, q Querier, sig *models.Signature) (int64, error) {
	if sig.ID == "" {
		id, err := auth.GenerateID(16)
		if err != nil {
			return 0, err
		}
		sig.ID = id
	}
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = time.Now().UTC()
	}

	var comment *string
	if sig.Comment != "" {
		comment = &sig.Comment
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO signature (id, hashed_identifier, verification_type, county, comment, ip_hash, verification_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sig.ID, sig.HashedIdentifier, sig.VerificationType, sig.County, comment, sig.IPHash, sig.VerificationToken, sig.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicateSignature
		}
		return 0, fmt.Errorf("insert signature: %w", err)
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM signature`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count signatures: %w", err)
	}
	return total, nil
}

// Count returns the total number of accepted signatures
func (s *VoteStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signature`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count signatures: %w", err)
	}
	return total, nil
}

// CountByCounty returns per-county totals, largest first
func (s *VoteStore) CountByCounty(ctx context.Context) ([]models.CountyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT county, COUNT(*) AS total
		FROM signature
		GROUP BY county
		ORDER BY total DESC, county ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query county counts: %w", err)
	}
	defer rows.Close()

	counties := []models.CountyCount{}
	for rows.Next() {
		var cc models.CountyCount
		if err := rows.Scan(&cc.County, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan county count: %w", err)
		}
		counties = append(counties, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate county counts: %w", err)
	}
	return counties, nil
}

// LockIP serializes per-IP cap checks until the transaction behind q ends.
// SQLite IMMEDIATE transactions already hold the write lock, so it is a
// no-op there.
func (s *VoteStore) LockIP(ctx context.Context, q Querier, ipHash string) error {
	if !s.postgres {
		return nil
	}
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ipHash); err != nil {
		return fmt.Errorf("lock ip: %w", err)
	}
	return nil
}

// CountSince counts signatures from ipHash created after since
func (s *VoteStore) CountSince(ctx context.Context, q Querier, ipHash string, since time.Time) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM signature
		WHERE ip_hash = $1 AND created_at > $2
	`, ipHash, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count signatures by ip: %w", err)
	}
	return n, nil
}

// Recent returns the newest signatures without identifier or IP hashes
func (s *VoteStore) Recent(ctx context.Context, limit int) ([]models.Signature, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT verification_type, county, comment, created_at
		FROM signature
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent signatures: %w", err)
	}
	defer rows.Close()

	sigs := []models.Signature{}
	for rows.Next() {
		var sig models.Signature
		var comment sql.NullString
		if err := rows.Scan(&sig.VerificationType, &sig.County, &comment, &sig.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sig.Comment = comment.String
		sigs = append(sigs, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}
	return sigs, nil
}
