// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julisha-ke/julisha-api/auth"
)

// CodeTTL is how long an issued verification code stays valid
const CodeTTL = 10 * time.Minute

// CodeStore owns the verification_code table. Old codes for the same phone
// are left alone when a new one is issued, so several may be valid at once.
type CodeStore struct {
	db *sql.DB
}

func NewCodeStore(db *sql.DB) *CodeStore {
	return &CodeStore{db: db}
}

// Issue persists a fresh random code for phoneHash
func (s *CodeStore) Issue(ctx context.Context, phoneHash string, now time.Time) (string, time.Time, error) {
	code, err := auth.GenerateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	id, err := auth.GenerateID(16)
	if err != nil {
		return "", time.Time{}, err
	}

	now = now.UTC()
	expiresAt := now.Add(CodeTTL)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verification_code (id, phone_hash, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, id, phoneHash, code, expiresAt, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert verification code: %w", err)
	}

	return code, expiresAt, nil
}

// Consume marks a matching unused, unexpired code as used. The check and
// the mark are one conditional UPDATE, so concurrent attempts on the same
// code succeed at most once.
func (s *CodeStore) Consume(ctx context.Context, q Querier, phoneHash, code string, now time.Time) error {
	res, err := q.ExecContext(ctx, `
		UPDATE verification_code
		SET used = TRUE
		WHERE phone_hash = $1 AND code = $2 AND used = FALSE AND expires_at > $3
	`, phoneHash, code, now.UTC())
	if err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}
	if n == 0 {
		return ErrInvalidOrExpiredCode
	}
	return nil
}
