// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists signatures and verification codes.

VoteStore is append-only. The unique constraint on hashed_identifier is what
guarantees one signature per person; Exists is only a fast path.

CodeStore issues one-time 4-digit codes valid for CodeTTL. Consume marks a
code used with a single conditional UPDATE.

Write operations take a Querier so they can run inside InTx:

	err := store.InTx(ctx, db, func(q store.Querier) error {
		if err := codes.Consume(ctx, q, phoneHash, code, now); err != nil {
			return err
		}
		_, err := votes.Insert(ctx, q, sig)
		return err
	})

All timestamps are written in UTC.
*/
package store
