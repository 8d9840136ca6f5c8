// store/postgres_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julisha-ke/julisha-api/db"
	"github.com/julisha-ke/julisha-api/testutil"
)

var errCapReached = errors.New("cap reached")

// insertCapped inserts one signature for ipHash unless limit signatures from
// it already exist, the way a submission does.
func insertCapped(ctx context.Context, conn *sql.DB, votes *VoteStore, rawID, ipHash string, limit int) error {
	return InTx(ctx, conn, func(q Querier) error {
		if err := votes.LockIP(ctx, q, ipHash); err != nil {
			return err
		}
		n, err := votes.CountSince(ctx, q, ipHash, time.Now().Add(-24*time.Hour))
		if err != nil {
			return err
		}
		if n >= limit {
			return errCapReached
		}
		_, err = votes.Insert(ctx, q, newSignature(rawID, "Nairobi", ipHash))
		return err
	})
}

func runCappedInserts(t *testing.T, conn *sql.DB, attempts, limit int) (ok, capped int) {
	t.Helper()
	ctx := context.Background()
	votes := NewVoteStore(conn)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- insertCapped(ctx, conn, votes, fmt.Sprintf("3%07d", i), "shared-ip", limit)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errCapReached):
			capped++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	return ok, capped
}

func TestVoteStore_ConcurrentCapSQLite(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ok, capped := runCappedInserts(t, conn, 8, 3)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, capped)
	assert.Equal(t, int64(3), testutil.CountSignatures(t, conn))
}

func TestPostgres_DuplicateIsTyped(t *testing.T) {
	conn := testutil.SetupPostgresTestDB(t)
	require.True(t, db.IsPostgres(conn))
	ctx := context.Background()
	votes := NewVoteStore(conn)

	_, err := votes.Insert(ctx, conn, newSignature("12345678", "Nairobi", "ip-a"))
	require.NoError(t, err)

	_, err = votes.Insert(ctx, conn, newSignature("12345678", "Mombasa", "ip-b"))
	assert.ErrorIs(t, err, ErrDuplicateSignature)
}

func TestPostgres_CountSince(t *testing.T) {
	conn := testutil.SetupPostgresTestDB(t)
	ctx := context.Background()
	votes := NewVoteStore(conn)

	now := time.Now().UTC()
	testutil.InsertTestSignature(t, conn, "2000001", "Nakuru", "ip-a", now.Add(-25*time.Hour))
	testutil.InsertTestSignature(t, conn, "2000002", "Nakuru", "ip-a", now.Add(-23*time.Hour))
	testutil.InsertTestSignature(t, conn, "2000003", "Nakuru", "ip-a", now.Add(-time.Minute))

	// A local-zone bound must compare the same as its UTC form
	nairobi := time.FixedZone("EAT", 3*60*60)
	n, err := votes.CountSince(ctx, conn, "ip-a", now.Add(-24*time.Hour).In(nairobi))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostgres_ConcurrentCap(t *testing.T) {
	conn := testutil.SetupPostgresTestDB(t)

	ok, capped := runCappedInserts(t, conn, 10, 3)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, capped)
	assert.Equal(t, int64(3), testutil.CountSignatures(t, conn))
}

func TestPostgres_CodeConsumedOnce(t *testing.T) {
	conn := testutil.SetupPostgresTestDB(t)
	ctx := context.Background()
	codes := NewCodeStore(conn)

	now := time.Now()
	code, _, err := codes.Issue(ctx, "phone-hash", now)
	require.NoError(t, err)

	require.NoError(t, codes.Consume(ctx, conn, "phone-hash", code, now))
	assert.ErrorIs(t, codes.Consume(ctx, conn, "phone-hash", code, now), ErrInvalidOrExpiredCode)
}
