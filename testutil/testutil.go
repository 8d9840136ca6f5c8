// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julisha-ke/julisha-api/auth"
	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/julisha-ke/julisha-api/db"
)

const (
	TestServerSalt = "test-server-salt"
	TestPublicSalt = cliparse.DefaultPublicSalt
	TestAdminToken = "test-admin-token"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// Each test gets its own file, so tests can run in parallel.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return SetupTestDBFor(t, GetTestConfigFor(TempDBPath(t)))
}

// TempDBPath returns a database file path inside the test's temp dir
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "julisha_test.db")
}

// SetupTestDBFor opens cfg's SQLite database and creates the schema
func SetupTestDBFor(t *testing.T, cfg cliparse.Config) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// HoldWriteLock takes the SQLite write lock on path from a separate
// connection. The lock is held until release is called or the test ends.
func HoldWriteLock(t *testing.T, path string) (release func()) {
	t.Helper()

	holder, err := sql.Open("sqlite", db.SQLiteDSN(path, cliparse.DefaultStoreTimeout))
	if err != nil {
		t.Fatalf("Failed to open lock holder: %v", err)
	}
	tx, err := holder.BeginTx(context.Background(), nil)
	if err != nil {
		holder.Close()
		t.Fatalf("Failed to take write lock: %v", err)
	}

	var once sync.Once
	release = func() {
		once.Do(func() {
			tx.Rollback()
			holder.Close()
		})
	}
	t.Cleanup(release)
	return release
}

// SetupPostgresTestDB connects to TEST_DATABASE_URL and empties the tables.
// The test is skipped when the variable is not set.
func SetupPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := GetTestConfigFor(url)
	cfg.DatabaseType = cliparse.DatabasePostgres
	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if _, err := conn.Exec(`TRUNCATE signature, verification_code, rate_limit_window`); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return GetTestConfigFor("julisha_test.db")
}

// GetTestConfigFor returns the test configuration pointing at a SQLite file
func GetTestConfigFor(path string) cliparse.Config {
	return cliparse.Config{
		Port:             3000,
		DatabaseURL:      path,
		DatabaseType:     cliparse.DatabaseSQLite,
		ServerSalt:       TestServerSalt,
		PublicSalt:       TestPublicSalt,
		AdminToken:       TestAdminToken,
		RateLimitBackend: cliparse.LimiterSQL,
		SMSMode:          cliparse.SMSModeDemo,
		StoreTimeout:     5 * time.Second,
	}
}

// IDToken returns what the browser sends for a national ID or passport
func IDToken(raw string) string {
	return auth.ClientHash(raw, TestPublicSalt)
}

// PhoneToken returns what the browser sends for a phone number
func PhoneToken(t *testing.T, raw string) string {
	t.Helper()

	phone, err := auth.NormalizePhone(raw)
	if err != nil {
		t.Fatalf("invalid test phone %q: %v", raw, err)
	}
	return auth.ClientHash(phone, TestPublicSalt)
}

// InsertTestSignature writes a signature row directly, bypassing the API
func InsertTestSignature(t *testing.T, conn *sql.DB, rawID, county, ipHash string, createdAt time.Time) {
	t.Helper()

	id, _ := auth.GenerateID(16)
	hashed := auth.ServerHash(IDToken(rawID), TestServerSalt)
	_, err := conn.Exec(`
		INSERT INTO signature (id, hashed_identifier, verification_type, county, comment, ip_hash, verification_token, created_at)
		VALUES ($1, $2, 'id', $3, NULL, $4, 'JUL-TEST0000', $5)
	`, id, hashed, county, ipHash, createdAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test signature: %v", err)
	}
}

// CountSignatures returns the number of signature rows
func CountSignatures(t *testing.T, conn *sql.DB) int64 {
	t.Helper()

	var n int64
	if err := conn.QueryRow(`SELECT COUNT(*) FROM signature`).Scan(&n); err != nil {
		t.Fatalf("Failed to count signatures: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
