// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julisha-ke/julisha-api/metrics"
	"github.com/julisha-ke/julisha-api/models"
	"github.com/julisha-ke/julisha-api/ratelimit"
	"github.com/julisha-ke/julisha-api/sms"
	"github.com/julisha-ke/julisha-api/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := testutil.GetTestConfig()
	return NewRouter(db, cfg, ratelimit.NewSQLLimiter(db), sms.LogSender{}, metrics.New()), db
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	expected := "Julisha petition API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Only the exact root is the banner
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/metrics"},
		{"GET", "/votes/count"},
		{"GET", "/votes/counties"},
		{"POST", "/votes/verify-phone"},
		{"POST", "/votes/submit"},
		{"GET", "/admin/recent-votes"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered (status %d)", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/votes/count"},
		{"GET", "/votes/submit"},
		{"DELETE", "/votes/verify-phone"},
		{"POST", "/admin/recent-votes"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", w.Code)
			}
		})
	}
}

func TestAdminRequiresToken(t *testing.T) {
	mux, db := newTestRouter(t)
	testutil.InsertTestSignature(t, db, "12345678", "Nairobi", "ip", time.Now())

	testCases := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"no token", nil, http.StatusUnauthorized},
		{"wrong token", map[string]string{"Authorization": "Bearer wrong"}, http.StatusUnauthorized},
		{"valid token", map[string]string{"Authorization": "Bearer " + testutil.TestAdminToken}, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("GET", "/admin/recent-votes", nil, tc.headers))
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusOK && strings.Contains(w.Body.String(), "hashed") {
				t.Error("admin listing leaks hash fields")
			}
		})
	}
}

func TestVerifyPhoneLimiter(t *testing.T) {
	mux, _ := newTestRouter(t)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.5"}
	for i := 0; i < ratelimit.VerifyPhonePolicy.Limit; i++ {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes/verify-phone", models.VerifyPhoneRequest{PhoneNumber: "0712345678"}, headers))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes/verify-phone", models.VerifyPhoneRequest{PhoneNumber: "0712345678"}, headers))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)
}

func TestSubmitThroughRouter(t *testing.T) {
	mux, _ := newTestRouter(t)

	body := models.SubmitVoteRequest{Type: "id", Identifier: testutil.IDToken("12345678"), County: "Nairobi"}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes/submit", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if w.Header().Get("X-RateLimit-Limit") != "3" {
		t.Errorf("Expected X-RateLimit-Limit 3, got %q", w.Header().Get("X-RateLimit-Limit"))
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(w.Body.String(), `julisha_submissions_total{outcome="accepted"} 1`) {
		t.Error("Expected accepted submission in metrics")
	}
}

func TestSubmit_StoreTimeoutFailsClosed(t *testing.T) {
	path := testutil.TempDBPath(t)
	cfg := testutil.GetTestConfigFor(path)
	cfg.StoreTimeout = 200 * time.Millisecond

	db := testutil.SetupTestDBFor(t, cfg)
	t.Cleanup(func() { db.Close() })
	mux := NewRouter(db, cfg, ratelimit.NewSQLLimiter(db), sms.LogSender{}, metrics.New())

	testutil.HoldWriteLock(t, path)

	body := models.SubmitVoteRequest{Type: "id", Identifier: testutil.IDToken("12345678"), County: "Nairobi"}
	w := httptest.NewRecorder()

	start := time.Now()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes/submit", body, nil))
	elapsed := time.Since(start)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	if elapsed > 2*time.Second {
		t.Errorf("Request took %v with a 200ms store timeout", elapsed)
	}
}
