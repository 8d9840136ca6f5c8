// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julisha-ke/julisha-api/metrics"
	"github.com/julisha-ke/julisha-api/middleware"
	"github.com/julisha-ke/julisha-api/models"
	"github.com/julisha-ke/julisha-api/petition"
	"github.com/julisha-ke/julisha-api/ratelimit"
	"github.com/julisha-ke/julisha-api/sms"
	"github.com/julisha-ke/julisha-api/testutil"
)

// TestPhoneSigningWorkflow tests the phone flow end to end:
// 1. Request a code for a local-format number
// 2. Submit with a wrong code
// 3. Submit with the right code using another format of the same number
// 4. Reuse the consumed code
// 5. Request a new code for the signed number
// 6. Check the count
func TestPhoneSigningWorkflow(t *testing.T) {
	h, _, _ := setupHandlers(t, testutil.GetTestConfig())
	phoneToken := testutil.PhoneToken(t, "0712345678")

	// Step 1
	issued := requestCode(t, h, "0712345678")
	t.Logf("Step 1 - Issued code expiring at %s", issued.ExpiresAt)

	// Step 2
	wrong := "1000"
	if issued.Code == wrong {
		wrong = "1001"
	}
	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/votes/submit", models.SubmitVoteRequest{
		Type: "phone", Identifier: phoneToken, VerificationCode: wrong, County: "Kisumu",
	}, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Step 2 - Expected 400 for wrong code, got %d - %s", w.Code, w.Body.String())
	}

	// Step 3
	w = httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/votes/submit", models.SubmitVoteRequest{
		Type: "phone", Identifier: testutil.PhoneToken(t, "+254 712 345 678"), VerificationCode: issued.Code, County: "Kisumu",
	}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Submit failed: %d - %s", w.Code, w.Body.String())
	}
	var submitResp models.SubmitVoteResponse
	testutil.AssertJSON(t, w, &submitResp)
	if submitResp.TotalVotes != 1 {
		t.Errorf("Step 3 - Expected totalVotes 1, got %d", submitResp.TotalVotes)
	}

	// Step 4
	w = httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/votes/submit", models.SubmitVoteRequest{
		Type: "phone", Identifier: phoneToken, VerificationCode: issued.Code, County: "Kisumu",
	}, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Step 4 - Expected 400 on reuse, got %d", w.Code)
	}

	// Step 5
	w = httptest.NewRecorder()
	h.VerifyPhone(w, testutil.MakeRequest("POST", "/votes/verify-phone", models.VerifyPhoneRequest{PhoneNumber: "254712345678"}, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Step 5 - Expected 400 for signed number, got %d", w.Code)
	}

	// Step 6
	w = httptest.NewRecorder()
	h.Count(w, testutil.MakeRequest("GET", "/votes/count", nil, nil))
	var countResp models.CountResponse
	testutil.AssertJSON(t, w, &countResp)
	if countResp.Count != 1 {
		t.Errorf("Step 6 - Expected count 1, got %d", countResp.Count)
	}
}

// TestIDSigningWorkflow: Nairobi ID signature, then the same ID again
func TestIDSigningWorkflow(t *testing.T) {
	h, _, _ := setupHandlers(t, testutil.GetTestConfig())

	body := models.SubmitVoteRequest{Type: "id", Identifier: testutil.IDToken("12345678"), County: "Nairobi"}

	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/votes/submit", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/votes/submit", body, map[string]string{"X-Forwarded-For": "198.51.100.1"}))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	h.Counties(w, testutil.MakeRequest("GET", "/votes/counties", nil, nil))
	var resp models.CountiesResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Counties) != 1 || resp.Counties[0].County != "Nairobi" || resp.Counties[0].Count != 1 {
		t.Errorf("unexpected counties: %+v", resp.Counties)
	}
}

// TestSubmitRequestLimiter: the fourth attempt in a window is refused
// before the body is even read, whatever the earlier outcomes were.
func TestSubmitRequestLimiter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	m := metrics.New()
	h := NewVoteHandler(petition.NewService(db, cfg, sms.LogSender{}, m), cfg)
	limited := middleware.RateLimit(ratelimit.NewSQLLimiter(db), ratelimit.SubmitPolicy, cfg.ServerSalt, cfg.Timeout(), m)(h.Submit)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.99"}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		limited(w, testutil.MakeRequest("POST", "/votes/submit", map[string]string{"type": "bogus"}, headers))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}

	w := httptest.NewRecorder()
	body := models.SubmitVoteRequest{Type: "id", Identifier: testutil.IDToken("87654321"), County: "Nairobi"}
	limited(w, testutil.MakeRequest("POST", "/votes/submit", body, headers))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("Expected X-RateLimit-Remaining 0, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
	if n := testutil.CountSignatures(t, db); n != 0 {
		t.Errorf("Expected no signatures, got %d", n)
	}

	// A different client is unaffected
	w = httptest.NewRecorder()
	limited(w, testutil.MakeRequest("POST", "/votes/submit", body, map[string]string{"X-Forwarded-For": "203.0.113.100"}))
	testutil.AssertStatus(t, w, http.StatusOK)
}
