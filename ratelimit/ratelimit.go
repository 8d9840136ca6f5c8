// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"time"
)

// Policy is a fixed-window request budget
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	// SubmitPolicy caps POST /votes/submit attempts per client, whatever their outcome
	SubmitPolicy = Policy{Name: "submit", Limit: 3, Window: 15 * time.Minute}

	// VerifyPhonePolicy caps verification code requests per client
	VerifyPhonePolicy = Policy{Name: "verify-phone", Limit: 5, Window: 15 * time.Minute}
)

// Accepted signatures allowed from one IP hash in a rolling window.
// Enforced inside the submit transaction, not by a Limiter.
const (
	IPSignatureLimit  = 3
	IPSignatureWindow = 24 * time.Hour
)

// Result describes the state of a bucket after a hit
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, zero when allowed
}

// Limiter counts one hit against key under policy. Implementations keep
// their counters outside the process so limits survive restarts.
type Limiter interface {
	Allow(ctx context.Context, policy Policy, key string) (Result, error)
}

// Key builds the bucket key for a client. ipHash must already be hashed.
func Key(policy Policy, ipHash string) string {
	return "ratelimit:" + policy.Name + ":" + ipHash
}

func windowStart(now time.Time, window time.Duration) time.Time {
	return now.UTC().Truncate(window)
}

func newResult(policy Policy, hits int, start, now time.Time) Result {
	resetAt := start.Add(policy.Window)
	res := Result{
		Allowed: hits <= policy.Limit,
		Limit:   policy.Limit,
		ResetAt: resetAt,
	}
	if res.Allowed {
		res.Remaining = policy.Limit - hits
		return res
	}

	res.RetryAfter = int(resetAt.Sub(now).Seconds() + 0.999)
	if res.RetryAfter < 1 {
		res.RetryAfter = 1
	}
	return res
}
