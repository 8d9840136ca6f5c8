// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit provides durable fixed-window request limiters.

Two policies are used by the API:

	SubmitPolicy       3 attempts / 15 min per client on POST /votes/submit
	VerifyPhonePolicy  5 attempts / 15 min per client on POST /votes/verify-phone

Counters live in the database (SQLLimiter) or in Redis (RedisLimiter), never
in process memory. Bucket keys are built from the hashed client IP.

The separate 24-hour cap on accepted signatures per IP hash
(IPSignatureLimit, IPSignatureWindow) is evaluated by the petition service
against the signature table.

These limits are anti-abuse measures only. Anyone rotating addresses can
get around them.
*/
package ratelimit
