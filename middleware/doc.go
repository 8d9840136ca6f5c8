// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, anonymized IP prefix) and completion
(duration_ms). Raw client addresses are never logged.

# Rate Limiting

	limit := middleware.RateLimit(limiter, ratelimit.SubmitPolicy, cfg.ServerSalt, cfg.Timeout(), m)
	mux.HandleFunc("POST /votes/submit", middleware.WithLogging(limit(h.Submit)))

Sets X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset on every
response and answers 429 with Retry-After once the bucket is spent. A limiter
error answers 500.

# Admin Gate

	mux.HandleFunc("GET /admin/recent-votes", middleware.RequireAdmin(cfg.AdminToken)(h.RecentVotes))

Requires Authorization: Bearer <ADMIN_TOKEN>, otherwise 401.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST and OPTIONS with Content-Type and Authorization headers and
exposes the rate limit headers to the browser.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

DecodeAndValidate parses a JSON body and applies the struct's validate tags.
Its error message names the offending field by its JSON name:

	var req models.SubmitVoteRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, X-Real-IP, then RemoteAddr. The result is only ever
hashed (rate limiting) or anonymized (logging).
*/
package middleware
