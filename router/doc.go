// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Julisha petition API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, limiter, sender, m)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Public:

	GET  /votes/count         - Total, target and percentage
	GET  /votes/counties      - Per-county totals
	POST /votes/verify-phone  - Issue a phone verification code (5 / 15 min per client)
	POST /votes/submit        - Sign the petition (3 / 15 min per client)

Moderation (requires Authorization: Bearer <ADMIN_TOKEN>):

	GET /admin/recent-votes   - Last 50 signatures, no hashes
*/
package router
