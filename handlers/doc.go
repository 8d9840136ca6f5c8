// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Julisha petition API.

# Handler Types

Handlers wrap a *petition.Service:

  - VoteHandler: public counters, phone verification and signing
  - AdminHandler: moderator listing of recent signatures

	svc := petition.NewService(db, cfg, sender, m)
	voteHandler := handlers.NewVoteHandler(svc, cfg)

# Endpoints

	GET  /votes/count         → Count
	GET  /votes/counties      → Counties
	POST /votes/verify-phone  → VerifyPhone (code echoed only in demo mode)
	POST /votes/submit        → Submit
	GET  /admin/recent-votes  → RecentVotes (Authorization: Bearer <ADMIN_TOKEN>)

# Errors

Every error response has the shape

	{"success": false, "error": "<status text>", "message": "..."}

Validation failures, duplicates, already-signed phones and bad codes are 400,
rate limits are 429, and anything else is logged and reported as 500.
*/
package handlers
