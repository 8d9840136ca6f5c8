// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/julisha-ke/julisha-api/handlers"
	"github.com/julisha-ke/julisha-api/metrics"
	"github.com/julisha-ke/julisha-api/middleware"
	"github.com/julisha-ke/julisha-api/petition"
	"github.com/julisha-ke/julisha-api/ratelimit"
	"github.com/julisha-ke/julisha-api/sms"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, limiter ratelimit.Limiter, sender sms.Sender, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	svc := petition.NewService(db, cfg, sender, m)
	voteHandler := handlers.NewVoteHandler(svc, cfg)
	adminHandler := handlers.NewAdminHandler(svc)

	limitSubmit := middleware.RateLimit(limiter, ratelimit.SubmitPolicy, cfg.ServerSalt, cfg.Timeout(), m)
	limitVerify := middleware.RateLimit(limiter, ratelimit.VerifyPhonePolicy, cfg.ServerSalt, cfg.Timeout(), m)
	requireAdmin := middleware.RequireAdmin(cfg.AdminToken)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", m.Handler())

	// Public counters
	mux.HandleFunc("GET /votes/count", middleware.WithLogging(voteHandler.Count))
	mux.HandleFunc("GET /votes/counties", middleware.WithLogging(voteHandler.Counties))

	// Signing (rate limited)
	mux.HandleFunc("POST /votes/verify-phone", middleware.WithLogging(limitVerify(voteHandler.VerifyPhone)))
	mux.HandleFunc("POST /votes/submit", middleware.WithLogging(limitSubmit(voteHandler.Submit)))

	// Moderation
	mux.HandleFunc("GET /admin/recent-votes", middleware.WithLogging(requireAdmin(adminHandler.RecentVotes)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Julisha petition API v1"))
	})

	return mux
}
