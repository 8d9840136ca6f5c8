// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/julisha-ke/julisha-api/middleware"
	"github.com/julisha-ke/julisha-api/models"
	"github.com/julisha-ke/julisha-api/petition"
)

type AdminHandler struct {
	svc *petition.Service
}

func NewAdminHandler(svc *petition.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// RecentVotes handles GET /admin/recent-votes
// Requires the admin bearer token (see middleware.RequireAdmin).
// Never returns identifier or IP hashes.
func (h *AdminHandler) RecentVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.svc.Recent(r.Context())
	if err != nil {
		writeServiceError(w, "list recent signatures", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecentVotesResponse{
		Success: true,
		Votes:   votes,
	})
}
