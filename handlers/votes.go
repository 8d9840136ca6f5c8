// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/julisha-ke/julisha-api/middleware"
	"github.com/julisha-ke/julisha-api/models"
	"github.com/julisha-ke/julisha-api/petition"
)

type VoteHandler struct {
	svc *petition.Service
	cfg cliparse.Config
}

func NewVoteHandler(svc *petition.Service, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{svc: svc, cfg: cfg}
}

// Count handles GET /votes/count
func (h *VoteHandler) Count(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, "count signatures", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{
		Success:    true,
		Count:      summary.Count,
		Target:     summary.Target,
		Percentage: summary.Percentage,
	})
}

// Counties handles GET /votes/counties
func (h *VoteHandler) Counties(w http.ResponseWriter, r *http.Request) {
	counties, err := h.svc.Counties(r.Context())
	if err != nil {
		writeServiceError(w, "count counties", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountiesResponse{
		Success:  true,
		Counties: counties,
	})
}

// VerifyPhone handles POST /votes/verify-phone
// Issues a one-time code. In demo mode the code is returned in the response.
func (h *VoteHandler) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPhoneRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	issued, err := h.svc.RequestCode(r.Context(), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, "issue verification code", err)
		return
	}

	resp := models.VerifyPhoneResponse{
		Success:   true,
		Message:   "Verification code sent",
		ExpiresAt: issued.ExpiresAt,
	}
	if h.cfg.DemoMode() {
		resp.Message = "Demo mode: use the code below to verify"
		resp.Code = issued.Code
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Submit handles POST /votes/submit
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.svc.RejectInvalid()
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Submit(r.Context(), petition.SubmitInput{
		Type:             req.Type,
		Identifier:       req.Identifier,
		VerificationCode: req.VerificationCode,
		County:           req.County,
		Comment:          req.Comment,
		ClientIP:         middleware.GetClientIP(r),
	})
	if err != nil {
		writeServiceError(w, "submit signature", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Success:           true,
		Message:           "Thank you! Your signature has been recorded.",
		TotalVotes:        result.TotalVotes,
		VerificationToken: result.VerificationToken,
	})
}

// writeServiceError maps petition errors onto the JSON error shape.
// Anything unrecognised is a 500 and is logged.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, petition.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, petition.ErrDuplicateSignature):
		middleware.ErrorResponse(w, http.StatusBadRequest, "This identifier has already signed the petition")
	case errors.Is(err, petition.ErrAlreadySigned):
		middleware.ErrorResponse(w, http.StatusBadRequest, "This phone number has already signed the petition")
	case errors.Is(err, petition.ErrInvalidOrExpiredCode):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid or expired verification code")
	case errors.Is(err, petition.ErrRateLimited):
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many signatures from this network. Please try again later.")
	default:
		slog.Error("request failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
