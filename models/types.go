// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Verification type constants
const (
	TypeID    = "id"
	TypePhone = "phone"
)

// TargetSignatures is the public progress denominator
const TargetSignatures = 1000000

// Request types

type VerifyPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,notblank"`
}

type SubmitVoteRequest struct {
	Type             string `json:"type" validate:"required,oneof=id phone"`
	Identifier       string `json:"identifier" validate:"required,len=64,hexadecimal"`
	VerificationCode string `json:"verificationCode" validate:"required_if=Type phone,omitempty,len=4,numeric"`
	County           string `json:"county" validate:"required,notblank,max=64"`
	Comment          string `json:"comment" validate:"max=500"`
}

// Response types

type CountResponse struct {
	Success    bool    `json:"success"`
	Count      int64   `json:"count"`
	Target     int64   `json:"target"`
	Percentage float64 `json:"percentage"`
}

type CountiesResponse struct {
	Success  bool          `json:"success"`
	Counties []CountyCount `json:"counties"`
}

type VerifyPhoneResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Only set in demo mode, stands in for SMS delivery
	Code string `json:"code,omitempty"`
}

type SubmitVoteResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	TotalVotes        int64  `json:"totalVotes"`
	VerificationToken string `json:"verificationToken"`
}

type RecentVotesResponse struct {
	Success bool         `json:"success"`
	Votes   []RecentVote `json:"votes"`
}

type RecentVote struct {
	Type      string    `json:"type"`
	County    string    `json:"county"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	Age       string    `json:"age"`
}

// Domain types

type Signature struct {
	ID                string    `json:"-"`
	HashedIdentifier  string    `json:"-"` // Never expose in JSON
	VerificationType  string    `json:"type"`
	County            string    `json:"county"`
	Comment           string    `json:"comment"`
	IPHash            string    `json:"-"` // Never expose in JSON
	VerificationToken string    `json:"verification_token"`
	CreatedAt         time.Time `json:"created_at"`
}

type CountyCount struct {
	County string `json:"county"`
	Count  int64  `json:"count"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
