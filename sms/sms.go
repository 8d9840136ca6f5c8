// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject the SMS gateway listens on for verification code requests
const VerificationSubject = "sms.verification.send"

// Sender delivers a verification code to a phone number
type Sender interface {
	SendVerificationCode(ctx context.Context, phoneNumber, code string, expiresAt time.Time) error
}

// LogSender does not deliver anything. It is used in demo mode, where the
// code is returned in the HTTP response instead.
type LogSender struct{}

func (LogSender) SendVerificationCode(ctx context.Context, phoneNumber, code string, expiresAt time.Time) error {
	slog.Info("demo mode: verification code not sent by SMS",
		"phone_suffix", phoneSuffix(phoneNumber),
		"expires_at", expiresAt,
	)
	return nil
}

// Publisher is the subset of *nats.Conn used by NATSSender
type Publisher interface {
	Publish(subj string, data []byte) error
}

// VerificationMessage is published for the external SMS gateway
type VerificationMessage struct {
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NATSSender hands codes to an SMS gateway over NATS
type NATSSender struct {
	conn Publisher
}

func NewNATSSender(conn Publisher) *NATSSender {
	return &NATSSender{conn: conn}
}

// Connect opens a NATS connection for NewNATSSender
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("julisha-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("connected to NATS", "url", conn.ConnectedUrlRedacted())
	return conn, nil
}

func (s *NATSSender) SendVerificationCode(ctx context.Context, phoneNumber, code string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(VerificationMessage{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   expiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal verification message: %w", err)
	}

	if err := s.conn.Publish(VerificationSubject, data); err != nil {
		slog.Error("failed to publish verification code", "error", err, "phone_suffix", phoneSuffix(phoneNumber))
		return fmt.Errorf("failed to publish verification code: %w", err)
	}

	slog.Info("verification code dispatched", "phone_suffix", phoneSuffix(phoneNumber))
	return nil
}

// phoneSuffix keeps log lines useful without recording the number
func phoneSuffix(phone string) string {
	if len(phone) <= 3 {
		return "***"
	}
	return "***" + phone[len(phone)-3:]
}
