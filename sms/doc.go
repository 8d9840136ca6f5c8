// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sms hands verification codes to whatever delivers them.
//
// NATSSender publishes a VerificationMessage on VerificationSubject for an
// external SMS gateway. LogSender only logs and is used in demo mode.
package sms
