// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var ErrInvalidPhone = errors.New("invalid Kenyan phone number")

var (
	// Safaricom (7xx) and Airtel/Telkom (1xx) mobile ranges
	kenyanPhone = regexp.MustCompile(`^\+254[17]\d{8}$`)
	hexToken    = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// NormalizeIdentifier removes all whitespace and uppercases the value so
// "123 456 78" and "12345678" hash identically.
func NormalizeIdentifier(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// NormalizePhone converts local and international renderings of a Kenyan
// mobile number to +254XXXXXXXXX.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '-', r == '(', r == ')', r == '.':
			return -1
		}
		return r
	}, raw)

	var phone string
	switch {
	case cleaned == "":
		return "", ErrInvalidPhone
	case strings.HasPrefix(cleaned, "+"):
		phone = cleaned
	case strings.HasPrefix(cleaned, "0"):
		phone = "+254" + cleaned[1:]
	case strings.HasPrefix(cleaned, "254") && len(cleaned) == 12:
		phone = "+" + cleaned
	default:
		phone = "+254" + cleaned
	}

	if !kenyanPhone.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

// ValidIdentifierToken reports whether s looks like a client-side SHA-256 hash.
// Raw ID or phone numbers must never reach the server.
func ValidIdentifierToken(s string) bool {
	return hexToken.MatchString(s)
}
