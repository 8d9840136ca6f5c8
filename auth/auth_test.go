// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			if !isLowerHex(id) {
				t.Errorf("GenerateID() contains invalid hex: %s", id)
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestHash(t *testing.T) {
	// Matches CryptoJS.SHA256(value + salt).toString()
	sum := sha256.Sum256([]byte("12345678" + "salt"))
	want := hex.EncodeToString(sum[:])

	if got := Hash("12345678", "salt"); got != want {
		t.Errorf("Hash() = %s, want %s", got, want)
	}
	if len(want) != 64 {
		t.Fatalf("expected 256-bit digest")
	}
	if Hash("12345678", "salt") != Hash("12345678", "salt") {
		t.Error("Hash() is not deterministic")
	}
	if Hash("12345678", "salt") == Hash("12345678", "other") {
		t.Error("Hash() ignores the salt")
	}
}

func TestClientHash_NormalizesVariants(t *testing.T) {
	const salt = "JULISHA_KENYA_2026_PUBLIC_SALT"
	base := ClientHash("12345678", salt)

	variants := []string{"12345678", "123 456 78", " 12345678 ", "1234\t5678", "12 34 56 78"}
	for _, v := range variants {
		if got := ClientHash(v, salt); got != base {
			t.Errorf("ClientHash(%q) = %s, want %s", v, got, base)
		}
	}

	if ClientHash("ab123456", salt) != ClientHash("AB 123456", salt) {
		t.Error("ClientHash() should be case-insensitive for passports")
	}
	if ClientHash("12345679", salt) == base {
		t.Error("different identifiers should not collide")
	}
}

func TestServerHash(t *testing.T) {
	client := ClientHash("12345678", "public")

	final := ServerHash(client, "secret")
	if final == client {
		t.Error("ServerHash() should differ from the client token")
	}
	if ServerHash(strings.ToUpper(client), "secret") != final {
		t.Error("ServerHash() should not depend on hex case")
	}
	if ServerHash(client, "other-secret") == final {
		t.Error("ServerHash() ignores the server salt")
	}
	if !ValidIdentifierToken(final) {
		t.Error("ServerHash() should produce a 64-char hex token")
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("GenerateCode() = %q, want 4 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 1000 || n > 9999 {
			t.Fatalf("GenerateCode() = %q out of range", code)
		}
		seen[code] = true
	}
	if len(seen) < 100 {
		t.Errorf("GenerateCode() produced only %d distinct codes in 500 draws", len(seen))
	}
}

func TestGenerateVerificationToken(t *testing.T) {
	token, err := GenerateVerificationToken()
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}
	if !strings.HasPrefix(token, "JUL-") || len(token) != 12 {
		t.Errorf("unexpected token %q", token)
	}
	if strings.ToUpper(token) != token {
		t.Errorf("token should be uppercase: %q", token)
	}

	other, _ := GenerateVerificationToken()
	if token == other {
		t.Error("GenerateVerificationToken() produced duplicates (extremely unlikely)")
	}
}

func TestValidateBearer(t *testing.T) {
	const secret = "admin-secret"

	tests := []struct {
		name    string
		header  string
		secret  string
		wantErr bool
	}{
		{"valid", "Bearer admin-secret", secret, false},
		{"valid with trailing space", "Bearer admin-secret ", secret, false},
		{"wrong token", "Bearer nope", secret, true},
		{"missing scheme", "admin-secret", secret, true},
		{"basic scheme", "Basic admin-secret", secret, true},
		{"empty header", "", secret, true},
		{"empty secret never matches", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBearer(tt.header, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBearer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrUnauthorized {
				t.Errorf("ValidateBearer() error = %v, want %v", err, ErrUnauthorized)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			if !isLowerHex(hash) {
				t.Errorf("HashIP() contains invalid hex: %s", hash)
			}
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func BenchmarkServerHash(b *testing.B) {
	client := ClientHash("12345678", "public")
	for i := 0; i < b.N; i++ {
		ServerHash(client, "secret")
	}
}

func BenchmarkGenerateCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateCode()
	}
}
