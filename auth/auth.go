// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns the lowercase hex SHA-256 of value followed by salt.
// This is the same construction the browser client applies with the public salt.
func Hash(value, salt string) string {
	sum := sha256.Sum256([]byte(value + salt))
	return hex.EncodeToString(sum[:])
}

// ClientHash reproduces the browser's identifier hash on the server
func ClientHash(raw, publicSalt string) string {
	return Hash(NormalizeIdentifier(raw), publicSalt)
}

// ServerHash applies the secret second hash to a client-supplied token.
// Only this value is ever stored.
func ServerHash(clientToken, serverSalt string) string {
	return Hash(strings.ToLower(clientToken), serverSalt)
}

// GenerateCode returns a uniformly random 4-digit code in [1000, 9999]
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}

// GenerateVerificationToken creates the cosmetic receipt shown after signing.
// It is never used for lookups.
func GenerateVerificationToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	compact := strings.ReplaceAll(id.String(), "-", "")
	return "JUL-" + strings.ToUpper(compact[:8]), nil
}

// ValidateBearer checks an Authorization header against the admin secret
func ValidateBearer(header, secret string) error {
	const prefix = "Bearer "
	if secret == "" || !strings.HasPrefix(header, prefix) {
		return ErrUnauthorized
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if !hmac.Equal([]byte(token), []byte(secret)) {
		return ErrUnauthorized
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
