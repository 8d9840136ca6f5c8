// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides hashing, normalization and token utilities.

# Identifier Hashing

The browser normalizes an identifier (whitespace removed, uppercased) and
sends SHA-256(normalized + publicSalt). The server never sees the raw value;
it hashes the client token again with a secret salt:

	clientToken := auth.ClientHash("1234 5678", publicSalt)
	stored := auth.ServerHash(clientToken, serverSalt)

Only the second hash is stored, so knowing the public salt is not enough to
precompute stored values.

# Phone Numbers

Phone numbers are normalized to +254XXXXXXXXX before the client hash:

	phone, err := auth.NormalizePhone("0712 345 678") // +254712345678

The same chain (NormalizePhone, ClientHash, ServerHash) keys both the
verification code and the signature, so issuing and consuming a code agree.

# Codes and Tokens

	code, err := auth.GenerateCode()                   // "1000".."9999"
	token, err := auth.GenerateVerificationToken()     // "JUL-3F9A0C1B"
	id, err := auth.GenerateID(16)                     // 32 hex characters

# Admin Bearer Token

	err := auth.ValidateBearer(r.Header.Get("Authorization"), cfg.AdminToken)

Comparison is constant-time.

# IP Hashing

For privacy-preserving rate limiting:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
