// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Session Tokens

// SessionTokenLength is the byte length of the random session bearer token.
// 18 bytes = 144 bits of entropy, above the 128-bit floor for unguessable
// client-held secrets.
const SessionTokenLength = 18

// GenerateSessionToken returns a new high-entropy bearer token, encoded as
// unpadded base64url so it is safe to place directly in a cookie value.
//
// The raw token is the client's secret. It is never persisted; only its
// SHA-256 hash (see [HashToken]) is stored as the session ID.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("sec: failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashToken derives the at-rest session ID from a raw bearer token.
//
// # Security
//
// SHA-256 is pre-image resistant, so a leaked sessions table cannot be
// turned back into usable bearer tokens.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
