// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package sec provides the cryptographic primitives for the platform.

It isolates security-sensitive code (password hashing, session token
generation and hashing, role rules) from the domain logic. Services consume
it as a plain library; nothing in this package touches the network or the
database.
*/
package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// # Argon2id Parameters

// Hashing cost parameters. These follow the OWASP recommended minimums for
// Argon2id and must only ever be raised, never lowered: existing hashes
// encode their own parameters so verification stays backward compatible.
const (
	argonMemoryKiB  = 19456
	argonTime       = 2
	argonParallel   = 1
	argonKeyLength  = 32
	argonSaltLength = 16
)

// # Password Hashing

// HashPassword hashes a plain-text password using Argon2id.
//
// # Returns
//   - A PHC-formatted string ("$argon2id$v=19$m=...,t=...,p=...$salt$hash")
//     that embeds the salt and cost parameters.
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plainTextPassword), salt, argonTime, argonMemoryKiB, argonParallel, argonKeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKiB,
		argonTime,
		argonParallel,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// CheckPasswordHash compares a plain-text password with a PHC-formatted
// Argon2id hash using a constant-time key comparison.
func CheckPasswordHash(plainTextPassword, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expectedKey, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	// Recompute with the parameters stored in the hash itself, not the
	// current defaults, so cost upgrades don't invalidate old hashes.
	key := argon2.IDKey([]byte(plainTextPassword), salt, timeCost, memory, parallelism, uint32(len(expectedKey)))

	return subtle.ConstantTimeCompare(key, expectedKey) == 1
}
