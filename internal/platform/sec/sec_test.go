// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
the original and rejects a wrong password.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	// 1. PHC format with embedded parameters
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))

	// 2. Round trip
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))

	// 3. Wrong password
	assert.False(t, sec.CheckPasswordHash("incorrect horse", hash))
}

/*
TestCheckPasswordHash_Malformed verifies that malformed hashes never verify.
*/
func TestCheckPasswordHash_Malformed(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.False(t, sec.CheckPasswordHash("whatever", testCase.hash))
		})
	}
}

/*
TestGenerateSessionToken verifies token length, encoding, and uniqueness.
*/
func TestGenerateSessionToken(t *testing.T) {
	token, err := sec.GenerateSessionToken()
	require.NoError(t, err)

	// 1. Unpadded base64url decoding back to 18 bytes
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, sec.SessionTokenLength)

	// 2. Two tokens must differ
	other, err := sec.GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

/*
TestHashToken verifies the at-rest hash is deterministic hex SHA-256.
*/
func TestHashToken(t *testing.T) {
	hash := sec.HashToken("some-token")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, sec.HashToken("some-token"))
	assert.NotEqual(t, hash, sec.HashToken("some-other-token"))
}

/*
TestUserRole_Satisfies covers the authorization matrix, including the admin
superuser bypass.
*/
func TestUserRole_Satisfies(t *testing.T) {
	cases := []struct {
		name     string
		role     sec.UserRole
		required []sec.UserRole
		want     bool
	}{
		{"admin bypasses basic requirement", sec.RoleAdmin, []sec.UserRole{sec.RoleBasic}, true},
		{"admin bypasses admin requirement", sec.RoleAdmin, []sec.UserRole{sec.RoleAdmin}, true},
		{"admin bypasses empty set", sec.RoleAdmin, nil, true},
		{"basic passes empty set", sec.RoleBasic, nil, true},
		{"basic passes matching set", sec.RoleBasic, []sec.UserRole{sec.RoleBasic}, true},
		{"basic denied admin set", sec.RoleBasic, []sec.UserRole{sec.RoleAdmin}, false},
		{"unknown role denied non-empty set", sec.UserRole("ghost"), []sec.UserRole{sec.RoleBasic}, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.role.Satisfies(testCase.required))
		})
	}
}
