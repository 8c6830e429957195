// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
authentication, session lifecycle (issue, validate with sliding renewal,
invalidate), and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Healthy Tips platform.
type User struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// DeletedAt marks a deactivated account. The row is retained; every
	// authenticated request checks this flag.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDeactivated reports whether the account has been soft-deleted.
func (u *User) IsDeactivated() bool {
	return u.DeletedAt != nil
}

// Session represents an active browser session.
//
// # Token Model
//
// The ID is the SHA-256 hash of the raw bearer token. The raw token exists
// only in the client-held cookie and in-flight requests; the store never
// holds it.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldUser      = "user"
)
