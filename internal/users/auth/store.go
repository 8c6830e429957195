// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the active (non-deactivated) account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (including email uniqueness conflicts)
	*/
	Create(context context.Context, user *User) error

	/*
		SoftDelete marks the account as deactivated without removing the row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(context context.Context, id string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for browser sessions.
type SessionRepository interface {

	/*
		Create persists a new session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindWithUser returns the session with the given ID joined with its
		owning user. The user's password hash is excluded from the projection.
		Soft-deleted users are still returned so the guard can surface the
		deactivation notice.

		Parameters:
		  - context: context.Context
		  - sessionID: string (SHA-256 hash of the raw token)

		Returns:
		  - *Session: Hydrated session
		  - *User: Owning user, without the password hash
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindWithUser(context context.Context, sessionID string) (*Session, *User, error)

	/*
		UpdateExpiry persists a renewed expiry timestamp.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateExpiry(context context.Context, sessionID string, expiresAt time.Time) error

	/*
		Delete removes the session row unconditionally. Deleting an absent
		session is a no-op, not an error.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, sessionID string) error
}
