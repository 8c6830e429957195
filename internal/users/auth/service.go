// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/validate"
	"github.com/dimitarnikolovv/healthy-tips/pkg/uuid"
)

// ErrRoleMismatch is returned by Validate when the session is genuine but the
// user's role does not satisfy the required set. Callers distinguish it from
// a plain validation miss: the browser holds a real session, it just may not
// enter this area.
var ErrRoleMismatch = apperr.Forbidden("Insufficient role for this area")

// # Service

// Service implements authentication and session lifecycle use-cases.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	logger   *slog.Logger

	// now is swappable in tests to exercise expiry and renewal windows.
	now func() time.Time
}

// NewService creates a new authentication service.
func NewService(users UserRepository, sessions SessionRepository, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// # Inputs

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginInput carries the credentials of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// # Account Lifecycle

/*
Register creates a new user account with the basic role.

Description: Validates the input, hashes the password with Argon2id and
persists the account. Email uniqueness is enforced by the store and surfaces
as a Conflict.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The created account
  - error: Validation, Conflict or persistence failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// 1. Validate the payload at the boundary.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	validator := &validate.Validator{}
	err := validator.
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, 100).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, 100).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, 8).
		MaxLen(FieldPassword, input.Password, 128).
		Err()
	if err != nil {
		return nil, err
	}

	// 2. Derive the password hash before touching storage.
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_register_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         sec.RoleBasic,
	}

	// 3. Persist. Duplicate emails come back as a Conflict from the store.
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

/*
Login verifies credentials and issues a fresh session.

Description: A missing account and a wrong password produce the same
Unauthorized error, so the endpoint cannot be used to probe which emails are
registered.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: The authenticated account
  - string: Raw bearer token for the session cookie
  - *Session: The issued session (for the cookie expiry)
  - error: Unauthorized or persistence failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, string, *Session, error) {
	invalidCredentials := apperr.Unauthorized("Invalid email or password")

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	user, err := service.users.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, "", nil, invalidCredentials
		}
		return nil, "", nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", nil, invalidCredentials
	}

	rawToken, session, err := service.Issue(context, user.ID)
	if err != nil {
		return nil, "", nil, err
	}

	service.logger.InfoContext(context, "user_logged_in",
		slog.String("user_id", user.ID),
	)

	return user, rawToken, session, nil
}

/*
Deactivate soft-deletes the account.

Description: The row and its sessions are retained. Retained sessions are
deliberate: the user keeps an authenticated identity so the guard can route
them to the deactivation notice and they can still log out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Deactivate(context context.Context, userID string) error {
	if err := service.users.SoftDelete(context, userID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_deactivated",
		slog.String("user_id", userID),
	)

	return nil
}

// # Session Lifecycle

/*
Issue mints a new session for the given user.

Description: Generates a high-entropy bearer token, stores only its hash as
the session ID, and grants the full TTL.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Raw bearer token (the cookie value; never stored)
  - *Session: The persisted session
  - error: Token generation or persistence failures
*/
func (service *Service) Issue(context context.Context, userID string) (string, *Session, error) {
	rawToken, err := sec.GenerateSessionToken()
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("auth_issue_token_failed: %w", err))
	}

	session := &Session{
		ID:        sec.HashToken(rawToken),
		UserID:    userID,
		ExpiresAt: service.now().Add(SessionTTL),
	}

	if err := service.sessions.Create(context, session); err != nil {
		return "", nil, err
	}

	return rawToken, session, nil
}

/*
Validate resolves a raw bearer token into an authenticated identity.

Description: The core authentication routine, run on every request carrying a
session cookie. Order of operations:

 1. Hash the token and load the session joined with its user.
 2. A missing row is an anonymous request: (nil, nil), no error.
 3. An expired session is deleted on the spot ("lazy expiry") and the
    request proceeds as anonymous.
 4. If less than RenewalWindow remains, the expiry is extended by a full
    TTL ("sliding renewal"). A renewal write failure is logged but does not
    fail validation: the session is still good for its current lifetime.
 5. The user's role is checked against the required set. Admin passes every
    check. A mismatch returns the identity together with ErrRoleMismatch so
    the caller can redirect rather than challenge.

Deactivated accounts still resolve to an identity (with Deactivated set);
routing them to the notice page is the guard's job, not this routine's.

Parameters:
  - context: context.Context
  - rawToken: string (Cookie value)
  - required: []sec.UserRole (Empty set means any authenticated role)

Returns:
  - *sec.Identity: The resolved identity, or nil for anonymous
  - error: ErrRoleMismatch, or persistence failures
*/
func (service *Service) Validate(context context.Context, rawToken string, required []sec.UserRole) (*sec.Identity, error) {
	if rawToken == "" {
		return nil, nil
	}

	sessionID := sec.HashToken(rawToken)

	session, user, err := service.sessions.FindWithUser(context, sessionID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	now := service.now()

	// Lazy expiry: the row outlived its lifetime, remove it now.
	if !session.ExpiresAt.After(now) {
		if err := service.sessions.Delete(context, session.ID); err != nil {
			service.logger.WarnContext(context, "session_expiry_cleanup_failed",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, nil
	}

	// Sliding renewal inside the final half of the lifetime.
	if session.ExpiresAt.Sub(now) < RenewalWindow {
		renewed := now.Add(SessionTTL)
		if err := service.sessions.UpdateExpiry(context, session.ID, renewed); err != nil {
			service.logger.WarnContext(context, "session_renewal_failed",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()),
			)
		} else {
			session.ExpiresAt = renewed
		}
	}

	identity := &sec.Identity{
		UserID:           user.ID,
		Email:            user.Email,
		Role:             user.Role,
		SessionID:        session.ID,
		SessionExpiresAt: session.ExpiresAt,
		Deactivated:      user.IsDeactivated(),
	}

	if !user.Role.Satisfies(required) {
		return identity, ErrRoleMismatch
	}

	return identity, nil
}

/*
Invalidate terminates the session behind a raw bearer token.

Description: Idempotent; invalidating an unknown or already-removed token
succeeds silently.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Invalidate(context context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return service.sessions.Delete(context, sec.HashToken(rawToken))
}

// IsRoleMismatch reports whether err is the role-mismatch sentinel.
func IsRoleMismatch(err error) bool {
	return errors.Is(err, ErrRoleMismatch)
}
