// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
)

// # Test Fakes

type fakeUserRepo struct {
	byID map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := f.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.byID {
		if user.Email == email && user.DeletedAt == nil {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) Create(_ context.Context, user *User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	if user, ok := f.byID[id]; ok {
		now := time.Now()
		user.DeletedAt = &now
	}
	return nil
}

type fakeSessionRepo struct {
	users *fakeUserRepo
	byID  map[string]*Session
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{users: users, byID: make(map[string]*Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *Session) error {
	copied := *session
	f.byID[session.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) FindWithUser(ctx context.Context, sessionID string) (*Session, *User, error) {
	session, ok := f.byID[sessionID]
	if !ok {
		return nil, nil, apperr.NotFound("Session")
	}

	user, ok := f.users.byID[session.UserID]
	if !ok {
		return nil, nil, apperr.NotFound("Session")
	}

	sessionCopy := *session
	userCopy := *user
	userCopy.PasswordHash = ""
	return &sessionCopy, &userCopy, nil
}

func (f *fakeSessionRepo) UpdateExpiry(_ context.Context, sessionID string, expiresAt time.Time) error {
	if session, ok := f.byID[sessionID]; ok {
		session.ExpiresAt = expiresAt
	}
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	delete(f.byID, sessionID)
	return nil
}

// # Harness

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo(users)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, sessions, logger), users, sessions
}

func seedUser(t *testing.T, users *fakeUserRepo, id string, role sec.UserRole) *User {
	t.Helper()
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	user := &User{
		ID:           id,
		FirstName:    "Mira",
		LastName:     "Petrova",
		Email:        id + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// # Session Lifecycle

func TestIssueAndValidateRoundTrip(t *testing.T) {
	service, users, sessions := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	rawToken, session, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	// The store holds the hash, never the raw token.
	assert.Equal(t, sec.HashToken(rawToken), session.ID)
	assert.NotContains(t, sessions.byID, rawToken)

	identity, err := service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, sec.RoleBasic, identity.Role)
	assert.False(t, identity.Deactivated)
}

func TestValidateUnknownTokenIsAnonymous(t *testing.T) {
	service, _, _ := newTestService(t)

	identity, err := service.Validate(context.Background(), "never-issued-token", nil)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestValidateEmptyTokenIsAnonymous(t *testing.T) {
	service, _, _ := newTestService(t)

	identity, err := service.Validate(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestValidateExpiredSessionIsDeletedLazily(t *testing.T) {
	service, users, sessions := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	issuedAt := time.Now()
	service.now = func() time.Time { return issuedAt }

	rawToken, session, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	// Jump past the full lifetime.
	service.now = func() time.Time { return issuedAt.Add(SessionTTL + time.Hour) }

	identity, err := service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	assert.Nil(t, identity)
	assert.NotContains(t, sessions.byID, session.ID, "expired session row must be removed on read")
}

func TestValidateSlidingRenewal(t *testing.T) {
	service, users, sessions := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	issuedAt := time.Now()
	service.now = func() time.Time { return issuedAt }

	rawToken, session, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	// Day 5: more than half the lifetime remains, no renewal.
	fifth := issuedAt.Add(5 * 24 * time.Hour)
	service.now = func() time.Time { return fifth }

	identity, err := service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.True(t, sessions.byID[session.ID].ExpiresAt.Equal(issuedAt.Add(SessionTTL)),
		"expiry must be untouched while outside the renewal window")

	// Day 16: under half remains, the validation extends the lifetime.
	sixteenth := issuedAt.Add(16 * 24 * time.Hour)
	service.now = func() time.Time { return sixteenth }

	identity, err = service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	require.NotNil(t, identity)

	renewed := sessions.byID[session.ID].ExpiresAt
	assert.True(t, renewed.Equal(sixteenth.Add(SessionTTL)), "renewal grants a fresh full lifetime")
	assert.True(t, identity.SessionExpiresAt.Equal(renewed), "identity mirrors the renewed expiry")
}

func TestInvalidateIsIdempotent(t *testing.T) {
	service, users, _ := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	rawToken, _, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, service.Invalidate(context.Background(), rawToken))
	require.NoError(t, service.Invalidate(context.Background(), rawToken), "second invalidation must not fail")

	identity, err := service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

// # Authorization

func TestValidateRoleMismatch(t *testing.T) {
	service, users, _ := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	rawToken, _, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	identity, err := service.Validate(context.Background(), rawToken, []sec.UserRole{sec.RoleAdmin})
	assert.True(t, IsRoleMismatch(err))
	require.NotNil(t, identity, "the mismatch still carries the identity for redirect decisions")
	assert.Equal(t, user.ID, identity.UserID)
}

func TestValidateAdminBypassesRoleSets(t *testing.T) {
	service, users, _ := newTestService(t)
	admin := seedUser(t, users, "a1", sec.RoleAdmin)

	rawToken, _, err := service.Issue(context.Background(), admin.ID)
	require.NoError(t, err)

	identity, err := service.Validate(context.Background(), rawToken, []sec.UserRole{sec.RoleBasic})
	require.NoError(t, err, "admin must satisfy every required role set")
	require.NotNil(t, identity)
	assert.True(t, identity.IsAdmin())
}

// # Account Lifecycle

func TestRegisterAndLogin(t *testing.T) {
	service, _, _ := newTestService(t)

	user, err := service.Register(context.Background(), RegisterInput{
		FirstName: "Mira",
		LastName:  "Petrova",
		Email:     "Mira@Example.com",
		Password:  "a-strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleBasic, user.Role)
	assert.Equal(t, "mira@example.com", user.Email, "emails are normalized to lowercase")

	loggedIn, rawToken, session, err := service.Login(context.Background(), LoginInput{
		Email:    "mira@example.com",
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, rawToken)
	require.NotNil(t, session)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	service, users, _ := newTestService(t)
	seedUser(t, users, "u1", sec.RoleBasic)

	_, _, _, wrongPassword := service.Login(context.Background(), LoginInput{
		Email:    "u1@example.com",
		Password: "wrong",
	})
	_, _, _, unknownEmail := service.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "wrong",
	})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error(),
		"the endpoint must not reveal whether the email is registered")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	service, _, _ := newTestService(t)

	input := RegisterInput{
		FirstName: "Mira",
		LastName:  "Petrova",
		Email:     "mira@example.com",
		Password:  "a-strong-password",
	}

	_, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), input)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestRegisterValidation(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		FirstName: "",
		LastName:  "Petrova",
		Email:     "not-an-email",
		Password:  "short",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.NotEmpty(t, appError.Details)
}

func TestDeactivateKeepsSessionAndMarksIdentity(t *testing.T) {
	service, users, sessions := newTestService(t)
	user := seedUser(t, users, "u1", sec.RoleBasic)

	rawToken, session, err := service.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(context.Background(), user.ID))

	// The session row survives deactivation.
	assert.Contains(t, sessions.byID, session.ID)

	identity, err := service.Validate(context.Background(), rawToken, nil)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.True(t, identity.Deactivated)
}
