// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package sec

import "time"

// # Resolved Identity

// Identity is the per-request authentication result attached to the context
// by the session middleware.
//
// It intentionally carries only what downstream handlers need — never the
// password hash and never the raw bearer token.
type Identity struct {
	UserID    string
	Email     string
	Role      UserRole
	SessionID string

	// SessionExpiresAt mirrors the (possibly renewed) session expiry so the
	// middleware can refresh the cookie lifetime.
	SessionExpiresAt time.Time

	// Deactivated marks a soft-deleted account. The guard redirects such
	// users to the deactivation notice page.
	Deactivated bool
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
