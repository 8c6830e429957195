// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Default role for standard registered users
	RoleBasic UserRole = "basic"
)

// IsValid reports whether the role is one of the known role values.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleBasic
}

// # Authorization Rule

// Satisfies reports whether the role is authorized against a required role
// set.
//
// # Superuser Bypass
//
// RoleAdmin passes every check regardless of the requested set. This is a
// deliberate rule encoded here (rather than scattered string comparisons) so
// it cannot regress silently; it is covered directly by tests.
//
// An empty required set means no role restriction: any role satisfies it.
func (r UserRole) Satisfies(required []UserRole) bool {
	if r == RoleAdmin {
		return true
	}

	if len(required) == 0 {
		return true
	}

	for _, want := range required {
		if r == want {
			return true
		}
	}

	return false
}
