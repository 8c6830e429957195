// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package auth

import "time"

// # Session Constraints

const (
	// SessionTTL is the full lifetime granted to a session at issue time and
	// at every renewal.
	SessionTTL = 30 * 24 * time.Hour

	// RenewalWindow is the remaining-lifetime threshold below which a
	// successful validation extends the session ("sliding renewal"). Half of
	// SessionTTL: active users never re-authenticate, idle sessions still
	// expire within 30 days.
	RenewalWindow = 15 * 24 * time.Hour
)
