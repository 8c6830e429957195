// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session cookie configuration and guarded path prefixes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "healthy-tips"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Generous because admin video uploads stream up to 500MB bodies.
	DefaultReadTimeout = 15 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 5 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session Cookie

const (
	// SessionCookieName is the fixed name of the session cookie. The cookie
	// value is the raw bearer token (unpadded base64url).
	SessionCookieName = "healthytips_session"

	// SessionCookiePath scopes the cookie to the whole site.
	SessionCookiePath = "/"
)

// # Guarded Path Prefixes

const (
	// AdminPathPrefix marks the admin area. Requests here require RoleAdmin.
	AdminPathPrefix = "/admin"

	// AccountPathPrefix marks the account area. Requests here require RoleBasic
	// (which, via the admin bypass, effectively means basic-or-admin).
	AccountPathPrefix = "/account"

	// DeactivatedNoticePath is the page shown to soft-deleted accounts.
	DeactivatedNoticePath = "/account-deactivated"

	// LogoutPath remains reachable for deactivated accounts so they can
	// terminate their session.
	LogoutPath = "/logout"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixVideoViews is the key prefix for per-video view counters.
	RedisPrefixVideoViews = "video:views:"
)
