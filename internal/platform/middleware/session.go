// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/config"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/constants"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/ctxutil"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
	"github.com/dimitarnikolovv/healthy-tips/internal/users/auth"
)

// # Two-Stage Session Guard
//
// Stage one (ResolveSession) authenticates: it turns the session cookie into
// a context identity, or into nothing for anonymous requests. Stage two
// (AdminAreaGuard, AccountAreaGuard) authorizes: mounted on protected
// subtrees, it redirects requests whose identity does not clear the bar.
//
// Denials on page routes are 302 redirects to safe pages, never raw error
// statuses: a browser user should land somewhere useful, and a probe should
// not learn whether the protected resource exists.

/*
ResolveSession is the authentication stage, mounted on every route.

Behavior:

 1. No session cookie: the request proceeds anonymously.
 2. A cookie that no longer maps to a live session (invalid, expired, or
    logged out elsewhere) is cleared and the request proceeds anonymously.
 3. A live session attaches a [sec.Identity] to the context and re-sets the
    cookie with the current session expiry, so sliding renewals on the server
    are mirrored in the browser.
 4. A deactivated account is routed to the deactivation notice page from
    everywhere except the notice page itself and the logout route.
 5. A live session whose role does not clear the path's required set is
    redirected to the home page.

The required role set is derived from the path prefix: the admin area
requires the admin role, the account area any authenticated role.
*/
func ResolveSession(service *auth.Service, cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			required := requiredRolesForPath(request.URL.Path)

			identity, err := service.Validate(request.Context(), cookie.Value, required)
			if err != nil && !auth.IsRoleMismatch(err) {
				// Infrastructure failure. Treat the request as anonymous
				// rather than locking every user out of public pages.
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"session_validation_failed",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if identity == nil {
				// The browser holds a dead token; stop resending it.
				auth.ClearSessionCookie(writer, cfg)
				next.ServeHTTP(writer, request)
				return
			}

			// Mirror the (possibly renewed) expiry back into the cookie.
			auth.SetSessionCookie(writer, cfg, cookie.Value, identity.SessionExpiresAt)

			if identity.Deactivated && !isDeactivationExemptPath(request.URL.Path) {
				http.Redirect(writer, request, constants.DeactivatedNoticePath, http.StatusFound)
				return
			}

			if auth.IsRoleMismatch(err) {
				http.Redirect(writer, request, "/", http.StatusFound)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

/*
AdminAreaGuard is the authorization stage for the admin subtree.

It is a backstop behind ResolveSession's prefix rule: even if a route under
the admin mount escapes the prefix check (rewrites, future mounts), nothing
without an admin identity gets through. Anonymous and non-admin requests are
redirected to the home page.
*/
func AdminAreaGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil || !identity.IsAdmin() {
				http.Redirect(writer, request, "/", http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

/*
AccountAreaGuard is the authorization stage for the account subtree.

Any authenticated, non-deactivated identity may enter; anonymous requests are
redirected to the home page.
*/
func AccountAreaGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetIdentity(request.Context()) == nil {
				http.Redirect(writer, request, "/", http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// requiredRolesForPath maps a URL path to the role set its area requires.
// Public paths return nil (no restriction).
func requiredRolesForPath(path string) []sec.UserRole {
	switch {
	case strings.HasPrefix(path, constants.AdminPathPrefix):
		return []sec.UserRole{sec.RoleAdmin}
	case strings.HasPrefix(path, constants.AccountPathPrefix):
		return []sec.UserRole{sec.RoleBasic}
	default:
		return nil
	}
}

// isDeactivationExemptPath reports whether a deactivated account may still
// reach the path. The notice page and logout stay reachable so the user can
// see why they were redirected and end their session.
func isDeactivationExemptPath(path string) bool {
	return path == constants.DeactivatedNoticePath || path == constants.LogoutPath
}
