// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/config"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/constants"
	requestutil "github.com/dimitarnikolovv/healthy-tips/internal/platform/request"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/respond"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/sec"
)

// # HTTP Handler

// Handler exposes the authentication use-cases over HTTP.
type Handler struct {
	service *Service
	config  *config.Config
	logger  *slog.Logger
}

// NewHandler creates a new authentication HTTP handler.
func NewHandler(service *Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post(constants.LogoutPath, handler.Logout)
}

// RegisterAccountRoutes mounts the endpoints of the authenticated account area.
func (handler *Handler) RegisterAccountRoutes(router chi.Router) {
	router.Get("/me", handler.Me)
	router.Post("/deactivate", handler.Deactivate)
}

// # Endpoints

/*
Register handles POST /register.

Creates a basic-role account and immediately issues a session, so a fresh
registration lands in the browser already logged in.
*/
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rawToken, session, err := handler.service.Issue(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, rawToken, session.ExpiresAt)
	respond.Created(writer, user)
}

// loginResponse pairs the profile with the landing path the client should
// navigate to: admins land on the dashboard, everyone else on the home page.
type loginResponse struct {
	User       *User  `json:"user"`
	RedirectTo string `json:"redirectTo"`
}

/*
Login handles POST /login.

Verifies credentials and sets the session cookie.
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, rawToken, session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	landing := "/"
	if user.Role == sec.RoleAdmin {
		landing = "/admin"
	}

	handler.setSessionCookie(writer, rawToken, session.ExpiresAt)
	respond.OK(writer, loginResponse{User: user, RedirectTo: landing})
}

/*
Logout handles POST /logout.

Terminates the server-side session and clears the cookie. Always succeeds for
the client, even when no session exists: logging out twice is not an error.
This route stays reachable for deactivated accounts.
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		if err := handler.service.Invalidate(request.Context(), cookie.Value); err != nil {
			handler.logger.WarnContext(request.Context(), "logout_invalidate_failed",
				slog.String("error", err.Error()),
			)
		}
	}

	handler.clearSessionCookie(writer)
	respond.NoContent(writer)
}

/*
Me handles GET /account/me.

Returns the authenticated user's profile.
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.users.FindByID(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Deactivate handles POST /account/deactivate.

Soft-deletes the authenticated account. The session cookie is left in place:
the retained session is what lets the browser reach the deactivation notice.
*/
func (handler *Handler) Deactivate(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), identity.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Redirect(writer, request, constants.DeactivatedNoticePath)
}

// # Cookie Management

// SetSessionCookie writes the session cookie carrying the raw bearer token.
// The cookie expiry mirrors the session expiry so both die together. The
// session middleware uses the same routine to refresh the cookie after a
// sliding renewal.
func SetSessionCookie(writer http.ResponseWriter, cfg *config.Config, rawToken string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    rawToken,
		Path:     constants.SessionCookiePath,
		Domain:   cfg.CookieDomain(),
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(writer http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		Domain:   cfg.CookieDomain(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setSessionCookie and clearSessionCookie are thin method wrappers kept so
// handler code reads naturally.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, rawToken string, expiresAt time.Time) {
	SetSessionCookie(writer, handler.config, rawToken, expiresAt)
}

func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	ClearSessionCookie(writer, handler.config)
}
