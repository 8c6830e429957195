// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dimitarnikolovv/healthy-tips/internal/comment"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/config"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/constants"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/middleware"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/respond"
	"github.com/dimitarnikolovv/healthy-tips/internal/users/auth"
	"github.com/dimitarnikolovv/healthy-tips/internal/video"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, logout, and the account area.
	Auth *auth.Handler

	// Video handles the public catalogue, streaming, and the admin area.
	Video *video.Handler

	// Comment handles viewer comments on published videos.
	Comment *comment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The session guard runs in two stages: ResolveSession on every route turns
// the cookie into a context identity, and the area guards on the account and
// admin subtrees redirect anything that does not clear their bar.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions *auth.Service, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.ResolveSession(sessions, cfg))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Public Surface
	h.Auth.RegisterPublicRoutes(r)
	h.Video.RegisterPublicRoutes(r)
	h.Comment.RegisterRoutes(r)
	r.Get(constants.DeactivatedNoticePath, deactivatedNotice)

	// # Account Area
	r.Route(constants.AccountPathPrefix, func(account chi.Router) {
		account.Use(middleware.AccountAreaGuard())
		h.Auth.RegisterAccountRoutes(account)
	})

	// # Admin Area
	r.Route(constants.AdminPathPrefix, func(admin chi.Router) {
		admin.Use(middleware.AdminAreaGuard())
		h.Video.RegisterAdminRoutes(admin)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// deactivatedNotice handles GET /account-deactivated: the landing page the
// guard routes soft-deleted accounts to. Reachable anonymously too, so a
// user who logs out from it does not hit a redirect loop.
func deactivatedNotice(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		"status":  "deactivated",
		"message": "This account has been deactivated. You may log out at any time.",
	})
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
