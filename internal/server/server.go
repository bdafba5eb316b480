// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer: it connects the executor, services,
// handlers, and the authorization gate, and decides which policy guards
// which route.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go creates: config.Config, repository.Executor (postgres or sqlite)
//	Server.New() creates: TokenService, PasswordService → services → handlers
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/routes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/config"
	"github.com/sakif/jobly/internal/handler"
	"github.com/sakif/jobly/internal/middleware"
	"github.com/sakif/jobly/internal/repository"
	"github.com/sakif/jobly/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The executor is owned by the caller; Start does not close it.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
}

// New assembles the dependency chain on top of exec:
//  1. Token and password primitives from config
//  2. Services over the executor
//  3. Handlers over the services
//  4. Routes, with the gate applied per route
func New(cfg *config.Config, exec repository.Executor, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(cfg.BcryptWorkFactor)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.routes(exec, tokens, passwords)
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info and the request id
// 4. Recoverer: catches panics and returns 500 instead of crashing
// 5. CORS, only when origins are configured
func (s *Server) routes(exec repository.Executor, tokens *auth.TokenService, passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	if origins := s.config.AllowedOrigins(); len(origins) > 0 {
		s.router.Use(cors.New(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}

	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	// === Services ===
	companies := service.NewCompanyService(exec, s.logger)
	jobs := service.NewJobService(exec, s.logger)
	users := service.NewUserService(exec, passwords, s.logger)
	authSvc := service.NewAuthService(users, tokens, s.logger)

	// === Handlers ===
	companyHandler := handler.NewCompanyHandler(companies, s.logger)
	jobHandler := handler.NewJobHandler(jobs, s.logger)
	userHandler := handler.NewUserHandler(users, authSvc, s.logger)
	authHandler := handler.NewAuthHandler(authSvc, s.logger)

	pinger, _ := exec.(repository.Pinger)
	healthHandler := handler.NewHealthHandler(pinger, s.logger)

	gate := auth.NewGate(tokens, handler.WriteError, s.logger)

	// ROUTE STRUCTURE:
	// POST   /login                   → token for credentials
	// *      /companies[/{handle}]    → reads need a token, writes need admin
	// *      /jobs[/{id}]             → same, plus any user may apply
	// *      /users[/{username}]      → open reads and signup, self-only writes
	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Route("/companies", func(r chi.Router) {
		r.With(gate.RequireAuth).Get("/", companyHandler.HandleList)
		r.With(gate.RequireAdmin).Post("/", companyHandler.HandleCreate)
		r.With(gate.RequireAuth).Get("/{handle}", companyHandler.HandleGet)
		r.With(gate.RequireAdmin).Patch("/{handle}", companyHandler.HandleUpdate)
		r.With(gate.RequireAdmin).Delete("/{handle}", companyHandler.HandleDelete)
	})

	s.router.Route("/jobs", func(r chi.Router) {
		r.With(gate.RequireAuth).Get("/", jobHandler.HandleList)
		r.With(gate.RequireAdmin).Post("/", jobHandler.HandleCreate)
		r.With(gate.RequireAuth).Get("/{id}", jobHandler.HandleGet)
		r.With(gate.RequireAdmin).Patch("/{id}", jobHandler.HandleUpdate)
		r.With(gate.RequireAdmin).Delete("/{id}", jobHandler.HandleDelete)
		r.With(gate.RequireAuth).Post("/{id}/apply", jobHandler.HandleApply)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", userHandler.HandleRegister)
		r.Get("/{username}", userHandler.HandleGet)

		self := gate.RequireSameUser("username")
		r.With(self).Patch("/{username}", userHandler.HandleUpdate)
		r.With(self).Delete("/{username}", userHandler.HandleDelete)
	})
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully:
// 1. Stop accepting new HTTP connections
// 2. Wait up to ShutdownTimeout for in-flight requests to finish
//
// main cancels ctx on SIGINT/SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.AppEnv),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
