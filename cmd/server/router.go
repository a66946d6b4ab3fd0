package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vocadrill/vocadrill-api/internal/api"
	apimiddleware "github.com/vocadrill/vocadrill-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwords,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
		app.logger,
	)
	corpusHandler := api.NewCorpusHandler(app.corpusStore, app.logger)
	sessionHandler := api.NewSessionHandler(app.reviewService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Corpus management endpoints
			r.Get("/corpus", corpusHandler.List)
			r.Post("/corpus", corpusHandler.Create)
			r.Get("/corpus/{id}", corpusHandler.Get)
			r.Delete("/corpus/{id}", corpusHandler.Delete)

			// Practice session endpoints
			r.Post("/sessions", sessionHandler.Start)
			r.Get("/sessions/{id}", sessionHandler.Get)
			r.Get("/sessions/{id}/current", sessionHandler.CurrentContent)
			r.Post("/sessions/{id}/results", sessionHandler.SubmitResult)
			r.Delete("/sessions/{id}", sessionHandler.Abandon)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
