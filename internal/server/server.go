// Package server exposes the search/paginate/export flow over HTTP for the
// browser front end.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/placeseek/places-export/pkg/logging"
	"github.com/placeseek/places-export/pkg/session"
)

// Server wires the session manager into the HTTP API.
type Server struct {
	manager *session.Manager
	logger  zerolog.Logger
}

// New creates a new API server around a session manager.
func New(manager *session.Manager) *Server {
	return &Server{
		manager: manager,
		logger:  logging.NewLogger("api-server"),
	}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// The browser front end is served from a different origin during
	// development, so the API answers cross-origin requests.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/search", s.handleSearch)
	r.Post("/api/search/more", s.handleSearchMore)
	r.Get("/api/download/{sessionID}", s.handleDownload)

	return r
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
