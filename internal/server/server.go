// Package server exposes the guard over a local HTTP API for the host shim.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/promptguard/promptguard/internal/config"
	"github.com/promptguard/promptguard/internal/guard"
	"github.com/promptguard/promptguard/internal/store"
)

// Server is the promptguard HTTP API server.
type Server struct {
	ctrl    *guard.Controller
	db      *store.DB
	cfg     *config.Config
	router  chi.Router
	version string
	started time.Time
	log     zerolog.Logger
}

// New creates a new Server around the given controller and database.
func New(ctrl *guard.Controller, db *store.DB, cfg *config.Config, version string, log zerolog.Logger) *Server {
	s := &Server{
		ctrl:    ctrl,
		db:      db,
		cfg:     cfg,
		version: version,
		started: time.Now(),
		log:     log,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/guard", s.handleGuard)
			r.Post("/lifecycle/ready", s.handleReady)
			r.Post("/lifecycle/stop", s.handleStop)
			r.Get("/decisions", s.handleDecisions)
			r.Get("/config", s.handleConfig)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"active":  s.ctrl.Active(),
		"enabled": s.ctrl.Enabled(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
