package api

import (
	"log/slog"
	"net/http"

	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for bindery.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(s.cfg.APIKey))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/convert/batch", s.handleBatchConvert)
		r.Get("/api/convert/{jobID}/status", s.handleConvertStatus)
		r.Get("/api/convert/{jobID}/result", s.handleConvertResult)
		r.Get("/api/convert/{jobID}/markdown", s.handleConvertMarkdown)
		r.Get("/api/stats/translator", s.handleTranslatorStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
