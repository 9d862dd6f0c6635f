// Package server exposes the grading pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/monitoring"
	"github.com/gtr-comics/comic-grader/internal/provider"
	"github.com/gtr-comics/comic-grader/internal/store"
	"github.com/gtr-comics/comic-grader/internal/upload"
)

// maxMultipartMemory bounds in-memory parsing of uploads; larger parts
// spill to temp files.
const maxMultipartMemory = 50 << 20

// Server handles grading API requests.
type Server struct {
	dispatcher *provider.Dispatcher
	store      store.Store
	limits     upload.Limits
}

// New creates a Server over the given dispatcher and report store.
func New(dispatcher *provider.Dispatcher, st store.Store, limits upload.Limits) *Server {
	return &Server{
		dispatcher: dispatcher,
		store:      st,
		limits:     limits,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/grade", s.handleGrade)
	r.Post("/api/grade/batch", s.handleGradeBatch)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{id}", s.handleGetReport)
	r.Delete("/api/reports/{id}", s.handleDeleteReport)
	r.Get("/api/reports/{id}/export", s.handleExportReport)
	r.Handle("/metrics", monitoring.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	registry := s.dispatcher.Registry()
	providers := make(map[string]bool)
	for _, name := range registry.List() {
		providers[name] = registry.Get(name).Configured(r.Context())
	}

	breakers := make(map[string]string)
	for name, state := range s.dispatcher.BreakerStates() {
		breakers[name] = state.String()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": providers,
		"breakers":  breakers,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	body := map[string]any{
		"success": false,
		"error":   msg,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
