package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/lector/internal/artifacts"
	"github.com/MikeSquared-Agency/lector/internal/extract"
	"github.com/MikeSquared-Agency/lector/internal/hermes"
	"github.com/MikeSquared-Agency/lector/internal/library"
	"github.com/MikeSquared-Agency/lector/internal/pipeline"
	"github.com/MikeSquared-Agency/lector/internal/session"
	"github.com/MikeSquared-Agency/lector/internal/slack"
	"github.com/MikeSquared-Agency/lector/internal/store"
)

// maxUploadBytes caps document and audio uploads.
const maxUploadBytes = 32 << 20 // 32MB

// Deps carries everything the handlers need. Store, Hermes and Slack are
// optional — nil skips them.
type Deps struct {
	Session    *session.Session
	Pipeline   *pipeline.Pipeline
	Extractors *extract.Registry
	Library    *library.Library
	Artifacts  *artifacts.Store
	Store      *store.Store
	Hermes     *hermes.Client
	Slack      *slack.Poster
	Logger     *slog.Logger
}

type Server struct {
	router *chi.Mux
	port   int
	deps   Deps
}

func NewServer(port int, apiToken string, deps Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		deps:   deps,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/lector/status", s.status)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/documents", s.uploadDocument)
		r.Get("/documents", s.listDocuments)
		r.Post("/documents/{name}/activate", s.activateDocument)
		r.Get("/document", s.currentDocument)
		r.Post("/questions", s.askQuestion)
		r.Get("/answers", s.listAnswers)
	})

	router.Get("/artifacts/{name}", s.serveArtifact)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the configured bearer token.
// An empty token disables auth (local development).
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"agent":    "lector",
		"status":   "idle",
		"document": nil,
	}
	if s.deps.Session.HasDocument() {
		snap := s.deps.Session.Current()
		resp["status"] = "ready"
		resp["document"] = snap.Title
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
