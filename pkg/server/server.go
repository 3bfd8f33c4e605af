// Package server implements the prompt gateway: a stateless HTTP API that
// turns a documents+question+history request into exactly one call to the
// model provider and relays the reply verbatim.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/docdesk/docdesk/pkg/model"
	"github.com/docdesk/docdesk/pkg/prompt"
)

// Config carries the gateway's environment-provided settings.
type Config struct {
	// ModelName identifies the provider model used for both ask and
	// suggestion requests.
	ModelName string

	// MaxContextChars bounds the concatenated document context. Zero means
	// prompt.DefaultMaxContextChars.
	MaxContextChars int

	// AllowedOrigin is the single origin permitted by CORS.
	AllowedOrigin string
}

// Server serves the prompt gateway API. It holds no per-request state; every
// ask and suggestion call is fully self-contained.
type Server struct {
	// provider is nil when no credential was configured at startup. Requests
	// then fail with a configuration error rather than a provider call.
	provider model.Provider
	cfg      Config
	srv      *http.Server
}

// New creates a new Server. provider may be nil if no credential is
// configured; ask and suggest requests will then return a server error.
func New(provider model.Provider, cfg Config) *Server {
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = prompt.DefaultMaxContextChars
	}
	return &Server{provider: provider, cfg: cfg}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/suggest", s.handleSuggest)
	return s.corsMiddleware(mux)
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	slog.Info("Starting prompt gateway", "addr", addr, "model", s.cfg.ModelName)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, err error) {
	slog.Error("API Error", "error", err)
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
