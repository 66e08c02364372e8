// Package httpapi is the transport collaborator: it translates HTTP
// requests into calls against the core (internal/project,
// internal/query) and serializes their results back to JSON. Routing,
// request parsing, and per-session history here are deliberately thin —
// the core holds every invariant (spec.md's note that the transport
// layer "merely calls into the core").
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/logx"
	"github.com/coderlm/coderlm/internal/project"
)

// version is set via -ldflags at build time, mirroring cmd/coderlm.
var version = "dev"

// SetVersion sets the version string reported by /version.
func SetVersion(v string) { version = v }

// Server wraps a project.Registry behind an HTTP API.
type Server struct {
	registry *project.Registry
	apiKey   string
	router   chi.Router
}

// NewServer builds a Server bound to registry. apiKey, if non-empty,
// requires every request except /health and /version to carry a
// matching X-API-Key header or api_key query parameter.
func NewServer(registry *project.Registry, apiKey string) *Server {
	s := &Server{registry: registry, apiKey: apiKey}
	s.setupRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.apiKey != "" {
		r.Use(s.apiKeyAuth)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", s.handleGetOrCreateProject)

		r.Route("/{session}", func(r chi.Router) {
			r.Get("/structure", s.handleStructure)
			r.Get("/peek", s.handlePeek)
			r.Get("/grep", s.handleGrep)
			r.Get("/chunks", s.handleChunkIndices)

			r.Get("/symbols", s.handleListSymbols)
			r.Get("/symbols/search", s.handleSearchSymbols)
			r.Get("/symbols/implementation", s.handleGetImplementation)
			r.Get("/symbols/callers", s.handleFindCallers)
			r.Get("/symbols/tests", s.handleFindTests)
			r.Get("/symbols/variables", s.handleListVariables)

			r.Post("/files/define", s.handleDefineFile)
			r.Post("/files/redefine", s.handleRedefineFile)
			r.Post("/files/mark", s.handleMarkFile)
			r.Post("/symbols/define", s.handleDefineSymbol)
			r.Post("/symbols/redefine", s.handleRedefineSymbol)

			r.Get("/history", s.handleHistory)
		})
	})

	s.router = r
}

// apiKeyAuth requires a matching key on every route except /health and
// /version.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/version" {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			key = r.URL.Query().Get("api_key")
		}
		if key != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error response shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Projects: s.registry.Len(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: version, Service: "coderlm"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Get().Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeErr maps an apperr.Kind to its HTTP status and writes the body.
func writeErr(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.BadRequest:
		status = http.StatusBadRequest
	case apperr.Gone:
		status = http.StatusGone
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind.String()})
}
