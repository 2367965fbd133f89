package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a session.Manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Gatherer prometheus.Gatherer
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithMetrics times every dispatch.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// DispatchRequest is the body of POST /sessions/{id}/dispatch.
// Call, when set, addresses the target by child IDs and takes precedence over Path.
type DispatchRequest struct {
	Type      string   `json:"type"`
	Payload   any      `json:"payload,omitempty"`
	Multicast bool     `json:"multicast,omitempty"`
	Path      []int    `json:"path,omitempty"`
	Call      []string `json:"call,omitempty"`
}

// SessionView describes one session's materialized State tree.
type SessionView struct {
	ID           string  `json:"id"`
	Materialized [][]int `json:"materialized"`
}

// NewHandler creates the HTTP handler for mgr.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: mgr,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Post("/{id}/dispatch", s.Dispatch)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	eng := s.Sessions.Engine()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":       eng.Name,
		"stateful":   eng.Stateful(),
		"components": eng.Inspect().Count(),
		"sessions":   len(s.Sessions.List()),
	})
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.Engine().Inspect())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.List())
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, ok := s.Sessions.State(id)
	if !ok {
		s.writeError(w, domain.ErrSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionView{
		ID:           id,
		Materialized: s.Sessions.Engine().Inspect().Materialized(state),
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Prune(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch handles POST /sessions/{id}/dispatch.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Dispatch: Invalid request body", "err", err)
		return
	}
	if body.Type == "" {
		http.Error(w, "Message type is required", http.StatusBadRequest)
		return
	}

	msg := domain.NewMessage(body.Type, body.Payload)
	if body.Multicast {
		msg = domain.NewMulticast(body.Type, body.Payload)
	}

	run := func() error {
		if len(body.Call) > 0 {
			return s.Sessions.Call(r.Context(), id, msg, body.Call...)
		}
		return s.Sessions.Dispatch(r.Context(), id, msg, body.Path...)
	}
	var err error
	if s.Metrics != nil {
		err = s.Metrics.Track(run)
	} else {
		err = run()
	}
	if err != nil {
		s.Logger.Error("Dispatch failed", "session_id", id, "message_type", body.Type, "err", err)
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps dispatch errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrChildNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRouteOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIllegalState):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
