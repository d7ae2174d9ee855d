package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/classify"
	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/internal/presentation/graph"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/aretw0/waterjug/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Solver   ports.Solver
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  http.Handler
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions mounts the /sessions routes backed by m.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the solver.
func NewHandler(solver ports.Solver, opts ...Option) http.Handler {
	s := &Server{
		Solver: solver,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/rules", s.ListRules)
	r.Post("/solve", s.Solve)
	r.Post("/classify", s.Classify)
	r.Get("/graph", s.GetGraph)

	if s.Sessions != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.CreateSession)
			r.Get("/{id}", s.GetSession)
			r.Delete("/{id}", s.DeleteSession)
			r.Get("/{id}/events", s.SubscribeEvents)
			r.Post("/{id}/{action}", s.ApplyAction)
		})
	}
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SolveResponse is the body of POST /solve.
type SolveResponse struct {
	Problem domain.Problem `json:"problem"`
	Path    domain.Path    `json:"path"`
	Moves   int            `json:"moves"`
	Goal    domain.Rule    `json:"goal"`
	Steps   []domain.Step  `json:"steps"`
}

// ClassifyRequest is the body of POST /classify.
// Target is optional and only used to report goal arrival.
type ClassifyRequest struct {
	Previous domain.JugState `json:"previous"`
	Current  domain.JugState `json:"current"`
	Cap1     int             `json:"cap1"`
	Cap2     int             `json:"cap2"`
	Target   *int            `json:"target,omitempty"`
}

// ClassifyResponse is the body returned by POST /classify.
type ClassifyResponse struct {
	Rule domain.Rule `json:"rule"`
	Goal domain.Rule `json:"goal,omitempty"`
}

// ActionResponse is the body returned by POST /sessions/{id}/{action}.
type ActionResponse struct {
	Playback *domain.Playback `json:"playback"`
	Step     *domain.Step     `json:"step,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// GetHealth handles the GET /health request. When the session store can be
// checked, an unreachable store reports 503.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.Sessions != nil {
		if hc, ok := s.Sessions.Store().(ports.HealthChecker); ok {
			if err := hc.HealthCheck(r.Context()); err != nil {
				s.Logger.Warn("session store unhealthy", "err", err)
				s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.Logger.Error("failed to load OpenAPI document", "err", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "waterjug-http",
		"version":     strings.TrimSpace(waterjug.Version),
		"api_version": apiVersion,
	})
}

// ListRules handles the GET /rules request.
func (s *Server) ListRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Solver.Rules())
}

// Solve handles the POST /solve request.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	var p domain.Problem
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "")
		s.Logger.Warn("Solve: invalid request body", "err", err)
		return
	}

	sol, err := s.Solver.Solve(r.Context(), p)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SolveResponse{
		Problem: sol.Problem,
		Path:    sol.Path,
		Moves:   sol.Moves(),
		Goal:    sol.Goal,
		Steps:   s.Solver.Steps(sol),
	})
}

// Classify handles the POST /classify request.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "")
		s.Logger.Warn("Classify: invalid request body", "err", err)
		return
	}
	if req.Cap1 < 1 {
		s.writeDomainError(w, &domain.ValidationError{Field: "cap1", Message: "must be at least 1", Err: domain.ErrInvalidCapacity})
		return
	}
	if req.Cap2 < 1 {
		s.writeDomainError(w, &domain.ValidationError{Field: "cap2", Message: "must be at least 1", Err: domain.ErrInvalidCapacity})
		return
	}

	caps := domain.Capacities{Jug1: req.Cap1, Jug2: req.Cap2}
	resp := ClassifyResponse{Rule: s.Solver.Classify(req.Previous, req.Current, caps)}
	if req.Target != nil {
		if goal, ok := classify.GoalRule(req.Current, *req.Target); ok {
			resp.Goal = goal
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetGraph handles the GET /graph request. Without a target, or when the
// target is unreachable, the bare state space is returned.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cap1, err1 := strconv.Atoi(q.Get("cap1"))
	cap2, err2 := strconv.Atoi(q.Get("cap2"))
	if err1 != nil || err2 != nil {
		s.writeError(w, http.StatusBadRequest, "cap1 and cap2 must be integers", "")
		return
	}
	p := domain.Problem{Capacities: domain.Capacities{Jug1: cap1, Jug2: cap2}, Target: -1}
	if t := q.Get("target"); t != "" {
		target, err := strconv.Atoi(t)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "target must be an integer", "target")
			return
		}
		p.Target = target
	}

	space, err := s.Solver.Explore(r.Context(), p.Capacities)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := graph.GenerateMermaid(space, p.Target, nil)
	if p.Target >= 0 {
		sol, err := s.Solver.Solve(r.Context(), p)
		switch {
		case err == nil:
			out = graph.ForSolution(space, sol)
		case errors.Is(err, domain.ErrTargetUnreachable):
		default:
			s.writeDomainError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request: it solves the problem
// and stores an idle playback over the solution.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var p domain.Problem
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	sol, err := s.Solver.Solve(r.Context(), p)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	pb, err := s.Sessions.Create(r.Context(), sol)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, pb)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	pb, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pb)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyAction handles the POST /sessions/{id}/{action} request and
// broadcasts the resulting diff to SSE subscribers.
func (s *Server) ApplyAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action, err := session.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	before, pb, step, err := s.Sessions.ApplyTracked(r.Context(), id, action)
	if pb == nil {
		s.writeDomainError(w, err)
		return
	}
	s.broadcast(id, before, pb)

	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ActionResponse{Playback: pb, Step: step})
}

func (s *Server) broadcast(id string, before, after *domain.Playback) {
	if s.Streams.Subscribers(id) == 0 {
		return
	}
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	b, err := json.Marshal(diff)
	if err != nil {
		s.Logger.Error("failed to encode diff", "session_id", id, "err", err)
		return
	}
	s.Streams.Broadcast(id, string(b))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := chi.URLParam(r, "id")
	s.Logger.Info("SSE: subscribing to session updates", "session_id", sessionID)

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// watched reports whether the encoded diff touches any of the fields.
func watched(msg string, fields []string) bool {
	var diff domain.PlaybackDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "status":
			if diff.Status != nil {
				return true
			}
		case "cursor":
			if diff.Cursor != nil {
				return true
			}
		case "current":
			if diff.Current != nil {
				return true
			}
		case "highlighted":
			if diff.Highlighted != nil {
				return true
			}
		case "appended":
			if len(diff.Appended) > 0 {
				return true
			}
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, field string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

// writeDomainError maps domain errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var field string
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		field = verr.Field
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTargetOutOfRange):
		status = http.StatusUnprocessableEntity
	case verr != nil, errors.Is(err, session.ErrUnknownAction):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTargetUnreachable), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotRunning), errors.Is(err, domain.ErrPlaybackFinished):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	s.writeError(w, status, err.Error(), field)
}
