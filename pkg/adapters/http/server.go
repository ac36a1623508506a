package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/ports"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBody caps request bodies; worlds are small.
const maxBody = 1 << 20

// Engine is the part of *walker.Engine the server drives.
type Engine interface {
	programs.Machine
	Invoke(a domain.Action) error
	World() *domain.Grid
	Text() string
	LoadText(text string) error
	NewWorld(width, height int, agent domain.Point, dir domain.Direction) error
	Trace() []domain.TraceEntry
	Cursor() int
	MoveCursorTo(index int) error
	ContinueFromHere()
	Snapshot() walker.Snapshot
}

// Server exposes one engine over HTTP. The engine is single-owner, so every
// request touching it holds mu.
type Server struct {
	mu       sync.Mutex
	Engine   Engine
	Store    ports.WorldStore
	Programs *programs.Registry
	Streams  *StreamManager
	gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithStore enables the /worlds endpoints.
func WithStore(store ports.WorldStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithPrograms replaces the default program registry.
func WithPrograms(r *programs.Registry) Option {
	return func(s *Server) {
		s.Programs = r
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Programs: programs.Default(),
		Streams:  NewStreamManager(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Get("/world", server.GetWorld)
	r.Put("/world", server.PutWorld)
	r.Post("/world/new", server.NewWorld)
	r.Post("/actions/{kind}", server.Act)
	r.Post("/debug", server.Debug)

	r.Get("/trace", server.GetTrace)
	r.Post("/trace/cursor", server.MoveCursor)
	r.Post("/trace/continue", server.Continue)

	r.Get("/programs", server.ListPrograms)
	r.Post("/programs/{name}/run", server.RunProgram)

	r.Route("/worlds", func(r chi.Router) {
		r.Get("/", server.ListWorlds)
		r.Put("/{name}", server.SaveWorld)
		r.Post("/{name}/load", server.LoadWorld)
		r.Delete("/{name}", server.DeleteWorld)
	})

	r.Get("/events", server.SubscribeEvents)

	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// mutate runs fn under the lock and broadcasts the resulting diff.
func (s *Server) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.Engine.World()
	err := fn()
	if diff := domain.Diff(before, s.Engine.World()); diff != nil {
		if bytes, jerr := json.Marshal(diff); jerr == nil {
			s.Streams.Broadcast(string(bytes))
		}
	}
	return err
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func statusFor(err error) int {
	var decodeErr *codec.DecodeError
	switch {
	case domain.IsLegalityError(err):
		return http.StatusConflict
	case errors.Is(err, walker.ErrCursorOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWorldNotFound), errors.Is(err, programs.ErrProgramNotFound):
		return http.StatusNotFound
	case errors.As(err, &decodeErr),
		errors.Is(err, codec.ErrBadFormat),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrInvalidDimensions),
		errors.Is(err, domain.ErrInvalidWorldName),
		errors.Is(err, domain.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	var decodeErr *codec.DecodeError
	if errors.As(err, &decodeErr) {
		resp.Line, resp.Column = decodeErr.Line, decodeErr.Column
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	} else {
		slog.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func badRequest(w http.ResponseWriter, err error) {
	slog.Debug("request rejected", "status", http.StatusBadRequest, "error", err)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
