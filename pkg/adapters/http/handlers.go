package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/go-chi/chi/v5"
)

// errNoStore is returned by the /worlds endpoints when no store is configured.
var errNoStore = errors.New("no world store configured")

// actions maps URL kinds onto mutating instructions.
var actions = map[string]func() domain.Action{
	"turn-left":  domain.TurnLeftAction,
	"turn-right": domain.TurnRightAction,
	"step":       domain.StepAction,
	"put-marker": domain.PutMarkerAction,
	"get-marker": domain.GetMarkerAction,
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "walker-http",
		"version": strings.TrimSpace(walker.Version),
	})
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	s.mu.Lock()
	snap := s.Engine.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// GetWorld handles the GET /world request.
func (s *Server) GetWorld(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w)
}

// WorldRequest carries an encoded world.
type WorldRequest struct {
	World string `json:"world"`
}

// PutWorld handles the PUT /world request. The body is either the encoded
// world as text or a JSON WorldRequest.
func (s *Server) PutWorld(w http.ResponseWriter, r *http.Request) {
	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body WorldRequest
		if err := decodeBody(w, r, &body); err != nil {
			badRequest(w, err)
			return
		}
		text = body.World
	} else {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			badRequest(w, fmt.Errorf("invalid request body: %w", err))
			return
		}
		text = string(data)
	}

	if err := s.mutate(func() error { return s.Engine.LoadText(text) }); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("world replaced over http")
	s.writeSnapshot(w)
}

// NewWorldRequest describes an empty world. X and Y are interior coordinates.
type NewWorldRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Dir    string `json:"dir"`
}

// NewWorld handles the POST /world/new request.
func (s *Server) NewWorld(w http.ResponseWriter, r *http.Request) {
	var body NewWorldRequest
	if err := decodeBody(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Dir == "" {
		body.Dir = "east"
	}
	dir, err := domain.ParseDirection(body.Dir)
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.mutate(func() error {
		return s.Engine.NewWorld(body.Width, body.Height, domain.Pt(body.X, body.Y), dir)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// QueryResponse answers a sensor query.
type QueryResponse struct {
	Result bool `json:"result"`
}

// Act handles the POST /actions/{kind} request.
func (s *Server) Act(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	switch kind {
	case "facing-wall", "on-marker":
		s.mu.Lock()
		var res bool
		if kind == "facing-wall" {
			res = s.Engine.FacingWall()
		} else {
			res = s.Engine.OnMarker()
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, QueryResponse{Result: res})
		return
	}

	build, ok := actions[kind]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("%v: %q", domain.ErrUnknownAction, kind)})
		return
	}
	if err := s.mutate(func() error { return s.Engine.Invoke(build()) }); err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// DebugRequest carries a trace message.
type DebugRequest struct {
	Message string `json:"message"`
}

// Debug handles the POST /debug request.
func (s *Server) Debug(w http.ResponseWriter, r *http.Request) {
	var body DebugRequest
	if err := decodeBody(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	s.mu.Lock()
	s.Engine.Debug(body.Message)
	s.mu.Unlock()
	s.writeSnapshot(w)
}

// TraceResponse lists the trace and its cursor.
type TraceResponse struct {
	Entries []domain.TraceEntry `json:"entries"`
	Cursor  int                 `json:"cursor"`
}

// GetTrace handles the GET /trace request.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := TraceResponse{Entries: s.Engine.Trace(), Cursor: s.Engine.Cursor()}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// CursorRequest moves the trace cursor.
type CursorRequest struct {
	Index *int `json:"index"`
}

// MoveCursor handles the POST /trace/cursor request.
func (s *Server) MoveCursor(w http.ResponseWriter, r *http.Request) {
	var body CursorRequest
	if err := decodeBody(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Index == nil {
		badRequest(w, errors.New("index is required"))
		return
	}
	if err := s.mutate(func() error { return s.Engine.MoveCursorTo(*body.Index) }); err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// Continue handles the POST /trace/continue request.
func (s *Server) Continue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.Engine.ContinueFromHere()
	s.mu.Unlock()
	s.writeSnapshot(w)
}

// ListPrograms handles the GET /programs request.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"programs": s.Programs.Names()})
}

// RunProgram handles the POST /programs/{name}/run request. The program runs
// to completion with display updates suppressed; subscribers see one diff.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.Programs.Get(name)
	if err != nil {
		writeError(w, err)
		return
	}

	err = s.mutate(func() error {
		return programs.Run(r.Context(), s.Engine, p, programs.WithName(name), programs.WithLogger(slog.Default()))
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// ListWorlds handles the GET /worlds request.
func (s *Server) ListWorlds(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: errNoStore.Error()})
		return
	}
	names, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"worlds": names})
}

// SaveWorld handles the PUT /worlds/{name} request, storing the current world.
func (s *Server) SaveWorld(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: errNoStore.Error()})
		return
	}
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	text := s.Engine.Text()
	s.mu.Unlock()

	if err := s.Store.Save(r.Context(), name, text); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("world stored", "name", name)
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

// LoadWorld handles the POST /worlds/{name}/load request.
func (s *Server) LoadWorld(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: errNoStore.Error()})
		return
	}
	name := chi.URLParam(r, "name")

	text, err := s.Store.Load(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.mutate(func() error { return s.Engine.LoadText(text) }); err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// DeleteWorld handles the DELETE /worlds/{name} request.
func (s *Server) DeleteWorld(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: errNoStore.Error()})
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE). Each event is a
// domain.GridDiff. The optional watch parameter (cells, agent, reload)
// filters events by the parts they touch.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()
	slog.Info("SSE: client subscribed", "watch", watchList)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected")
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

func watched(msg string, watchList []string) bool {
	var diff domain.GridDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "cells":
			if len(diff.Cells) > 0 {
				return true
			}
		case "agent":
			if diff.Agent != nil {
				return true
			}
		case "reload":
			if diff.Reload {
				return true
			}
		}
	}
	return false
}
