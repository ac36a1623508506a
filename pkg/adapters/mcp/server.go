package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WorldResponse is the flat view of the world returned by every tool.
type WorldResponse struct {
	World       string `json:"world" jsonschema_description:"The world in its text encoding, one row per line"`
	Width       int    `json:"width" jsonschema_description:"Interior width"`
	Height      int    `json:"height" jsonschema_description:"Interior height"`
	X           int    `json:"x" jsonschema_description:"Agent column, 0 is the westmost inner cell"`
	Y           int    `json:"y" jsonschema_description:"Agent row, 0 is the northmost inner cell"`
	Dir         string `json:"dir" jsonschema_description:"Direction the agent faces"`
	Markers     int    `json:"markers" jsonschema_description:"Number of markers in the world"`
	Cursor      int    `json:"cursor" jsonschema_description:"Index of the current trace entry"`
	TraceLength int    `json:"trace_length" jsonschema_description:"Number of trace entries"`
	Result      *bool  `json:"result,omitempty" jsonschema_description:"Answer of a sensor query"`
}

// Engine is the part of *walker.Engine the server drives.
type Engine interface {
	programs.Machine
	Invoke(a domain.Action) error
	LoadText(text string) error
	MoveCursorTo(index int) error
	Trace() []domain.TraceEntry
	Cursor() int
	Snapshot() walker.Snapshot
}

// Server wraps a walker engine and exposes it as an MCP Server.
type Server struct {
	mu        sync.Mutex
	engine    Engine
	programs  *programs.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil registry means programs.Default().
func NewServer(engine Engine, reg *programs.Registry) *Server {
	if reg == nil {
		reg = programs.Default()
	}
	s := &Server{
		engine:    engine,
		programs:  reg,
		mcpServer: server.NewMCPServer("walker-mcp", strings.TrimSpace(walker.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: act
	actTool := mcp.NewTool("act",
		mcp.WithDescription("Execute one instruction. Mutating instructions fail without effect when illegal; sensor queries return a result."),
		mcp.WithString("kind", mcp.Required(),
			mcp.Description("One of turn-left, turn-right, step, put-marker, get-marker, facing-wall, on-marker"),
			mcp.Enum("turn-left", "turn-right", "step", "put-marker", "get-marker", "facing-wall", "on-marker"),
		),
		mcp.WithOutputSchema[WorldResponse](),
	)
	s.mcpServer.AddTool(actTool, mcp.NewStructuredToolHandler(s.handleAct))

	// TOOL: get_world
	s.mcpServer.AddTool(mcp.NewTool("get_world",
		mcp.WithDescription("Describe the current world and trace position."),
		mcp.WithOutputSchema[WorldResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetWorld))

	// TOOL: load_world
	s.mcpServer.AddTool(mcp.NewTool("load_world",
		mcp.WithDescription("Replace the world with an encoded one and clear the trace. Glyphs: . empty, o marker, x wall, n/e/s/w agent, N/E/S/W agent on a marker."),
		mcp.WithString("world", mcp.Required(), mcp.Description("World text, one row per line")),
		mcp.WithOutputSchema[WorldResponse](),
	), mcp.NewStructuredToolHandler(s.handleLoadWorld))

	// TOOL: move_cursor
	s.mcpServer.AddTool(mcp.NewTool("move_cursor",
		mcp.WithDescription("Scrub the execution trace, undoing or redoing recorded instructions."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Target trace entry, 0 is the start")),
		mcp.WithOutputSchema[WorldResponse](),
	), mcp.NewStructuredToolHandler(s.handleMoveCursor))

	// TOOL: run_program
	s.mcpServer.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Run a registered program to completion. The first illegal instruction aborts it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name: "+strings.Join(s.programs.Names(), ", "))),
		mcp.WithOutputSchema[WorldResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunProgram))

	// TOOL: get_trace
	s.mcpServer.AddTool(mcp.NewTool("get_trace",
		mcp.WithDescription("List the execution trace as a markdown table."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		md := tui.TraceMarkdown(s.engine.Trace(), s.engine.Cursor())
		s.mu.Unlock()
		return mcp.NewToolResultText(md), nil
	})
}

func (s *Server) respond() WorldResponse {
	snap := s.engine.Snapshot()
	pos := snap.Agent.Pos.Sub(domain.Pt(1, 1))
	return WorldResponse{
		World:       snap.World,
		Width:       snap.Width,
		Height:      snap.Height,
		X:           pos.X,
		Y:           pos.Y,
		Dir:         snap.Agent.Dir.String(),
		Markers:     snap.Markers,
		Cursor:      snap.Cursor,
		TraceLength: len(snap.Entries),
	}
}

var actions = map[string]func() domain.Action{
	"turn-left":  domain.TurnLeftAction,
	"turn-right": domain.TurnRightAction,
	"step":       domain.StepAction,
	"put-marker": domain.PutMarkerAction,
	"get-marker": domain.GetMarkerAction,
}

func (s *Server) handleAct(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorldResponse, error) {
	kind, _ := args["kind"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case "facing-wall", "on-marker":
		var res bool
		if kind == "facing-wall" {
			res = s.engine.FacingWall()
		} else {
			res = s.engine.OnMarker()
		}
		resp := s.respond()
		resp.Result = &res
		return resp, nil
	}

	build, ok := actions[kind]
	if !ok {
		return WorldResponse{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, kind)
	}
	if err := s.engine.Invoke(build()); err != nil {
		slog.Debug("MCP act rejected", "kind", kind, "error", err)
		return WorldResponse{}, err
	}
	return s.respond(), nil
}

func (s *Server) handleGetWorld(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorldResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respond(), nil
}

func (s *Server) handleLoadWorld(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorldResponse, error) {
	text, _ := args["world"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.LoadText(text); err != nil {
		return WorldResponse{}, err
	}
	return s.respond(), nil
}

func (s *Server) handleMoveCursor(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorldResponse, error) {
	index, ok := args["index"].(float64)
	if !ok || index != float64(int(index)) {
		return WorldResponse{}, fmt.Errorf("index must be an integer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.MoveCursorTo(int(index)); err != nil {
		return WorldResponse{}, err
	}
	return s.respond(), nil
}

func (s *Server) handleRunProgram(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WorldResponse, error) {
	name, _ := args["name"].(string)
	p, err := s.programs.Get(name)
	if err != nil {
		return WorldResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := programs.Run(ctx, s.engine, p, programs.WithName(name), programs.WithLogger(slog.Default())); err != nil {
		return WorldResponse{}, err
	}
	return s.respond(), nil
}

func (s *Server) registerResources() {
	// EXPOSE: walker://world
	s.mcpServer.AddResource(mcp.NewResource("walker://world", "Current World",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		text := s.engine.Snapshot().World
		s.mu.Unlock()
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "walker://world",
				MIMEType: "text/plain",
				Text:     text,
			},
		}, nil
	})

	// EXPOSE: walker://trace
	s.mcpServer.AddResource(mcp.NewResource("walker://trace", "Execution Trace",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		payload := struct {
			Entries []domain.TraceEntry `json:"entries"`
			Cursor  int                 `json:"cursor"`
		}{s.engine.Trace(), s.engine.Cursor()}
		s.mu.Unlock()

		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode trace: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "walker://trace",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
