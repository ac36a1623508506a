package walker

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/walker/internal/runtime"
	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/spf13/afero"
)

// Engine is the high-level entry point for the walker library.
// It owns one world, its execution trace and the dispatcher in front of both.
//
// An Engine is single-owner: it performs no locking and must not be shared
// between goroutines without external synchronization.
type Engine struct {
	grid       *domain.Grid
	trace      *runtime.Trace
	dispatcher *runtime.Dispatcher

	fs          afero.Fs
	logger      *slog.Logger
	gridHooks   domain.GridHooks
	traceHooks  domain.TraceHooks
	actionHooks domain.ActionHooks
	initial     *domain.Grid
	optErr      error

	// Name labels the loaded world, usually the base name of its file.
	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGridHooks registers observers for agent moves, cell changes and world loads.
func WithGridHooks(h domain.GridHooks) Option {
	return func(e *Engine) {
		e.gridHooks = h
	}
}

// WithTraceHooks registers observers for the execution trace.
func WithTraceHooks(h domain.TraceHooks) Option {
	return func(e *Engine) {
		e.traceHooks = h
	}
}

// WithActionHooks registers observers for executed and rejected actions.
func WithActionHooks(h domain.ActionHooks) Option {
	return func(e *Engine) {
		e.actionHooks = h
	}
}

// WithFs sets the filesystem used by LoadFile and SaveFile (default: the OS filesystem).
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithWorld starts the engine on a copy of g instead of the default empty world.
// A nil g makes New fail with ErrNoWorld.
func WithWorld(g *domain.Grid) Option {
	return func(e *Engine) {
		if g == nil {
			e.optErr = ErrNoWorld
			return
		}
		e.initial = g.Clone()
	}
}

// New initializes an Engine on the default 15x10 empty world.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.optErr != nil {
		return nil, eng.optErr
	}

	if eng.fs == nil {
		eng.fs = afero.NewOsFs()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.grid = domain.NewDefaultGrid()
	if eng.initial != nil {
		eng.grid.Replace(eng.initial)
		eng.initial = nil
	}
	eng.grid.SetHooks(eng.gridHooks)

	eng.trace = runtime.NewTrace(eng.grid,
		runtime.WithTraceHooks(eng.traceHooks),
		runtime.WithTraceLogger(eng.logger),
	)
	eng.dispatcher = runtime.NewDispatcher(eng.grid, eng.trace,
		runtime.WithLogger(eng.logger),
		runtime.WithActionHooks(eng.actionHooks),
	)
	return eng, nil
}

// TurnLeft rotates the walker counter-clockwise. It never fails.
func (e *Engine) TurnLeft() error { return e.dispatcher.TurnLeft() }

// TurnRight rotates the walker clockwise. It never fails.
func (e *Engine) TurnRight() error { return e.dispatcher.TurnRight() }

// Step moves the walker one cell forward.
func (e *Engine) Step() error { return e.dispatcher.Step() }

// PutMarker drops a marker on the walker's cell.
func (e *Engine) PutMarker() error { return e.dispatcher.PutMarker() }

// GetMarker picks up the marker on the walker's cell.
func (e *Engine) GetMarker() error { return e.dispatcher.GetMarker() }

// FacingWall reports whether the walker faces a wall.
func (e *Engine) FacingWall() bool { return e.dispatcher.FacingWall() }

// OnMarker reports whether the walker stands on a marker.
func (e *Engine) OnMarker() bool { return e.dispatcher.OnMarker() }

// Debug records a free text message in the trace.
func (e *Engine) Debug(msg string) { e.dispatcher.Debug(msg) }

// RecordError records err in the trace.
func (e *Engine) RecordError(err error) { e.dispatcher.RecordError(err) }

// Invoke executes any action of the instruction set.
func (e *Engine) Invoke(a domain.Action) error { return e.dispatcher.Invoke(a) }

// Suppress runs batch with grid notifications switched off.
func (e *Engine) Suppress(batch func() error) error { return e.dispatcher.Suppress(batch) }

// World returns a detached copy of the current world.
func (e *Engine) World() *domain.Grid {
	return e.grid.Clone()
}

// Text returns the current world in its text encoding.
func (e *Engine) Text() string {
	return codec.Encode(e.grid)
}

// LoadText replaces the world with the decoded text and discards the trace.
// A decode error leaves the current world untouched.
func (e *Engine) LoadText(text string) error {
	g, err := codec.Decode(text)
	if err != nil {
		return err
	}
	e.dispatcher.LoadWorld(g)
	return nil
}

// LoadFile replaces the world with the one stored at path and discards the trace.
// A decode error leaves the current world untouched.
func (e *Engine) LoadFile(path string) error {
	g, err := codec.DecodeFile(e.fs, path)
	if err != nil {
		e.logger.Warn("world load failed", "path", path, "error", err)
		return err
	}
	e.dispatcher.LoadWorld(g)
	e.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	e.logger.Info("world loaded", "path", path)
	return nil
}

// SaveFile writes the current world to path.
func (e *Engine) SaveFile(path string) error {
	if err := codec.EncodeFile(e.fs, path, e.grid); err != nil {
		return err
	}
	e.logger.Info("world saved", "path", path)
	return nil
}

// NewWorld replaces the world with an empty one and discards the trace.
// agent is given in interior coordinates, (0,0) being the north-west inner cell.
func (e *Engine) NewWorld(width, height int, agent domain.Point, dir domain.Direction) error {
	if err := e.dispatcher.NewWorld(width, height, agent.Add(domain.Pt(1, 1)), dir); err != nil {
		return fmt.Errorf("new world: %w", err)
	}
	e.Name = ""
	return nil
}

// EditCell changes a cell as a world editor would, discarding the trace.
func (e *Engine) EditCell(p domain.Point, c domain.Cell) error {
	return e.dispatcher.EditCell(p, c)
}

// PlaceAgent moves the walker as a world editor would, discarding the trace.
func (e *Engine) PlaceAgent(p domain.Point, dir domain.Direction) error {
	return e.dispatcher.PlaceAgent(p, dir)
}

// Trace returns a copy of the recorded entries.
func (e *Engine) Trace() []domain.TraceEntry {
	return e.trace.Entries()
}

// Cursor returns the index of the last trace entry reflected in the world.
func (e *Engine) Cursor() int {
	return e.trace.Cursor()
}

// MoveCursorTo scrubs through the trace.
func (e *Engine) MoveCursorTo(index int) error {
	return e.dispatcher.MoveCursorTo(index)
}

// Back moves the cursor n entries towards the start.
func (e *Engine) Back(n int) error {
	return e.dispatcher.Back(n)
}

// Forward moves the cursor n entries towards the tail.
func (e *Engine) Forward(n int) error {
	return e.dispatcher.Forward(n)
}

// ContinueFromHere drops the trace entries after the cursor.
func (e *Engine) ContinueFromHere() {
	e.dispatcher.ContinueFromHere()
}

// Snapshot is a read-only view of the engine, shaped for JSON.
type Snapshot struct {
	Name    string              `json:"name,omitempty"`
	World   string              `json:"world"`
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Agent   domain.AgentState   `json:"agent"`
	Markers int                 `json:"markers"`
	Entries []domain.TraceEntry `json:"entries"`
	Cursor  int                 `json:"cursor"`
}

// Snapshot captures the current world and trace.
func (e *Engine) Snapshot() Snapshot {
	w, h := e.grid.InnerSize()
	return Snapshot{
		Name:    e.Name,
		World:   e.Text(),
		Width:   w,
		Height:  h,
		Agent:   domain.AgentState{Pos: e.grid.AgentPos(), Dir: e.grid.AgentDir()},
		Markers: e.grid.CountMarkers(),
		Entries: e.trace.Entries(),
		Cursor:  e.trace.Cursor(),
	}
}
