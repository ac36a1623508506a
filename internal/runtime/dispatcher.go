package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/walker/pkg/domain"
)

// Dispatcher is the single entry point for instructions.
//
// Every instruction runs against the grid first and is recorded in the trace only
// if it succeeded, so the trace never holds an action that did not happen and a
// failed action leaves both grid and trace untouched.
type Dispatcher struct {
	grid   *domain.Grid
	trace  *Trace
	hooks  domain.ActionHooks
	logger *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithActionHooks registers observers for executed and rejected actions.
func WithActionHooks(h domain.ActionHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = h
	}
}

// NewDispatcher wires a dispatcher to the grid and trace it operates on.
// The trace must replay onto the same grid.
func NewDispatcher(grid *domain.Grid, trace *Trace, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		grid:   grid,
		trace:  trace,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Grid returns the live grid. Mutating it directly bypasses the trace.
func (d *Dispatcher) Grid() *domain.Grid {
	return d.grid
}

// Trace returns the execution trace.
func (d *Dispatcher) Trace() *Trace {
	return d.trace
}

// Invoke executes a mutating action and records it.
// Trace-only kinds are recorded without touching the grid.
func (d *Dispatcher) Invoke(a domain.Action) error {
	if err := a.Apply(d.grid); err != nil {
		d.logger.Debug("action rejected", "kind", a.Kind, "error", err)
		if d.hooks.OnRejected != nil {
			d.hooks.OnRejected(a, err)
		}
		return err
	}
	d.record(a)
	d.logger.Debug("action executed", "kind", a.Kind, "pos", d.grid.AgentPos(), "dir", d.grid.AgentDir())
	if d.hooks.OnExecuted != nil {
		d.hooks.OnExecuted(a)
	}
	return nil
}

// record appends an already executed action, dropping the abandoned future first.
func (d *Dispatcher) record(a domain.Action) {
	d.trace.TruncateAfterCursor()
	if err := d.trace.Append(domain.NewEntry(a)); err != nil {
		// TruncateAfterCursor leaves the cursor at the tail.
		panic(&FaultError{Index: d.trace.Len(), Action: a, Err: err})
	}
}

// TurnLeft never fails.
func (d *Dispatcher) TurnLeft() error {
	return d.Invoke(domain.TurnLeftAction())
}

// TurnRight never fails.
func (d *Dispatcher) TurnRight() error {
	return d.Invoke(domain.TurnRightAction())
}

// Step fails with domain.ErrBlockedByWall when facing a wall.
func (d *Dispatcher) Step() error {
	return d.Invoke(domain.StepAction())
}

// PutMarker fails with domain.ErrAlreadyMarked unless the agent's cell is empty.
func (d *Dispatcher) PutMarker() error {
	return d.Invoke(domain.PutMarkerAction())
}

// GetMarker fails with domain.ErrNoMarkerHere unless the agent stands on a marker.
func (d *Dispatcher) GetMarker() error {
	return d.Invoke(domain.GetMarkerAction())
}

// FacingWall answers the query and records it.
func (d *Dispatcher) FacingWall() bool {
	ok := d.grid.FacingWall()
	d.query(fmt.Sprintf("facing wall? %t", ok))
	return ok
}

// OnMarker answers the query and records it.
func (d *Dispatcher) OnMarker() bool {
	ok := d.grid.OnMarker()
	d.query(fmt.Sprintf("on marker? %t", ok))
	return ok
}

func (d *Dispatcher) query(text string) {
	d.record(domain.QueryAction(text))
}

// Debug records a free text message.
func (d *Dispatcher) Debug(msg string) {
	d.record(domain.MessageAction(msg))
}

// RecordError records a failure so it shows up in the trace.
func (d *Dispatcher) RecordError(err error) {
	if err == nil {
		return
	}
	d.record(domain.ErrorAction(err.Error()))
}

// MoveCursorTo scrubs the trace, replaying or reversing entries.
func (d *Dispatcher) MoveCursorTo(index int) error {
	return d.trace.MoveCursorTo(index)
}

// Back moves the cursor n entries towards the start, stopping at the sentinel.
func (d *Dispatcher) Back(n int) error {
	if n >= d.trace.Cursor() {
		return d.trace.MoveCursorTo(0)
	}
	return d.trace.MoveCursorTo(d.trace.Cursor() - n)
}

// Forward moves the cursor n entries towards the tail, stopping at the last entry.
func (d *Dispatcher) Forward(n int) error {
	last := d.trace.Len() - 1
	if n >= last-d.trace.Cursor() {
		return d.trace.MoveCursorTo(last)
	}
	return d.trace.MoveCursorTo(d.trace.Cursor() + n)
}

// ContinueFromHere drops every entry after the cursor.
func (d *Dispatcher) ContinueFromHere() {
	d.trace.TruncateAfterCursor()
}

// LoadWorld replaces the world wholesale and discards the trace.
func (d *Dispatcher) LoadWorld(g *domain.Grid) {
	d.grid.Replace(g)
	d.trace.Reset()
	w, h := g.InnerSize()
	d.logger.Debug("world loaded", "width", w, "height", h, "agent", g.AgentPos())
}

// NewWorld replaces the world with an empty one of the given interior size and
// discards the trace. On error nothing changes.
func (d *Dispatcher) NewWorld(width, height int, agent domain.Point, dir domain.Direction) error {
	if err := d.grid.Reset(width, height, agent, dir); err != nil {
		return err
	}
	d.trace.Reset()
	d.logger.Debug("new world", "width", width, "height", height, "agent", agent)
	return nil
}

// EditCell changes a cell outside the instruction set, as a world editor does.
// Recorded inverses are only valid against the unedited world, so the trace is discarded.
func (d *Dispatcher) EditCell(p domain.Point, c domain.Cell) error {
	if err := d.grid.SetCell(p, c); err != nil {
		return err
	}
	d.trace.Reset()
	return nil
}

// PlaceAgent moves the agent outside the instruction set and discards the trace.
func (d *Dispatcher) PlaceAgent(p domain.Point, dir domain.Direction) error {
	if err := d.grid.SetAgent(p, dir); err != nil {
		return err
	}
	d.trace.Reset()
	return nil
}

// Suppress runs batch with grid notifications switched off and always switches
// them back on, which lets observers resynchronize once.
func (d *Dispatcher) Suppress(batch func() error) error {
	d.grid.SetEmitUpdates(false)
	defer d.grid.SetEmitUpdates(true)
	return batch()
}
