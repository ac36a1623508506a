package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/walker/pkg/domain"
)

// SentinelText is the display text of entry 0.
const SentinelText = "Start of Program"

// Trace is the ordered log of executed actions with a cursor.
//
// Entry 0 is a sentinel that is never executed or reversed. The cursor is the
// index of the last entry reflected in the grid: entries (0, cursor] have taken
// effect, entries after the cursor are a future that can be replayed.
//
// A Trace is single-owner and not safe for concurrent use.
type Trace struct {
	grid    *domain.Grid
	entries []domain.TraceEntry
	cursor  int
	hooks   domain.TraceHooks
	logger  *slog.Logger
}

// TraceOption configures a Trace.
type TraceOption func(*Trace)

// WithTraceHooks registers observers for appends, cursor moves and truncation.
func WithTraceHooks(h domain.TraceHooks) TraceOption {
	return func(t *Trace) {
		t.hooks = h
	}
}

// WithTraceLogger sets the structured logger.
func WithTraceLogger(logger *slog.Logger) TraceOption {
	return func(t *Trace) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTrace creates a trace that replays onto grid.
func NewTrace(grid *domain.Grid, opts ...TraceOption) *Trace {
	t := &Trace{
		grid:   grid,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.entries = []domain.TraceEntry{sentinel()}
	return t
}

func sentinel() domain.TraceEntry {
	return domain.NewEntry(domain.MessageAction(SentinelText))
}

// SetHooks replaces the observers.
func (t *Trace) SetHooks(h domain.TraceHooks) {
	t.hooks = h
}

// Len returns the number of entries, sentinel included.
func (t *Trace) Len() int {
	return len(t.entries)
}

// Cursor returns the index of the last entry reflected in the grid.
func (t *Trace) Cursor() int {
	return t.cursor
}

// AtTail reports whether the cursor is on the last entry.
func (t *Trace) AtTail() bool {
	return t.cursor == len(t.entries)-1
}

// Entry returns the entry at index i.
func (t *Trace) Entry(i int) (domain.TraceEntry, error) {
	if i < 0 || i >= len(t.entries) {
		return domain.TraceEntry{}, fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, i, len(t.entries))
	}
	return t.entries[i], nil
}

// Entries returns a copy of all entries.
func (t *Trace) Entries() []domain.TraceEntry {
	return append([]domain.TraceEntry(nil), t.entries...)
}

// Append adds an entry for an action the caller has already executed, and
// advances the cursor onto it. The cursor must be at the tail.
func (t *Trace) Append(e domain.TraceEntry) error {
	if !t.AtTail() {
		return fmt.Errorf("%w: cursor %d, length %d", ErrDetachedCursor, t.cursor, len(t.entries))
	}
	t.entries = append(t.entries, e)
	index := len(t.entries) - 1
	t.logger.Debug("trace append", "index", index, "kind", e.Action.Kind)
	if t.hooks.OnAppended != nil {
		t.hooks.OnAppended(index, e)
	}
	t.setCursor(index)
	return nil
}

// ExecuteForward applies the forward effect of entries (from, to], ascending.
func (t *Trace) ExecuteForward(from, to int) error {
	if from >= to {
		return fmt.Errorf("%w: forward requires from < to, got %d..%d", ErrInvalidRange, from, to)
	}
	if from < 0 || to >= len(t.entries) {
		return fmt.Errorf("%w: %d..%d not in [0, %d)", ErrCursorOutOfRange, from, to, len(t.entries))
	}
	for r := from + 1; r <= to; r++ {
		t.replay(r, t.entries[r].Action)
	}
	return nil
}

// ReverseBackward applies the inverse effect of entries (to, from], descending.
func (t *Trace) ReverseBackward(from, to int) error {
	if from < to {
		return fmt.Errorf("%w: reverse requires from >= to, got %d..%d", ErrInvalidRange, from, to)
	}
	if to < 0 || from >= len(t.entries) {
		return fmt.Errorf("%w: %d..%d not in [0, %d)", ErrCursorOutOfRange, from, to, len(t.entries))
	}
	for r := from; r > to; r-- {
		t.replay(r, t.entries[r].Action.Inverse())
	}
	return nil
}

// replay applies a to the grid. Every recorded action was legal when it first ran,
// so a failure here means the model is broken.
func (t *Trace) replay(index int, a domain.Action) {
	if err := a.Apply(t.grid); err != nil {
		fault := &FaultError{Index: index, Action: a, Err: err}
		t.logger.Error("trace replay fault", "index", index, "kind", a.Kind, "error", err)
		panic(fault)
	}
}

// MoveCursorTo re-executes or reverses entries until the grid reflects exactly
// entries (0, index]. Moving to the current cursor is a no-op.
func (t *Trace) MoveCursorTo(index int) error {
	if index < 0 || index >= len(t.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, index, len(t.entries))
	}
	switch {
	case index > t.cursor:
		if err := t.ExecuteForward(t.cursor, index); err != nil {
			return err
		}
	case index < t.cursor:
		if err := t.ReverseBackward(t.cursor, index); err != nil {
			return err
		}
	default:
		return nil
	}
	t.setCursor(index)
	return nil
}

func (t *Trace) setCursor(index int) {
	old := t.cursor
	t.cursor = index
	if old == index {
		return
	}
	t.logger.Debug("trace cursor moved", "from", old, "to", index)
	if t.hooks.OnCursorMoved != nil {
		t.hooks.OnCursorMoved(old, index)
	}
}

// TruncateAfterCursor discards every entry after the cursor. The abandoned
// future is lost for good.
func (t *Trace) TruncateAfterCursor() {
	if t.AtTail() {
		return
	}
	dropped := len(t.entries) - 1 - t.cursor
	t.entries = t.entries[:t.cursor+1:t.cursor+1]
	t.logger.Debug("trace truncated", "dropped", dropped, "length", len(t.entries))
	if t.hooks.OnTruncated != nil {
		t.hooks.OnTruncated(len(t.entries))
	}
}

// Reset clears the trace down to the sentinel without touching the grid.
func (t *Trace) Reset() {
	t.entries = []domain.TraceEntry{sentinel()}
	t.cursor = 0
	if t.hooks.OnReset != nil {
		t.hooks.OnReset()
	}
}
