package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/walker/pkg/domain"
)

// ErrCursorOutOfRange is returned when a cursor index does not denote a trace entry.
var ErrCursorOutOfRange = errors.New("cursor out of range")

// ErrInvalidRange is returned by ExecuteForward/ReverseBackward for misordered bounds.
var ErrInvalidRange = errors.New("invalid trace range")

// ErrDetachedCursor is returned when appending while the cursor is behind the tail.
// The caller must truncate the abandoned future first.
var ErrDetachedCursor = errors.New("cursor is not at the tail of the trace")

// FaultError reports a broken invariant found while replaying the trace: a recorded
// action (or its inverse) that is no longer legal. It is raised with panic and must
// not be recovered silently.
type FaultError struct {
	Index  int
	Action domain.Action
	Err    error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("trace replay fault at entry %d (%s): %v", e.Index, e.Action.Kind, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
