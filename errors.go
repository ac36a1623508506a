package walker

import (
	"errors"

	"github.com/aretw0/walker/internal/runtime"
)

// ErrCursorOutOfRange is returned by MoveCursorTo for an index outside the trace.
var ErrCursorOutOfRange = runtime.ErrCursorOutOfRange

// FaultError is the panic value raised when replaying the trace meets an
// action that can no longer be applied. It signals a bug, not a user error.
type FaultError = runtime.FaultError

// ErrNoWorld is returned by New when WithWorld is given a nil grid.
var ErrNoWorld = errors.New("walker: nil world")
