package domain

import (
	"errors"
	"fmt"
)

// Action legality errors. A failed action leaves the grid untouched.
var (
	// ErrBlockedByWall is returned when a step or back step would enter a wall.
	ErrBlockedByWall = errors.New("blocked by wall")

	// ErrAlreadyMarked is returned when putting a marker on a cell that is not empty.
	ErrAlreadyMarked = errors.New("cell already holds a marker")

	// ErrNoMarkerHere is returned when taking a marker from a cell without one.
	ErrNoMarkerHere = errors.New("no marker on this cell")
)

// ErrInvalidTarget is returned by direct field edits on the wall ring, or when
// walling in the cell the agent occupies.
var ErrInvalidTarget = errors.New("invalid target cell")

// ErrInvalidDimensions is returned when a grid interior is empty or wider or taller than MaxDimension.
var ErrInvalidDimensions = errors.New("grid interior must be between 1x1 and 1024x1024")

// ErrUnknownAction is returned when an action kind is not part of the instruction set.
var ErrUnknownAction = errors.New("unknown action kind")

// ActionError reports which instruction failed and why.
type ActionError struct {
	Kind ActionKind
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// IsLegalityError reports whether err is one of the action legality errors.
func IsLegalityError(err error) bool {
	return errors.Is(err, ErrBlockedByWall) ||
		errors.Is(err, ErrAlreadyMarked) ||
		errors.Is(err, ErrNoMarkerHere)
}
