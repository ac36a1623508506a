package codec

import (
	"errors"
	"fmt"
)

// ErrBadFormat is the parent of every decode error.
var ErrBadFormat = errors.New("bad world format")

// Decode errors. Each one also matches ErrBadFormat with errors.Is.
var (
	ErrFileNotFound     = fmt.Errorf("%w: file not found", ErrBadFormat)
	ErrIllegalCharacter = fmt.Errorf("%w: illegal character", ErrBadFormat)
	ErrNonRectangular   = fmt.Errorf("%w: non rectangular world", ErrBadFormat)
	ErrEmptyWorld       = fmt.Errorf("%w: empty world", ErrBadFormat)
	ErrMultipleAgents   = fmt.Errorf("%w: world must contain exactly one agent", ErrBadFormat)
)

// DecodeError locates a decode failure. Line and Column are 1-based; zero means unknown.
type DecodeError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *DecodeError) Error() string {
	prefix := "decode world"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s: line %d, column %d: %v", prefix, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d: %v", prefix, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
