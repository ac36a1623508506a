package domain

import "fmt"

// Cell is the content of a single grid coordinate.
// A cell holds at most one marker: Marked is a value, not a count.
type Cell int

const (
	Wall Cell = iota
	Empty
	Marked
)

func (c Cell) String() string {
	switch c {
	case Wall:
		return "wall"
	case Empty:
		return "empty"
	case Marked:
		return "marked"
	}
	return fmt.Sprintf("Cell(%d)", int(c))
}

// ParseCell is the inverse of Cell.String.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "wall":
		return Wall, nil
	case "empty":
		return Empty, nil
	case "marked", "marker":
		return Marked, nil
	}
	return Wall, fmt.Errorf("unknown cell %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cell) UnmarshalText(text []byte) error {
	parsed, err := ParseCell(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
