package domain

import (
	"fmt"
	"strings"
)

// Direction is one of the four compass directions.
// The underlying values form the cycle North -> East -> South -> West.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Left is the unit rotation counter-clockwise (-1 mod 4).
func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Right is the unit rotation clockwise (+1 mod 4).
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

// Delta returns the offset of a single step in direction d.
// Rows grow downwards, so North decreases Y.
func (d Direction) Delta() Point {
	switch d {
	case North:
		return Point{X: 0, Y: -1}
	case East:
		return Point{X: 1, Y: 0}
	case South:
		return Point{X: 0, Y: 1}
	case West:
		return Point{X: -1, Y: 0}
	}
	return Point{}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts full names and single letters, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
