package domain

import "fmt"

// Default interior size and agent placement of a fresh world.
const (
	DefaultWidth  = 15
	DefaultHeight = 10
)

// MaxDimension bounds each side of a grid interior.
const MaxDimension = 1024

// DefaultAgent is the inner point a fresh world places the agent on.
var DefaultAgent = Point{X: 1, Y: 1}

// Grid is the world the walker operates in.
//
// Coordinates span [0, Width) x [0, Height) and include a ring of walls, so the
// interior is (Width-2) x (Height-2). The agent always stands on an inner point
// that is Empty or Marked.
//
// A Grid is single-owner and not safe for concurrent use.
type Grid struct {
	cells  []Cell
	width  int
	height int
	agent  Point
	dir    Direction

	hooks GridHooks
	quiet bool
}

// NewGrid creates an empty world with an interior of width x height cells,
// surrounded by walls. agent is given in ring-inclusive coordinates.
func NewGrid(width, height int, agent Point, dir Direction) (*Grid, error) {
	g := &Grid{}
	if err := g.Reset(width, height, agent, dir); err != nil {
		return nil, err
	}
	return g, nil
}

// NewDefaultGrid creates the default 15x10 world with the agent in the north-west corner facing east.
func NewDefaultGrid() *Grid {
	g, _ := NewGrid(DefaultWidth, DefaultHeight, DefaultAgent, East)
	return g
}

// Reset discards all contents and makes an empty world of the given interior size.
// Hooks and the update switch are kept. On error the grid is left untouched.
func (g *Grid) Reset(width, height int, agent Point, dir Direction) error {
	if err := CheckDimensions(width, height); err != nil {
		return err
	}
	if !dir.Valid() {
		return fmt.Errorf("invalid direction %d", int(dir))
	}
	w, h := width+2, height+2
	if agent.X <= 0 || agent.Y <= 0 || agent.X >= w-1 || agent.Y >= h-1 {
		return fmt.Errorf("%w: agent at %v is not an inner point", ErrInvalidTarget, agent)
	}

	cells := make([]Cell, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				cells[y*w+x] = Wall
			} else {
				cells[y*w+x] = Empty
			}
		}
	}

	g.cells = cells
	g.width, g.height = w, h
	g.agent, g.dir = agent, dir
	g.emitWorldLoaded()
	return nil
}

// CheckDimensions reports whether width x height is an acceptable interior size.
func CheckDimensions(width, height int) error {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// Replace copies the contents of other into g, keeping g's hooks.
// It is the "load" path: observers see a single world-loaded notification.
func (g *Grid) Replace(other *Grid) {
	g.cells = append([]Cell(nil), other.cells...)
	g.width, g.height = other.width, other.height
	g.agent, g.dir = other.agent, other.dir
	g.emitWorldLoaded()
}

// Clone returns a detached copy without hooks.
func (g *Grid) Clone() *Grid {
	return &Grid{
		cells:  append([]Cell(nil), g.cells...),
		width:  g.width,
		height: g.height,
		agent:  g.agent,
		dir:    g.dir,
	}
}

// Equal reports whether both grids have identical cells, agent position and direction.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height ||
		g.agent != other.agent || g.dir != other.dir {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// SetHooks installs the observer callbacks.
func (g *Grid) SetHooks(h GridHooks) {
	g.hooks = h
}

// SetEmitUpdates switches change notifications on or off.
// Turning them back on fires OnUpdatesResumed so observers can resynchronize once.
func (g *Grid) SetEmitUpdates(on bool) {
	g.quiet = !on
	if on && g.hooks.OnUpdatesResumed != nil {
		g.hooks.OnUpdatesResumed()
	}
}

// EmitsUpdates reports whether change notifications are currently delivered.
func (g *Grid) EmitsUpdates() bool {
	return !g.quiet
}

// Width includes the wall ring.
func (g *Grid) Width() int { return g.width }

// Height includes the wall ring.
func (g *Grid) Height() int { return g.height }

// InnerSize returns the interior dimensions.
func (g *Grid) InnerSize() (int, int) {
	return g.width - 2, g.height - 2
}

// IsInnerPoint reports whether p lies strictly inside the wall ring.
func (g *Grid) IsInnerPoint(p Point) bool {
	return 0 < p.Y && p.Y < g.height-1 && 0 < p.X && p.X < g.width-1
}

func (g *Grid) inBounds(p Point) bool {
	return 0 <= p.X && p.X < g.width && 0 <= p.Y && p.Y < g.height
}

// CellAt returns the content at p. Points outside the grid read as Wall.
func (g *Grid) CellAt(p Point) Cell {
	if !g.inBounds(p) {
		return Wall
	}
	return g.cells[p.Y*g.width+p.X]
}

// SetCell overwrites the content at p.
// p must be an inner point, and p cannot become a wall while the agent stands on it.
func (g *Grid) SetCell(p Point, c Cell) error {
	if !g.IsInnerPoint(p) {
		return fmt.Errorf("%w: %v is not an inner point", ErrInvalidTarget, p)
	}
	if c == Wall && p == g.agent {
		return fmt.Errorf("%w: agent stands on %v", ErrInvalidTarget, p)
	}
	g.set(p, c)
	return nil
}

func (g *Grid) set(p Point, c Cell) {
	g.cells[p.Y*g.width+p.X] = c
	if !g.quiet && g.hooks.OnCellChanged != nil {
		g.hooks.OnCellChanged(p)
	}
}

// SetAgent places the agent on p facing dir. p must be a non-wall inner point.
func (g *Grid) SetAgent(p Point, dir Direction) error {
	if !g.IsInnerPoint(p) {
		return fmt.Errorf("%w: %v is not an inner point", ErrInvalidTarget, p)
	}
	if g.CellAt(p) == Wall {
		return fmt.Errorf("%w: %v is a wall", ErrInvalidTarget, p)
	}
	if !dir.Valid() {
		return fmt.Errorf("invalid direction %d", int(dir))
	}
	g.moveAgent(p, dir)
	return nil
}

func (g *Grid) moveAgent(p Point, dir Direction) {
	old := g.agent
	g.agent, g.dir = p, dir
	if !g.quiet && g.hooks.OnAgentMoved != nil {
		g.hooks.OnAgentMoved(old, p, dir)
	}
}

// AgentPos returns the agent's position.
func (g *Grid) AgentPos() Point { return g.agent }

// AgentDir returns the direction the agent faces.
func (g *Grid) AgentDir() Direction { return g.dir }

// AgentCell returns the content of the agent's cell.
func (g *Grid) AgentCell() Cell { return g.CellAt(g.agent) }

// FacingWall reports whether the cell ahead of the agent is a wall.
func (g *Grid) FacingWall() bool {
	return g.CellAt(g.agent.Add(g.dir.Delta())) == Wall
}

// OnMarker reports whether the agent stands on a marker.
func (g *Grid) OnMarker() bool {
	return g.AgentCell() == Marked
}

// TurnLeft rotates the agent counter-clockwise.
func (g *Grid) TurnLeft() {
	g.moveAgent(g.agent, g.dir.Left())
}

// TurnRight rotates the agent clockwise.
func (g *Grid) TurnRight() {
	g.moveAgent(g.agent, g.dir.Right())
}

// Step moves the agent one cell forward.
func (g *Grid) Step() error {
	if g.FacingWall() {
		return &ActionError{Kind: KindStep, Err: ErrBlockedByWall}
	}
	g.moveAgent(g.agent.Add(g.dir.Delta()), g.dir)
	return nil
}

// StepBack moves the agent one cell backwards without turning.
// It undoes Step and is not part of the instruction set offered to programs.
func (g *Grid) StepBack() error {
	behind := g.agent.Sub(g.dir.Delta())
	if g.CellAt(behind) == Wall {
		return &ActionError{Kind: KindStepBack, Err: ErrBlockedByWall}
	}
	g.moveAgent(behind, g.dir)
	return nil
}

// PutMarker drops a marker on the agent's cell, which must be empty.
func (g *Grid) PutMarker() error {
	if g.AgentCell() != Empty {
		return &ActionError{Kind: KindPutMarker, Err: ErrAlreadyMarked}
	}
	g.set(g.agent, Marked)
	return nil
}

// GetMarker picks up the marker on the agent's cell.
func (g *Grid) GetMarker() error {
	if g.AgentCell() != Marked {
		return &ActionError{Kind: KindGetMarker, Err: ErrNoMarkerHere}
	}
	g.set(g.agent, Empty)
	return nil
}

// CountMarkers returns the number of marked cells.
func (g *Grid) CountMarkers() int {
	n := 0
	for _, c := range g.cells {
		if c == Marked {
			n++
		}
	}
	return n
}

func (g *Grid) emitWorldLoaded() {
	if !g.quiet && g.hooks.OnWorldLoaded != nil {
		g.hooks.OnWorldLoaded()
	}
}
