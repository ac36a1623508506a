package domain

// GridDiff lists what changed between two states of the same world.
// It is designed to be serialized to JSON for partial updates on a client.
type GridDiff struct {
	// Cells holds the new content of every changed cell.
	Cells []CellChange `json:"cells,omitempty"`

	// Agent is set when position or direction changed.
	Agent *AgentState `json:"agent,omitempty"`

	// Reload is set when the dimensions differ and the client must redraw everything.
	Reload bool `json:"reload,omitempty"`
}

// CellChange is a single changed cell.
type CellChange struct {
	Point
	Cell Cell `json:"cell"`
}

// AgentState is the agent's position and direction.
type AgentState struct {
	Pos Point     `json:"pos"`
	Dir Direction `json:"dir"`
}

// Empty reports whether the diff carries no change.
func (d *GridDiff) Empty() bool {
	return d == nil || (len(d.Cells) == 0 && d.Agent == nil && !d.Reload)
}

// Diff calculates the difference between oldGrid and newGrid.
// If oldGrid is nil or has other dimensions, it returns a diff asking for a full reload.
func Diff(oldGrid, newGrid *Grid) *GridDiff {
	if newGrid == nil {
		return nil
	}
	diff := &GridDiff{}
	if oldGrid == nil || oldGrid.width != newGrid.width || oldGrid.height != newGrid.height {
		diff.Reload = true
		diff.Agent = &AgentState{Pos: newGrid.agent, Dir: newGrid.dir}
		return diff
	}

	for i, c := range newGrid.cells {
		if oldGrid.cells[i] != c {
			diff.Cells = append(diff.Cells, CellChange{
				Point: Point{X: i % newGrid.width, Y: i / newGrid.width},
				Cell:  c,
			})
		}
	}

	if oldGrid.agent != newGrid.agent || oldGrid.dir != newGrid.dir {
		diff.Agent = &AgentState{Pos: newGrid.agent, Dir: newGrid.dir}
	}

	if diff.Empty() {
		return nil
	}
	return diff
}
