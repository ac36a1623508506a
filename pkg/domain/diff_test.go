package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	base := NewDefaultGrid()

	moved := base.Clone()
	require.NoError(t, moved.Step())

	marked := base.Clone()
	require.NoError(t, marked.PutMarker())

	resized, err := NewGrid(3, 3, DefaultAgent, East)
	require.NoError(t, err)

	tests := []struct {
		name      string
		old, new  *Grid
		wantNil   bool
		wantCells []CellChange
		wantAgent *AgentState
		reload    bool
	}{
		{
			name:    "No Changes",
			old:     base,
			new:     base.Clone(),
			wantNil: true,
		},
		{
			name:      "Agent Moved",
			old:       base,
			new:       moved,
			wantAgent: &AgentState{Pos: Pt(2, 1), Dir: East},
		},
		{
			name:      "Cell Changed",
			old:       base,
			new:       marked,
			wantCells: []CellChange{{Point: Pt(1, 1), Cell: Marked}},
		},
		{
			name:      "Initial Load (Old is Nil)",
			old:       nil,
			new:       base,
			reload:    true,
			wantAgent: &AgentState{Pos: DefaultAgent, Dir: East},
		},
		{
			name:      "Resized",
			old:       base,
			new:       resized,
			reload:    true,
			wantAgent: &AgentState{Pos: DefaultAgent, Dir: East},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.reload, got.Reload)
			assert.Equal(t, tt.wantCells, got.Cells)
			assert.Equal(t, tt.wantAgent, got.Agent)
		})
	}
}

func TestDiff_JSON(t *testing.T) {
	g := NewDefaultGrid()
	next := g.Clone()
	next.TurnLeft()

	data, err := json.Marshal(Diff(g, next))
	require.NoError(t, err)
	assert.JSONEq(t, `{"agent":{"pos":{"x":1,"y":1},"dir":"north"}}`, string(data))
}
