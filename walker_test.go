package walker_test

import (
	"testing"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_LoadSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "worlds/room.txt", []byte("e.o\n..x\n"), 0o644))

	eng, err := walker.New(walker.WithFs(fs))
	require.NoError(t, err)

	require.NoError(t, eng.LoadFile("worlds/room.txt"))
	assert.Equal(t, "room", eng.Name)

	require.NoError(t, eng.Step())
	require.NoError(t, eng.Step())
	require.NoError(t, eng.GetMarker())
	assert.Equal(t, "..e\n..x\n", eng.Text())

	require.NoError(t, eng.SaveFile("out/room.txt"))
	saved, err := afero.ReadFile(fs, "out/room.txt")
	require.NoError(t, err)
	assert.Equal(t, "..e\n..x\n", string(saved))
}

func TestFacade_DecodeFailureKeepsWorld(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.txt", []byte("n.\n..."), 0o644))

	eng, err := walker.New(walker.WithFs(fs))
	require.NoError(t, err)
	require.NoError(t, eng.Step())
	before := eng.Snapshot()

	assert.ErrorIs(t, eng.LoadFile("bad.txt"), codec.ErrNonRectangular)
	assert.ErrorIs(t, eng.LoadFile("missing.txt"), codec.ErrFileNotFound)
	assert.ErrorIs(t, eng.LoadText("n#"), codec.ErrIllegalCharacter)

	assert.Equal(t, before, eng.Snapshot(), "decode failures must not touch world or trace")
}

func TestFacade_Hooks(t *testing.T) {
	var moved, cells, loaded int
	var cursor []int

	eng, err := walker.New(
		walker.WithGridHooks(domain.GridHooks{
			OnAgentMoved:  func(old, new domain.Point, dir domain.Direction) { moved++ },
			OnCellChanged: func(domain.Point) { cells++ },
			OnWorldLoaded: func() { loaded++ },
		}),
		walker.WithTraceHooks(domain.TraceHooks{
			OnCursorMoved: func(old, new int) { cursor = append(cursor, new) },
		}),
	)
	require.NoError(t, err)

	require.NoError(t, eng.Step())
	require.NoError(t, eng.PutMarker())
	require.NoError(t, eng.MoveCursorTo(0))

	assert.Equal(t, 2, moved, "step and its reversal")
	assert.Equal(t, 2, cells, "put and its reversal")
	assert.Equal(t, []int{1, 2, 0}, cursor)

	require.NoError(t, eng.LoadText("s"))
	assert.Equal(t, 1, loaded)
}

func TestFacade_WithWorld(t *testing.T) {
	g, err := codec.Decode("..\n.N\n")
	require.NoError(t, err)

	eng, err := walker.New(walker.WithWorld(g))
	require.NoError(t, err)
	assert.True(t, eng.OnMarker())

	snap := eng.Snapshot()
	assert.Equal(t, 2, snap.Width)
	assert.Equal(t, 2, snap.Height)
	assert.Equal(t, 1, snap.Markers)
	assert.Equal(t, domain.AgentState{Pos: domain.Pt(2, 2), Dir: domain.North}, snap.Agent)
	assert.Equal(t, 2, len(snap.Entries))
	assert.Equal(t, 1, snap.Cursor)
}

func TestFacade_WithNilWorld(t *testing.T) {
	eng, err := walker.New(walker.WithWorld(nil))
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, walker.ErrNoWorld)
}

func TestFacade_NewWorld(t *testing.T) {
	eng, err := walker.New()
	require.NoError(t, err)
	require.NoError(t, eng.Step())

	require.Error(t, eng.NewWorld(2, 2, domain.Pt(2, 0), domain.East))
	assert.Len(t, eng.Trace(), 2)

	require.NoError(t, eng.NewWorld(2, 2, domain.Pt(1, 1), domain.South))
	assert.Equal(t, "..\n.s\n", eng.Text())
	assert.Len(t, eng.Trace(), 1)
}
