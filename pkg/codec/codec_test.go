package codec_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"Unequal line lengths", "xx\nxxx", codec.ErrNonRectangular},
		{"Blank line in the middle", "n.\n\n..", codec.ErrNonRectangular},
		{"Empty input", "", codec.ErrEmptyWorld},
		{"Only a newline", "\n", codec.ErrEmptyWorld},
		{"Two agents", "n.\n.n", codec.ErrMultipleAgents},
		{"Agents with and without marker", "nS", codec.ErrMultipleAgents},
		{"No agent", "..\n.o", codec.ErrMultipleAgents},
		{"Illegal character", "n.\n.#", codec.ErrIllegalCharacter},
		{"Too wide", "n" + strings.Repeat(".", domain.MaxDimension), domain.ErrInvalidDimensions},
		{"Too tall", "n\n" + strings.Repeat(".\n", domain.MaxDimension), domain.ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := codec.Decode(tt.text)
			assert.Nil(t, g)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, codec.ErrBadFormat)

			var decodeErr *codec.DecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}

func TestDecode_ErrorLocation(t *testing.T) {
	_, err := codec.Decode("n..\n.x?\n...")
	var decodeErr *codec.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 2, decodeErr.Line)
	assert.Equal(t, 3, decodeErr.Column)
	assert.Contains(t, err.Error(), "line 2, column 3")
}

func TestDecode_Simple(t *testing.T) {
	g, err := codec.Decode("n.\n..")
	require.NoError(t, err)

	w, h := g.InnerSize()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, domain.Pt(1, 1), g.AgentPos(), "interior (0,0) sits at (1,1) inside the ring")
	assert.Equal(t, domain.North, g.AgentDir())
	assert.True(t, g.FacingWall())
}

func TestDecode_Glyphs(t *testing.T) {
	g, err := codec.Decode("xo.\r\n.W.\r\n")
	require.NoError(t, err)

	assert.Equal(t, domain.Wall, g.CellAt(domain.Pt(1, 1)))
	assert.Equal(t, domain.Marked, g.CellAt(domain.Pt(2, 1)))
	assert.Equal(t, domain.Empty, g.CellAt(domain.Pt(3, 1)))
	assert.Equal(t, domain.Pt(2, 2), g.AgentPos())
	assert.Equal(t, domain.West, g.AgentDir())
	assert.True(t, g.OnMarker())
	assert.Equal(t, domain.Wall, g.CellAt(domain.Pt(0, 0)))
	assert.Equal(t, domain.Wall, g.CellAt(domain.Pt(4, 3)))
}

func TestEncode(t *testing.T) {
	g, err := domain.NewGrid(3, 2, domain.Pt(2, 2), domain.South)
	require.NoError(t, err)
	require.NoError(t, g.SetCell(domain.Pt(1, 1), domain.Wall))
	require.NoError(t, g.SetCell(domain.Pt(3, 1), domain.Marked))
	require.NoError(t, g.PutMarker())

	assert.Equal(t, "x.o\n.S.\n", codec.Encode(g))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cells := []domain.Cell{domain.Empty, domain.Marked, domain.Wall}

	for i := 0; i < 100; i++ {
		w, h := 1+rng.Intn(8), 1+rng.Intn(8)
		agent := domain.Pt(1+rng.Intn(w), 1+rng.Intn(h))
		g, err := domain.NewGrid(w, h, agent, domain.Direction(rng.Intn(4)))
		require.NoError(t, err)
		for y := 1; y <= h; y++ {
			for x := 1; x <= w; x++ {
				c := cells[rng.Intn(len(cells))]
				if domain.Pt(x, y) == agent && c == domain.Wall {
					continue
				}
				require.NoError(t, g.SetCell(domain.Pt(x, y), c))
			}
		}

		decoded, err := codec.Decode(codec.Encode(g))
		require.NoError(t, err)
		assert.True(t, decoded.Equal(g), "round trip %d:\n%s", i, codec.Encode(g))
	}
}

func TestDecodeFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := codec.DecodeFile(fs, "worlds/missing.txt")
	assert.ErrorIs(t, err, codec.ErrFileNotFound)

	g := domain.NewDefaultGrid()
	require.NoError(t, g.PutMarker())
	require.NoError(t, codec.EncodeFile(fs, "worlds/default.txt", g))

	loaded, err := codec.DecodeFile(fs, "worlds/default.txt")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(g))

	require.NoError(t, afero.WriteFile(fs, "worlds/bad.txt", []byte("n..\n.."), 0o644))
	_, err = codec.DecodeFile(fs, "worlds/bad.txt")
	assert.ErrorIs(t, err, codec.ErrNonRectangular)
	assert.Contains(t, err.Error(), "worlds/bad.txt")
}

func TestParseGlyph(t *testing.T) {
	for _, dir := range []domain.Direction{domain.North, domain.East, domain.South, domain.West} {
		for _, c := range []domain.Cell{domain.Empty, domain.Marked} {
			cell, agent, gotDir, ok := codec.ParseGlyph(codec.AgentGlyph(dir, c))
			require.True(t, ok)
			assert.True(t, agent)
			assert.Equal(t, dir, gotDir)
			assert.Equal(t, c, cell)
		}
	}
	_, _, _, ok := codec.ParseGlyph('?')
	assert.False(t, ok)
}
