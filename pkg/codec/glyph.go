package codec

import "github.com/aretw0/walker/pkg/domain"

// Glyphs of the text encoding.
const (
	GlyphEmpty  = '.'
	GlyphMarker = 'o'
	GlyphWall   = 'x'

	GlyphNorth = 'n'
	GlyphEast  = 'e'
	GlyphSouth = 's'
	GlyphWest  = 'w'

	GlyphNorthMarker = 'N'
	GlyphEastMarker  = 'E'
	GlyphSouthMarker = 'S'
	GlyphWestMarker  = 'W'
)

// CellGlyph returns the glyph of a cell without the agent.
func CellGlyph(c domain.Cell) rune {
	switch c {
	case domain.Empty:
		return GlyphEmpty
	case domain.Marked:
		return GlyphMarker
	}
	return GlyphWall
}

// AgentGlyph returns the glyph of the agent facing dir on a cell holding c.
// The agent never stands on a wall; any cell other than Marked encodes as empty.
func AgentGlyph(dir domain.Direction, c domain.Cell) rune {
	if c == domain.Marked {
		switch dir {
		case domain.North:
			return GlyphNorthMarker
		case domain.East:
			return GlyphEastMarker
		case domain.South:
			return GlyphSouthMarker
		}
		return GlyphWestMarker
	}
	switch dir {
	case domain.North:
		return GlyphNorth
	case domain.East:
		return GlyphEast
	case domain.South:
		return GlyphSouth
	}
	return GlyphWest
}

// glyph is the decoded meaning of a single character.
type glyph struct {
	cell  domain.Cell
	agent bool
	dir   domain.Direction
}

// ParseGlyph decodes r. ok is false for characters outside the encoding.
func ParseGlyph(r rune) (cell domain.Cell, agent bool, dir domain.Direction, ok bool) {
	g, ok := parseGlyph(r)
	return g.cell, g.agent, g.dir, ok
}

func parseGlyph(r rune) (glyph, bool) {
	switch r {
	case GlyphEmpty:
		return glyph{cell: domain.Empty}, true
	case GlyphMarker:
		return glyph{cell: domain.Marked}, true
	case GlyphWall:
		return glyph{cell: domain.Wall}, true
	case GlyphNorth:
		return glyph{cell: domain.Empty, agent: true, dir: domain.North}, true
	case GlyphEast:
		return glyph{cell: domain.Empty, agent: true, dir: domain.East}, true
	case GlyphSouth:
		return glyph{cell: domain.Empty, agent: true, dir: domain.South}, true
	case GlyphWest:
		return glyph{cell: domain.Empty, agent: true, dir: domain.West}, true
	case GlyphNorthMarker:
		return glyph{cell: domain.Marked, agent: true, dir: domain.North}, true
	case GlyphEastMarker:
		return glyph{cell: domain.Marked, agent: true, dir: domain.East}, true
	case GlyphSouthMarker:
		return glyph{cell: domain.Marked, agent: true, dir: domain.South}, true
	case GlyphWestMarker:
		return glyph{cell: domain.Marked, agent: true, dir: domain.West}, true
	}
	return glyph{}, false
}
