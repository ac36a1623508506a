package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/walker/pkg/codec"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/muesli/termenv"
)

var agentArrows = map[domain.Direction]rune{
	domain.North: '^',
	domain.East:  '>',
	domain.South: 'v',
	domain.West:  '<',
}

// RenderGrid draws the whole grid, wall ring included, one character per cell.
// Colors follow the profile; termenv.Ascii yields plain text.
func RenderGrid(p termenv.Profile, g *domain.Grid) string {
	var sb strings.Builder
	agent := g.AgentPos()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			pt := domain.Pt(x, y)
			cell := g.CellAt(pt)
			switch {
			case pt == agent:
				s := p.String(string(agentArrows[g.AgentDir()])).Bold().Foreground(p.Color("#22d3ee"))
				if cell == domain.Marked {
					s = s.Background(p.Color("#854d0e"))
				}
				sb.WriteString(s.String())
			case !g.IsInnerPoint(pt):
				sb.WriteString(p.String("#").Foreground(p.Color("#6b7280")).String())
			case cell == domain.Wall:
				sb.WriteString(p.String(string(codec.GlyphWall)).Foreground(p.Color("#9ca3af")).String())
			case cell == domain.Marked:
				sb.WriteString(p.String(string(codec.GlyphMarker)).Bold().Foreground(p.Color("#facc15")).String())
			default:
				sb.WriteString(p.String(string(codec.GlyphEmpty)).Faint().String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Status summarizes the agent and marker count in one line.
func Status(g *domain.Grid) string {
	w, h := g.InnerSize()
	pos := g.AgentPos().Sub(domain.Pt(1, 1))
	return fmt.Sprintf("%dx%d world, agent at (%d,%d) facing %s, %d markers",
		w, h, pos.X, pos.Y, g.AgentDir(), g.CountMarkers())
}
