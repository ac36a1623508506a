package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/walker/pkg/domain"
	"github.com/spf13/afero"
)

// Decode parses a world from its text encoding.
// The returned grid is wrapped in a wall ring, so its agent sits one cell further
// east and south than in the text.
func Decode(text string) (*domain.Grid, error) {
	return decode("", text)
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) (*domain.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	return decode("", string(data))
}

// DecodeFile loads the world stored at path on fs.
// A missing file is reported as ErrFileNotFound before any parsing happens.
func DecodeFile(fs afero.Fs, path string) (*domain.Grid, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat world %s: %w", path, err)
	}
	if !exists {
		return nil, &DecodeError{Path: path, Err: ErrFileNotFound}
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &DecodeError{Path: path, Err: ErrFileNotFound}
		}
		return nil, fmt.Errorf("read world %s: %w", path, err)
	}
	return decode(path, string(data))
}

// Encode writes the interior of g, one row per line, each line ending in '\n'.
func Encode(g *domain.Grid) string {
	var b strings.Builder
	b.Grow((g.Width() - 1) * (g.Height() - 2))
	for y := 1; y < g.Height()-1; y++ {
		for x := 1; x < g.Width()-1; x++ {
			p := domain.Pt(x, y)
			if p == g.AgentPos() {
				b.WriteRune(AgentGlyph(g.AgentDir(), g.CellAt(p)))
			} else {
				b.WriteRune(CellGlyph(g.CellAt(p)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeFile writes the encoding of g to path on fs.
func EncodeFile(fs afero.Fs, path string, g *domain.Grid) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create world directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, []byte(Encode(g)), 0o644); err != nil {
		return fmt.Errorf("write world %s: %w", path, err)
	}
	return nil
}

// splitLines strips line terminators. A single trailing newline does not start a new row.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func decode(path, text string) (*domain.Grid, error) {
	lines := splitLines(text)
	if len(lines) > domain.MaxDimension {
		return nil, &DecodeError{Path: path, Line: domain.MaxDimension + 1,
			Err: fmt.Errorf("%w: %w", ErrBadFormat, domain.CheckDimensions(1, len(lines)))}
	}

	width := -1
	agents := 0
	var agent glyph
	var agentPos domain.Point
	rows := make([][]glyph, 0, len(lines))

	for y, line := range lines {
		n := utf8.RuneCountInString(line)
		if width == -1 {
			if err := domain.CheckDimensions(max(n, 1), 1); err != nil {
				return nil, &DecodeError{Path: path, Line: y + 1, Err: fmt.Errorf("%w: %w", ErrBadFormat, err)}
			}
			width = n
		}
		if n != width {
			return nil, &DecodeError{Path: path, Line: y + 1, Err: ErrNonRectangular}
		}

		row := make([]glyph, 0, n)
		x := 0
		for _, r := range line {
			g, ok := parseGlyph(r)
			if !ok {
				return nil, &DecodeError{Path: path, Line: y + 1, Column: x + 1,
					Err: fmt.Errorf("%w %q", ErrIllegalCharacter, r)}
			}
			if g.agent {
				agents++
				agent = g
				agentPos = domain.Pt(x+1, y+1)
			}
			row = append(row, g)
			x++
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 || width == 0 {
		return nil, &DecodeError{Path: path, Err: ErrEmptyWorld}
	}
	if agents != 1 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w, found %d", ErrMultipleAgents, agents)}
	}

	grid, err := domain.NewGrid(width, len(rows), agentPos, agent.dir)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: %v", ErrBadFormat, err)}
	}
	for y, row := range rows {
		for x, g := range row {
			if g.cell == domain.Empty {
				continue
			}
			// The agent glyph never decodes to a wall, so SetCell cannot fail here.
			if err := grid.SetCell(domain.Pt(x+1, y+1), g.cell); err != nil {
				return nil, &DecodeError{Path: path, Line: y + 1, Column: x + 1, Err: fmt.Errorf("%w: %v", ErrBadFormat, err)}
			}
		}
	}
	return grid, nil
}
