package tui

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the column width trace tables are wrapped at.
const DefaultWrap = 80

// NewRenderer returns a markdown renderer for trace listings, wrapping at wrap
// columns (DefaultWrap when wrap <= 0). Without a usable terminal style the
// markdown is returned as is.
func NewRenderer(wrap int) func(string) (string, error) {
	if wrap <= 0 {
		wrap = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap))
	if err != nil {
		return func(md string) (string, error) { return md, nil }
	}
	return r.Render
}
