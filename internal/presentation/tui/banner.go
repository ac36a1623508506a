package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the walker banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                _ _             ", "#34d399"},
		{" __      ____ _| | | _____ _ __ ", "#2dd4bf"},
		{" \\ \\ /\\ / / _` | | |/ / _ \\ '__|", "#22d3ee"},
		{"  \\ V  V / (_| | |   <  __/ |   ", "#38bdf8"},
		{"   \\_/\\_/ \\__,_|_|_|\\_\\___|_|   ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("   v"+version).Faint())
	fmt.Fprintln(w)
}
