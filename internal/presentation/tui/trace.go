package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/walker/pkg/domain"
)

// TraceMarkdown lists trace entries as a markdown table, marking the cursor.
// Entries after the cursor are the undone future.
func TraceMarkdown(entries []domain.TraceEntry, cursor int) string {
	var sb strings.Builder
	sb.WriteString("| # | Entry | Kind | |\n")
	sb.WriteString("|--:|:------|:-----|:-|\n")
	for i, e := range entries {
		mark := ""
		switch {
		case i == cursor:
			mark = "**◀ cursor**"
		case i > cursor:
			mark = "_undone_"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", i, escapeCell(e.Text), e.Action.Kind, mark)
	}
	return sb.String()
}

// RenderTrace renders TraceMarkdown through render, e.g. NewRenderer(0).
func RenderTrace(render func(string) (string, error), entries []domain.TraceEntry, cursor int) (string, error) {
	return render(TraceMarkdown(entries, cursor))
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
