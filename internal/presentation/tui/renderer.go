package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/arbor/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects a light or dark background automatically.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Report builds a markdown summary of a component tree: one row per component with its
// path, kind, state depth and, when states is non-nil, whether it holds a State.
func Report(outline domain.Outline, states [][]int) string {
	materialized := make(map[string]bool, len(states))
	for _, p := range states {
		materialized[fmt.Sprint(p)] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", outline.ID)
	fmt.Fprintf(&sb, "%d components\n\n", outline.Count())
	sb.WriteString("| Path | Component | Kind | Depth |")
	if states != nil {
		sb.WriteString(" State |")
	}
	sb.WriteString("\n|---|---|---|---|")
	if states != nil {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	outline.Walk(func(path []int, n domain.Outline) {
		indent := strings.Repeat("· ", len(path))
		fmt.Fprintf(&sb, "| `%v` | %s%s | %s | %d |", path, indent, n.ID, n.Kind, n.StateDepth)
		if states != nil {
			mark := ""
			if materialized[fmt.Sprint(path)] {
				mark = "yes"
			}
			fmt.Fprintf(&sb, " %s |", mark)
		}
		sb.WriteString("\n")
	})
	return sb.String()
}
