package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Materialized lists component paths that hold a State.
	Materialized [][]int
	// Current is the path of the component to highlight, if any.
	Current []int
}

// GenerateMermaid produces a Mermaid flowchart of a component tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Multi-level parent: [[Subroutine]]
// - Default: [Rectangle]
// Edges carry the child index; edges out of a multi-level parent are dotted.
// It also applies overlay styles (Materialized/Current) if provided.
func GenerateMermaid(outline domain.Outline, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	outline.Walk(func(path []int, n domain.Outline) {
		safeID := mermaidID(path)

		opener, closer := "[", "]"
		switch {
		case len(path) == 0:
			opener, closer = "((", "))"
		case n.StateDepth > 1:
			opener, closer = "[[", "]]"
		}
		label := strings.ReplaceAll(n.ID, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for i := range n.Children {
			childID := mermaidID(append(path, i))
			arrow := fmt.Sprintf("-- \"%d\" -->", i)
			if n.StateDepth > 1 {
				arrow = fmt.Sprintf("-. \"%d\" .->", i)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, childID)
		}
	})

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef materialized fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, p := range overlay.Materialized {
			if _, ok := outline.Find(p); !ok {
				continue
			}
			id := mermaidID(p)
			if !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s materialized;\n", id)
			}
		}

		if overlay.Current != nil {
			if _, ok := outline.Find(overlay.Current); ok {
				fmt.Fprintf(&sb, "    class %s current;\n", mermaidID(overlay.Current))
			}
		}
	}

	return sb.String()
}

// mermaidID derives a node ID from the tree position, so duplicate component IDs in
// different subtrees never collide.
func mermaidID(path []int) string {
	var sb strings.Builder
	sb.WriteString("n")
	for _, i := range path {
		sb.WriteString("_")
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}
