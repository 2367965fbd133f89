package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [tree.yaml]",
	Short: "Export the component tree visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the component tree.
Use --highlight with a slash-separated list of child IDs to mark one component.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine(treePath(cmd, args))
		if err != nil {
			return err
		}
		outline := engine.Inspect()

		var overlay *graph.GraphOverlay
		if highlight, _ := cmd.Flags().GetString("highlight"); highlight != "" {
			path, ok := outline.Resolve(splitNames(highlight)...)
			if !ok {
				return fmt.Errorf("no component at '%s'", highlight)
			}
			overlay = &graph.GraphOverlay{Current: path}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(outline, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("highlight", "", "Component to highlight, as child IDs separated by '/'")
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, "/") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
