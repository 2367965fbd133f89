package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [tree.yaml]",
	Short: "Check the tree file for consistency",
	Long: `Parses the tree file, binds every component to its parent and reports structural
problems: missing IDs, duplicate sibling IDs, invalid state depths.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := treePath(cmd, args)
		engine, err := loadEngine(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tree '%s' is valid (%d components) ✅\n", engine.Root().ID(), engine.Inspect().Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
