package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor is a stateful message-dispatch engine for component trees",
	Long: `Arbor routes messages down and events up a tree of components, keeping
per-component State that survives across dispatches.

Trees are described in YAML files (see 'arbor validate').`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("tree", "t", "arbor.yaml", "YAML file describing the component tree")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// newLogger builds the stderr logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	formatFlag, _ := cmd.Flags().GetString("log-format")

	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		return nil, err
	}
	format := logging.Format(formatFlag)
	if format != logging.FormatText && format != logging.FormatJSON {
		return nil, fmt.Errorf("unknown log format %q", formatFlag)
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), format, level), nil
}

// treePath resolves the tree file: the first positional argument wins over --tree.
func treePath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("tree")
	if !cmd.Flags().Changed("tree") && len(args) > 0 {
		path = args[0]
	}
	return path
}

// loadEngine compiles the tree file at path and binds an engine to it.
func loadEngine(path string, opts ...arbor.Option) (*arbor.Engine, error) {
	spec, err := compiler.NewParser().ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree '%s': %w", path, err)
	}
	engine, err := arbor.New(compiler.Compile(*spec), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to bind tree '%s': %w", path, err)
	}
	return engine, nil
}
