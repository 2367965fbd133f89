package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dispatchCmd sends one message through a fresh State tree and traces the deliveries.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch <message-type>",
	Short: "Dispatch a message into the tree and trace its deliveries",
	Long: `Builds the tree from --tree, creates a root State and delivers the message.
Every delivery, State creation and ascending event is traced, followed by a report of
the components that hold a State.

Addressing:
  --path 1,0        follow child indices from the root
  --call body/list  follow child IDs from the root (takes precedence over --path)
  neither           deliver to the root; --multicast fans out to its children`,
	Args: cobra.ExactArgs(1),
	RunE: runDispatch,
}

func init() {
	rootCmd.AddCommand(dispatchCmd)

	dispatchCmd.Flags().Bool("multicast", false, "Fan the message out to immediate children when no route remains")
	dispatchCmd.Flags().String("payload", "", "Message payload")
	dispatchCmd.Flags().IntSlice("path", nil, "Route as child indices")
	dispatchCmd.Flags().String("call", "", "Route as child IDs separated by '/'")
	dispatchCmd.Flags().Int("repeat", 1, "Number of dispatches into the same State tree")
	dispatchCmd.Flags().Bool("stateless", false, "Disable State materialization")
	dispatchCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")
	dispatchCmd.Flags().String("style", "", "Glamour style for the report (default: auto)")
}

func runDispatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	multicast, _ := cmd.Flags().GetBool("multicast")
	payload, _ := cmd.Flags().GetString("payload")
	path, _ := cmd.Flags().GetIntSlice("path")
	call, _ := cmd.Flags().GetString("call")
	repeat, _ := cmd.Flags().GetInt("repeat")
	stateless, _ := cmd.Flags().GetBool("stateless")
	plain, _ := cmd.Flags().GetBool("plain")
	style, _ := cmd.Flags().GetString("style")

	out := cmd.OutOrStdout()
	pretty := !plain && isTerminal(out)

	profile := termenv.Ascii
	if pretty {
		profile = termenv.ColorProfile()
	}
	trace := tui.NewTraceWriter(out, profile)

	engine, err := loadEngine(treePath(cmd, nil),
		arbor.WithLogger(logger),
		arbor.WithLifecycleHooks(trace.Hooks()),
		arbor.WithStateless(stateless),
	)
	if err != nil {
		return err
	}

	m := domain.NewMessage(args[0], payload)
	if multicast {
		m = domain.NewMulticast(args[0], payload)
	}

	var state domain.State
	if engine.Stateful() {
		if state, err = engine.NewRootState(); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	for i := 0; i < repeat; i++ {
		if repeat > 1 {
			fmt.Fprintf(out, "-- dispatch %d\n", i+1)
		}
		if call != "" {
			err = engine.Call(ctx, state, m, splitNames(call)...)
		} else {
			err = engine.Dispatch(ctx, state, m, path...)
		}
		if err != nil {
			return fmt.Errorf("dispatch failed: %w", err)
		}
	}

	outline := engine.Inspect()
	var materialized [][]int
	if state != nil {
		materialized = outline.Materialized(state)
	}
	report := tui.Report(outline, materialized)
	if !pretty {
		_, err = io.WriteString(out, "\n"+report)
		return err
	}

	render, err := tui.NewRenderer(style)
	if err != nil {
		return err
	}
	rendered, err := render(report)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
