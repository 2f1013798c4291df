package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ArticleComposer/internal/usecase"
)

func newGenerateCommand(cc *commandContext) *cobra.Command {
	var file string
	var live bool

	cmd := &cobra.Command{
		Use:   "generate [title...]",
		Short: "Generate, schedule and save one article per title",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, cfg, err := cc.open(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			requests, err := collectRequests(args, file, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			observer := liveObserver(out, live && isTerminal(out))

			result, runErr := application.Generate(ctx, requests, observer)
			printResult(out, result, observer)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a list of {title, summary, scheduledFor}")
	cmd.Flags().BoolVar(&live, "live", true, "Redraw the progress table while running (TTY only)")
	return cmd
}

// printResult shows the final table, redrawing in place when a live
// table is already on screen.
func printResult(out io.Writer, result usecase.RunResult, live func(usecase.Snapshot)) {
	if result.Snapshot.Len() == 0 {
		return
	}
	if live != nil {
		live(result.Snapshot)
	} else {
		fmt.Fprintln(out, renderProgress(result.Snapshot))
	}
	fmt.Fprintln(out, result.Summary())
}

// liveObserver redraws the progress table in place on terminals.
func liveObserver(out io.Writer, enabled bool) func(usecase.Snapshot) {
	if !enabled {
		return nil
	}
	lines := 0
	return func(s usecase.Snapshot) {
		if lines > 0 {
			fmt.Fprintf(out, "\033[%dA\033[J", lines)
		}
		table := renderProgress(s)
		fmt.Fprintln(out, table)
		lines = countLines(table) + 1
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
