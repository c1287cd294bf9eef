package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/playground/internal/adapter"
	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
)

var sourceWatcher = adapter.NewSourceWatcher(adapter.DefaultDebounce)

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rerun mutation testing whenever the source or tests change",
		Long: `Run mutation testing once, then again every time the source or test file
is saved. A unit that fails to compile or whose tests fail is reported and
watched further. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureWorkflow(cmd); err != nil {
				return err
			}

			args, err := mutationTestsArgs(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			paths := []m.Path{args.Session.Source}
			if args.Session.Test != "" {
				paths = append(paths, args.Session.Test)
			} else if test, err := fsAdapter.DetectTestFile(args.Session.Source); err == nil && test != "" {
				paths = append(paths, test)
			}

			if err := runOnce(ctx, cmd, args); err != nil {
				return err
			}

			return sourceWatcher.Watch(ctx, paths, func(ctx context.Context) error {
				return runOnce(ctx, cmd, args)
			})
		},
	}

	configureSessionFlags(cmd)
	configureRunFlags(cmd)

	return cmd
}

// runOnce runs one mutation session. Verdicts on the unit are printed and
// do not stop the watch.
func runOnce(ctx context.Context, cmd *cobra.Command, args domain.MutationTestsArgs) error {
	_, err := workflow.MutationTests(ctx, args)

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, domain.ErrCompilationFailed),
		errors.Is(err, domain.ErrUnitTestsFailed),
		errors.Is(err, domain.ErrUnrecoverableBuild):
		slog.Info("Watched run rejected the unit", "error", err)
		cmd.PrintErrln("Error:", err)

		return nil
	}

	return err
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
