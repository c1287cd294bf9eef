package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [session-id]",
		Short: "View a previously generated mutation report",
		Long:  "View the latest mutation report, or the one of the given session, from a reports directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureWorkflow(cmd); err != nil {
				return err
			}

			viewArgs := domain.ViewArgs{Reports: m.Path(viper.GetString(outputFlagName))}
			if len(args) == 1 {
				viewArgs.SessionID = args[0]
			}

			_, err := workflow.View(cmd.Context(), viewArgs)

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
