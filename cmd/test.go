package cmd

import (
	"github.com/spf13/cobra"

	"gooze.dev/pkg/playground/internal/domain"
)

// testCmd represents the test command.
var testCmd = newTestCmd()

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Compile the unit and run its tests",
		Long: `Compile the source and test files as one package and run the tests once,
without any mutation. Compiler errors are printed with their positions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureWorkflow(cmd); err != nil {
				return err
			}

			session, err := sessionFromFlags(cmd)
			if err != nil {
				return err
			}

			_, err = workflow.UnitTests(cmd.Context(), domain.UnitTestsArgs{
				Session: session,
				Timeout: mutationTimeout(),
			})

			return err
		},
	}

	configureSessionFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(testCmd)
}
