package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
)

const runLongDescription = `Run mutation testing for one source file and its tests.

The unit must compile and its tests must pass before it is mutated. Mutations
that break the build are reported as compile errors, mutations the tests
never reach as no coverage.`

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureWorkflow(cmd); err != nil {
				return err
			}

			args, err := mutationTestsArgs(cmd)
			if err != nil {
				return err
			}

			_, err = workflow.MutationTests(cmd.Context(), args)

			return err
		},
	}

	configureSessionFlags(cmd)
	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runFlagKeys maps the flags shared by run and watch to their config keys.
var runFlagKeys = map[string]string{
	runParallelFlagName:     runParallelConfigKey,
	mutationTimeoutFlagName: mutationTimeoutKey,
	maxAttemptsFlagName:     maxAttemptsConfigKey,
	backendFlagName:         backendConfigKey,
	filterFlagName:          filterConfigKey,
	mutationTypesFlagName:   mutationTypesConfigKey,
	metricsFileFlagName:     metricsFileConfigKey,
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP(runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of mutants executed in parallel")
	cmd.Flags().Int64(mutationTimeoutFlagName, viper.GetInt64(mutationTimeoutKey), "timeout in seconds for a single test run")
	cmd.Flags().Int(maxAttemptsFlagName, viper.GetInt(maxAttemptsConfigKey), "maximum compile attempts of the mutated unit")
	cmd.Flags().String(backendFlagName, viper.GetString(backendConfigKey), "compile backend: toolchain or types")
	cmd.Flags().String(filterFlagName, viper.GetString(filterConfigKey), "expression selecting the mutants to run, e.g. 'Type == \"arithmetic\"'")
	cmd.Flags().StringSlice(mutationTypesFlagName, viper.GetStringSlice(mutationTypesConfigKey), "mutation types to apply (default: all)")
	cmd.Flags().String(metricsFileFlagName, viper.GetString(metricsFileConfigKey), "write compile and mutant metrics to this Prometheus textfile")

	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		bindFlagsToConfig(cmd.Flags(), runFlagKeys)
	}
}

func mutationTestsArgs(cmd *cobra.Command) (domain.MutationTestsArgs, error) {
	session, err := sessionFromFlags(cmd)
	if err != nil {
		return domain.MutationTestsArgs{}, err
	}

	rawTypes := viper.GetStringSlice(mutationTypesConfigKey)

	types := make([]m.MutationType, 0, len(rawTypes))
	for _, t := range rawTypes {
		types = append(types, m.MutationType(t))
	}

	return domain.MutationTestsArgs{
		Session:       session,
		Reports:       m.Path(viper.GetString(outputFlagName)),
		UseCache:      !viper.GetBool(noCacheFlagName),
		Parallel:      viper.GetInt(runParallelConfigKey),
		MaxAttempts:   viper.GetInt(maxAttemptsConfigKey),
		Timeout:       mutationTimeout(),
		MutationTypes: types,
		Filter:        viper.GetString(filterConfigKey),
		SpillDir:      viper.GetString(workDirConfigKey),
	}, nil
}
