// Package cmd provides the root command and CLI setup for the playground.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/playground/internal/adapter"
	"gooze.dev/pkg/playground/internal/controller"
	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
)

var fsAdapter adapter.SourceFSAdapter = adapter.NewLocalSourceFSAdapter()
var workflow domain.Workflow
var resultCache adapter.ResultCache
var metrics *adapter.PrometheusMetrics

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noCacheFlag disables the result cache when set.
var noCacheFlag bool

// verboseFlag switches the log level to debug.
var verboseFlag bool

const rootLongDescription = `The playground compiles a Go source file together with its tests,
runs the tests, then mutates the source. Every mutation is guarded so the
whole mutated unit is built once; mutations that break the build are rolled
back one by one until it compiles, and each surviving mutation is tested on
its own.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "playground",
		Short:         "Go mutation testing playground",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			bindFlagsToConfig(cmd.Flags(), rootFlagKeys)
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

// rootFlagKeys maps the persistent flags to their config keys.
var rootFlagKeys = map[string]string{
	outputFlagName:  outputFlagName,
	noCacheFlagName: noCacheFlagName,
	verboseFlagName: logVerboseKey,
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable cached results (re-test everything)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
}

// bindFlagsToConfig wires the flags of the executing command to their Viper
// keys so config/env values feed them. Viper keeps one binding per key, so
// commands sharing keys bind when they run, never when they are built.
func bindFlagsToConfig(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		bindFlagToConfig(flags.Lookup(name), key)
	}
}

// bindFlagToConfig wires a Cobra flag to a Viper key.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// ensureWorkflow builds the production dependency graph for cmd unless a
// workflow is already set.
func ensureWorkflow(cmd *cobra.Command) error {
	if workflow != nil {
		return nil
	}

	workDir := viper.GetString(workDirConfigKey)

	var builder adapter.Builder

	switch backend := viper.GetString(backendConfigKey); backend {
	case backendToolchain:
		builder = adapter.NewToolchainBuilder(workDir)
	case backendTypes:
		builder = adapter.NewTypesBuilder()
	default:
		return fmt.Errorf("unknown compile backend %q (want %s or %s)", backend, backendToolchain, backendTypes)
	}

	cache, err := openResultCache()
	if err != nil {
		return err
	}

	metrics = adapter.NewPrometheusMetrics()
	resultCache = cache

	compiler := domain.NewCompiler(builder)
	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))

	workflow = domain.NewWorkflowPipeline(
		fsAdapter,
		adapter.NewReportStore(),
		cache,
		ui,
		compiler,
		domain.NewMutantCompiler(domain.NewCatalog(), compiler, domain.NewRollbackEngine(), metrics),
		domain.NewOrchestrator(adapter.NewLocalTestRunnerAdapter(workDir), metrics, workDir),
	)

	return nil
}

func openResultCache() (adapter.ResultCache, error) {
	if viper.GetBool(noCacheFlagName) {
		return adapter.NopResultCache{}, nil
	}

	ttl, err := time.ParseDuration(viper.GetString(cacheTTLConfigKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", cacheTTLConfigKey, err)
	}

	cache, err := adapter.NewResultCache(adapter.CacheConfig{
		Path:   viper.GetString(cacheDirConfigKey),
		TTL:    ttl,
		Logger: globalLogger,
	})
	if err != nil {
		slog.Warn("Result cache unavailable, continuing without it", "error", err)
		return adapter.NopResultCache{}, nil
	}

	return cache, nil
}

// teardown flushes metrics and releases the result cache.
func teardown() {
	if metrics != nil {
		if path := viper.GetString(metricsFileConfigKey); path != "" {
			if err := metrics.WriteTextfile(path); err != nil {
				slog.Error("Failed to write metrics", "path", path, "error", err)
			}
		}
	}

	if resultCache != nil {
		if err := resultCache.Close(); err != nil {
			slog.Error("Failed to close result cache", "error", err)
		}

		resultCache = nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	teardown()

	if err != nil {
		os.Exit(1)
	}
}

// sessionFromFlags builds the session of a command from an optional session
// manifest overridden by the source, test, ref and import flags.
func sessionFromFlags(cmd *cobra.Command) (m.Session, error) {
	var session m.Session

	flags := cmd.Flags()

	if path, _ := flags.GetString(sessionFlagName); path != "" {
		loaded, err := fsAdapter.LoadSession(m.Path(path))
		if err != nil {
			return m.Session{}, err
		}

		session = loaded
	}

	if source, _ := flags.GetString(sourceFlagName); source != "" {
		session.Source = m.Path(source)
	}

	if test, _ := flags.GetString(testFlagName); test != "" {
		session.Test = m.Path(test)
	}

	refs, _ := flags.GetStringArray(referenceFlagName)
	for _, ref := range refs {
		parsed, err := parseReference(ref)
		if err != nil {
			return m.Session{}, err
		}

		session.References = append(session.References, parsed)
	}

	imports, _ := flags.GetStringArray(importFlagName)
	session.Imports = append(session.Imports, imports...)

	if session.Source == "" {
		return m.Session{}, fmt.Errorf("a source file is required (--%s or --%s)", sourceFlagName, sessionFlagName)
	}

	return session, nil
}

// parseReference parses a module requirement written as path@version.
func parseReference(value string) (m.Reference, error) {
	path, version, ok := strings.Cut(value, "@")
	if !ok || path == "" || version == "" {
		return m.Reference{}, fmt.Errorf("invalid reference %q, want path@version", value)
	}

	return m.Reference{Path: path, Version: version}, nil
}

func configureSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(sourceFlagName, "s", "", "production Go file")
	cmd.Flags().StringP(testFlagName, "t", "", "test file (default: the companion _test.go file)")
	cmd.Flags().String(sessionFlagName, "", "yaml session manifest with source, test, references and imports")
	cmd.Flags().StringArray(referenceFlagName, nil, "module requirement path@version available to the unit (can be repeated)")
	cmd.Flags().StringArray(importFlagName, nil, "package imported by the unit wherever it is used (can be repeated)")
}
