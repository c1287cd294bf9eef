package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/playground/internal/adapter"
	"gooze.dev/pkg/playground/internal/domain"
	domainmocks "gooze.dev/pkg/playground/internal/domain/mocks"
	m "gooze.dev/pkg/playground/internal/model"
)

// resetConfigOnCleanup restores the default viper state after the test.
// Overrides and flag bindings made by the test would otherwise shadow the
// flags of later commands.
func resetConfigOnCleanup(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		viper.Reset()
		initConfig()
	})
}

// setConfig overrides a viper key for the duration of the test.
func setConfig(t *testing.T, key string, value any) {
	t.Helper()

	resetConfigOnCleanup(t)
	viper.Set(key, value)
}

func sessionCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "session"}
	configureSessionFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))

	return cmd
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    m.Reference
		wantErr bool
	}{
		{"path and version", "github.com/google/uuid@v1.6.0", m.Reference{Path: "github.com/google/uuid", Version: "v1.6.0"}, false},
		{"pseudo version", "golang.org/x/exp@v0.0.0-20240506185415-9bf2ced13842", m.Reference{Path: "golang.org/x/exp", Version: "v0.0.0-20240506185415-9bf2ced13842"}, false},
		{"missing version", "github.com/google/uuid", m.Reference{}, true},
		{"empty version", "github.com/google/uuid@", m.Reference{}, true},
		{"empty path", "@v1.0.0", m.Reference{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReference(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionFromFlags(t *testing.T) {
	t.Run("flags only", func(t *testing.T) {
		cmd := sessionCmd(t,
			"--source", "calc.go",
			"--ref", "github.com/google/uuid@v1.6.0",
			"--import", "strings", "--import", "fmt",
		)

		session, err := sessionFromFlags(cmd)
		require.NoError(t, err)

		assert.Equal(t, m.Path("calc.go"), session.Source)
		assert.Empty(t, session.Test)
		assert.Equal(t, []m.Reference{{Path: "github.com/google/uuid", Version: "v1.6.0"}}, session.References)
		assert.Equal(t, []string{"strings", "fmt"}, session.Imports)
	})

	t.Run("manifest overridden by flags", func(t *testing.T) {
		dir := t.TempDir()
		manifest := filepath.Join(dir, "session.yaml")
		require.NoError(t, os.WriteFile(manifest, []byte("source: calc.go\ntest: calc_test.go\nimports: [strings]\n"), 0o600))

		cmd := sessionCmd(t, "--session", manifest, "--test", "other_test.go", "--import", "math")

		session, err := sessionFromFlags(cmd)
		require.NoError(t, err)

		assert.Equal(t, m.Path(filepath.Join(dir, "calc.go")), session.Source)
		assert.Equal(t, m.Path("other_test.go"), session.Test)
		assert.Equal(t, []string{"strings", "math"}, session.Imports)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := sessionFromFlags(sessionCmd(t, "--test", "calc_test.go"))
		require.ErrorContains(t, err, "source file is required")
	})

	t.Run("bad reference", func(t *testing.T) {
		_, err := sessionFromFlags(sessionCmd(t, "--source", "calc.go", "--ref", "uuid"))
		require.ErrorContains(t, err, "invalid reference")
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, err := sessionFromFlags(sessionCmd(t, "--session", filepath.Join(t.TempDir(), "nope.yaml")))
		require.Error(t, err)
	})
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("DEBUG", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel(" warning ", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseSlogLevel("error", slog.LevelInfo))
	assert.Equal(t, slog.Level(-4), parseSlogLevel("-4", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("loud", slog.LevelWarn))
}

func TestMutationTimeout(t *testing.T) {
	setConfig(t, mutationTimeoutKey, 3)
	assert.Equal(t, "3s", mutationTimeout().String())

	setConfig(t, mutationTimeoutKey, 0)
	assert.Equal(t, defaultMutationTimeout, mutationTimeout())
}

func TestOpenResultCache(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		setConfig(t, noCacheFlagName, true)

		cache, err := openResultCache()
		require.NoError(t, err)
		assert.IsType(t, adapter.NopResultCache{}, cache)
	})

	t.Run("invalid ttl", func(t *testing.T) {
		setConfig(t, noCacheFlagName, false)
		setConfig(t, cacheTTLConfigKey, "a week")

		_, err := openResultCache()
		require.ErrorContains(t, err, cacheTTLConfigKey)
	})

	t.Run("persistent", func(t *testing.T) {
		setConfig(t, noCacheFlagName, false)
		setConfig(t, cacheTTLConfigKey, "1h")
		setConfig(t, cacheDirConfigKey, t.TempDir())

		cache, err := openResultCache()
		require.NoError(t, err)
		assert.NotNil(t, cache)
		require.NoError(t, cache.Close())
	})
}

func TestEnsureWorkflow_UnknownBackend(t *testing.T) {
	original := workflow
	workflow = nil

	t.Cleanup(func() { workflow = original })
	setConfig(t, backendConfigKey, "llvm")

	err := ensureWorkflow(newRootCmd())
	require.ErrorContains(t, err, "unknown compile backend")
	assert.Nil(t, workflow)
}

func TestEnsureWorkflow_Builds(t *testing.T) {
	original := workflow
	workflow = nil

	t.Cleanup(func() {
		teardown()
		workflow = original
	})
	setConfig(t, backendConfigKey, backendTypes)
	setConfig(t, noCacheFlagName, true)

	require.NoError(t, ensureWorkflow(newRootCmd()))
	assert.NotNil(t, workflow)
	assert.NotNil(t, metrics)
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "playground", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)

	for _, name := range []string{outputFlagName, noCacheFlagName, verboseFlagName} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "rolled")
}

func TestRootCmd_RunFlagsReachWorkflow(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	withWorkflow(t, mockWorkflow)

	var got domain.MutationTestsArgs

	mockWorkflow.EXPECT().MutationTests(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, args domain.MutationTestsArgs) (m.Report, error) {
			got = args
			return m.Report{}, nil
		}).Once()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{
		"run", "--source", "calc.go", "--test", "calc_test.go",
		"--parallel", "2", "--max-attempts", "5", "--filter", "Line > 3",
		"--types", "arithmetic", "--mutation-timeout", "4",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 2, got.Parallel)
	assert.Equal(t, 5, got.MaxAttempts)
	assert.Equal(t, "Line > 3", got.Filter)
	assert.Equal(t, []m.MutationType{m.MutationArithmetic}, got.MutationTypes)
	assert.Equal(t, 4*time.Second, got.Timeout)
}

func TestRunAndWatch_BindOwnFlags(t *testing.T) {
	resetConfigOnCleanup(t)

	run, watch := newRunCmd(), newWatchCmd()
	require.NoError(t, run.Flags().Parse([]string{"--max-attempts", "7"}))
	require.NoError(t, watch.Flags().Parse(nil))

	// Building watch after run must not steal run's bindings.
	run.PreRun(run, nil)
	assert.Equal(t, 7, viper.GetInt(maxAttemptsConfigKey))

	watch.PreRun(watch, nil)
	assert.Equal(t, defaultMaxAttempts, viper.GetInt(maxAttemptsConfigKey))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"test", "run", "watch", "view", "init", "version"} {
		assert.True(t, names[name], name)
	}
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Exits only on error.
	Execute()

	rootCmd = originalRootCmd
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd

		Execute()

		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(output), "error occurred")
}
