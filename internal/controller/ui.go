// Package controller provides output adapters for displaying playground results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/playground/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeUnitTest StartMode = iota
	ModeMutation
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	source string
}

// WithUnitTestMode sets the UI to plain unit test mode.
func WithUnitTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeUnitTest
	}
}

// WithMutationMode sets the UI to mutation testing mode.
func WithMutationMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMutation
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithSource names the production file shown in headers.
func WithSource(name string) StartOption {
	return func(c *StartConfig) {
		c.source = name
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines how playground progress and results are shown.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayDiagnostics(ctx context.Context, diagnostics []m.Diagnostic)
	DisplayTestRun(ctx context.Context, result m.TestRunResult)
	DisplayCompilation(ctx context.Context, result m.MutantCompilationResult)
	DisplayUpcomingTestsInfo(ctx context.Context, count int, parallel int)
	DisplayCompletedTestInfo(ctx context.Context, result m.MutantResult)
	DisplayReport(ctx context.Context, report m.Report)
}

// NewUI returns the interactive TUI when useTUI is set and the simple text UI
// otherwise. Both write to the command output.
func NewUI(cmd *cobra.Command, useTUI bool) UI {
	if useTUI {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether out is an interactive terminal.
func IsTTY(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
