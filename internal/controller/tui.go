package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "gooze.dev/pkg/playground/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	input  io.Reader

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return t.startWithModel(newPlaygroundModel(newStartConfig(options)))
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts := []tea.ProgramOption{tea.WithOutput(t.output)}
	if t.input != nil {
		opts = append(opts, tea.WithInput(t.input))
	}

	t.program = tea.NewProgram(model, opts...)
	t.done = make(chan struct{})
	t.started = true

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			slog.Error("TUI stopped with error", "error", err)
		}
	}()

	return nil
}

// send delivers msg to the running program; it is a no-op before Start.
func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(msg)
}

// Close stops the program and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program = nil
	t.started = false
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the program or ctx is done.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(finishedMsg{})

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayDiagnostics implements UI.
func (t *TUI) DisplayDiagnostics(_ context.Context, diagnostics []m.Diagnostic) {
	t.send(diagnosticsMsg{diagnostics: diagnostics})
}

// DisplayTestRun implements UI.
func (t *TUI) DisplayTestRun(_ context.Context, result m.TestRunResult) {
	t.send(testRunMsg{result: result})
}

// DisplayCompilation implements UI.
func (t *TUI) DisplayCompilation(_ context.Context, result m.MutantCompilationResult) {
	t.send(compilationMsg{
		mutants:   len(result.Mutants),
		removed:   len(result.RemovedIDs),
		attempts:  len(result.Attempts),
		anomalies: result.Anomalies,
	})
}

// DisplayUpcomingTestsInfo implements UI.
func (t *TUI) DisplayUpcomingTestsInfo(_ context.Context, count int, parallel int) {
	t.send(upcomingMsg{count: count, parallel: parallel})
}

// DisplayCompletedTestInfo implements UI.
func (t *TUI) DisplayCompletedTestInfo(_ context.Context, result m.MutantResult) {
	t.send(completedMutationMsg{result: result})
}

// DisplayReport implements UI.
func (t *TUI) DisplayReport(_ context.Context, report m.Report) {
	t.send(reportMsg{report: report})
}
