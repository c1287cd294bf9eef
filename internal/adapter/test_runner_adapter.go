package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	m "gooze.dev/pkg/playground/internal/model"
)

// ErrTestsFailed wraps the exit error of a test run that completed with a
// non-zero status.
var ErrTestsFailed = errors.New("tests failed")

// TestRunnerAdapter abstracts test execution of compiled artifacts.
type TestRunnerAdapter interface {
	// Run executes the tests of artifact in verbose mode, passing args to
	// the test binary. Returns the combined stdout/stderr output and an
	// error wrapping ErrTestsFailed when the tests ran but failed.
	Run(ctx context.Context, artifact *m.Artifact, args []string) (output string, err error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct {
	goBin     string
	workDir   string
	waitDelay time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter running in
// temporary directories under workDir.
func NewLocalTestRunnerAdapter(workDir string) *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{
		goBin:     "go",
		workDir:   workDir,
		waitDelay: time.Second,
	}
}

// Run implements TestRunnerAdapter.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, artifact *m.Artifact, args []string) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("no artifact to run")
	}

	dir, err := os.MkdirTemp(a.workDir, "playground-run-*")
	if err != nil {
		return "", fmt.Errorf("failed to create run dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd, err := a.command(ctx, dir, artifact, args)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer

	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = a.waitDelay

	err = cmd.Run()

	output := stdout.String() + stderr.String()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, fmt.Errorf("%w: %w", ErrTestsFailed, exitErr)
	}

	return output, err
}

func (a *LocalTestRunnerAdapter) command(ctx context.Context, dir string, artifact *m.Artifact, args []string) (*exec.Cmd, error) {
	switch artifact.Kind {
	case m.ArtifactTestBinary:
		binary := filepath.Join(dir, "unit.test")
		if err := os.WriteFile(binary, artifact.Data, 0o700); err != nil {
			return nil, fmt.Errorf("failed to write test binary: %w", err)
		}

		return exec.CommandContext(ctx, binary, append([]string{"-test.v", "-test.count=1"}, args...)...), nil
	case m.ArtifactSourceBundle:
		if err := Unbundle(artifact.Data, dir); err != nil {
			return nil, err
		}

		goArgs := append([]string{"test", "-mod=mod", "-count=1", "-v", ".", "-args"}, args...)

		return exec.CommandContext(ctx, a.goBin, goArgs...), nil
	}

	return nil, fmt.Errorf("unsupported artifact kind %q", artifact.Kind)
}
