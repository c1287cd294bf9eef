package mutctl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Names shared with the boot instrumentation compiled into test binaries.
const (
	FlagName    = "mutctl.context"
	ActiveFile  = "active"
	CoveredFile = "covered"
)

// ExecutionContext is the on-disk form of a Context handed to a test binary
// running in another process. The binary reads the active id once and
// appends every covered id to a file the caller reads back after the run.
type ExecutionContext struct {
	dir    string
	active int
}

// NewExecutionContext creates a fresh context directory under parent, or
// under the system temp dir when parent is empty.
func NewExecutionContext(parent string, activeID int) (*ExecutionContext, error) {
	dir, err := os.MkdirTemp(parent, "mutctl-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create execution context: %w", err)
	}

	active := []byte(strconv.Itoa(activeID) + "\n")
	if err := os.WriteFile(filepath.Join(dir, ActiveFile), active, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write active mutation: %w", err)
	}

	return &ExecutionContext{dir: dir, active: activeID}, nil
}

// Dir returns the context directory.
func (e *ExecutionContext) Dir() string {
	return e.dir
}

// ActiveID returns the id the context was created with.
func (e *ExecutionContext) ActiveID() int {
	return e.active
}

// Args returns the test binary arguments selecting this context.
func (e *ExecutionContext) Args() []string {
	return []string{"-" + FlagName + "=" + e.dir}
}

// Load reads the covered ids written by the execution into a Context.
func (e *ExecutionContext) Load() (*Context, error) {
	ctx := NewContext(e.active)

	data, err := os.ReadFile(filepath.Join(e.dir, CoveredFile))
	if errors.Is(err, os.ErrNotExist) {
		return ctx, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read covered mutations: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("malformed covered id %q: %w", line, err)
		}

		ctx.MarkCovered(id)
	}

	return ctx, scanner.Err()
}

// Close removes the context directory.
func (e *ExecutionContext) Close() error {
	return os.RemoveAll(e.dir)
}
