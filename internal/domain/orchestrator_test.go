package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/playground/internal/adapter"
	adaptermocks "gooze.dev/pkg/playground/internal/adapter/mocks"
	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
)

type runBehavior int

const (
	behaviorPass runBehavior = iota
	behaviorFail
	behaviorHang
)

// fakeTestBinary plays the part of an instrumented test binary: it reads the
// active id from its execution context, records coverage and reports the
// outcome scripted for that id.
type fakeTestBinary struct {
	mu       sync.Mutex
	covered  []int
	behavior map[int]runBehavior
	runs     []int
}

func (f *fakeTestBinary) run(ctx context.Context, _ *m.Artifact, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("unexpected args %v", args)
	}

	dir, ok := strings.CutPrefix(args[0], "-"+mutctl.FlagName+"=")
	if !ok {
		return "", fmt.Errorf("unexpected args %v", args)
	}

	data, err := os.ReadFile(filepath.Join(dir, mutctl.ActiveFile))
	if err != nil {
		return "", err
	}

	active, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.runs = append(f.runs, active)
	behavior := f.behavior[active]
	f.mu.Unlock()

	if active == mutctl.BaselineID {
		var lines strings.Builder
		for _, id := range f.covered {
			lines.WriteString(strconv.Itoa(id) + "\n")
		}

		if err := os.WriteFile(filepath.Join(dir, mutctl.CoveredFile), []byte(lines.String()), 0o600); err != nil {
			return "", err
		}
	}

	switch behavior {
	case behaviorFail:
		return "=== RUN   TestAdd\n--- FAIL: TestAdd (0.00s)\nFAIL\n", fmt.Errorf("%w: exit status 1", adapter.ErrTestsFailed)
	case behaviorHang:
		<-ctx.Done()
		return "=== RUN   TestAdd\n", ctx.Err()
	}

	return "=== RUN   TestAdd\n--- PASS: TestAdd (0.00s)\n=== RUN   TestLess\n--- PASS: TestLess (0.00s)\nPASS\n", nil
}

func (f *fakeTestBinary) adapter(t *testing.T) *adaptermocks.MockTestRunnerAdapter {
	t.Helper()

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(f.run)

	return runner
}

func compiledMutants(mutants ...m.MutantResult) m.MutantCompilationResult {
	return m.MutantCompilationResult{
		CompilationResult: m.CompilationResult{Success: true, Artifact: &m.Artifact{Kind: m.ArtifactSourceBundle}},
		Mutants:           mutants,
	}
}

func mutantAt(id, line int, status m.MutantStatus) m.MutantResult {
	return m.MutantResult{
		ID:          id,
		Kind:        m.GuardExpression,
		Type:        m.MutationArithmetic,
		Status:      status,
		Line:        line,
		Original:    "a + b",
		Replacement: "a - b",
	}
}

func TestOrchestrator_RunTests(t *testing.T) {
	t.Run("baseline collects coverage", func(t *testing.T) {
		workDir := t.TempDir()
		binary := &fakeTestBinary{covered: []int{3, 1, 3}}
		orch := domain.NewOrchestrator(binary.adapter(t), nil, workDir)

		result, err := orch.RunTests(context.Background(), &m.Artifact{}, mutctl.BaselineID, time.Second)
		require.NoError(t, err)

		assert.Equal(t, m.TestPassed, result.Status)
		assert.Equal(t, 2, result.TestCount)
		assert.Zero(t, result.FailedCount)
		assert.Equal(t, []int{1, 3}, result.CoveredIDs)
		assert.Contains(t, result.Output, "--- PASS: TestLess (0.00s)")

		entries, err := os.ReadDir(workDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "execution contexts are removed after the run")
	})

	t.Run("failing tests", func(t *testing.T) {
		binary := &fakeTestBinary{behavior: map[int]runBehavior{7: behaviorFail}}
		orch := domain.NewOrchestrator(binary.adapter(t), nil, t.TempDir())

		result, err := orch.RunTests(context.Background(), &m.Artifact{}, 7, time.Second)
		require.NoError(t, err)
		assert.Equal(t, m.TestFailed, result.Status)
		assert.Equal(t, 1, result.FailedCount)
	})

	t.Run("timeout", func(t *testing.T) {
		binary := &fakeTestBinary{behavior: map[int]runBehavior{7: behaviorHang}}
		orch := domain.NewOrchestrator(binary.adapter(t), nil, t.TempDir())

		result, err := orch.RunTests(context.Background(), &m.Artifact{}, 7, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, m.TestTimeout, result.Status)
	})

	t.Run("no tests ran", func(t *testing.T) {
		runner := adaptermocks.NewMockTestRunnerAdapter(t)
		runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).Return("testing: warning: no tests to run\nPASS\n", nil)

		result, err := domain.NewOrchestrator(runner, nil, t.TempDir()).RunTests(context.Background(), &m.Artifact{}, 0, time.Second)
		require.NoError(t, err)
		assert.Equal(t, m.TestFailed, result.Status)
	})

	t.Run("runner failure", func(t *testing.T) {
		boom := errors.New("exec: go: not found")

		runner := adaptermocks.NewMockTestRunnerAdapter(t)
		runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).Return("", boom)

		_, err := domain.NewOrchestrator(runner, nil, t.TempDir()).RunTests(context.Background(), &m.Artifact{}, 0, time.Second)
		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		runner := adaptermocks.NewMockTestRunnerAdapter(t)
		runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).
			RunAndReturn(func(context.Context, *m.Artifact, []string) (string, error) {
				cancel()
				return "", context.Canceled
			})

		_, err := domain.NewOrchestrator(runner, nil, t.TempDir()).RunTests(ctx, &m.Artifact{}, 0, time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestOrchestrator_Execute(t *testing.T) {
	binary := &fakeTestBinary{
		covered: []int{0, 1, 2, 4, 5},
		behavior: map[int]runBehavior{
			0: behaviorFail,
			1: behaviorPass,
			2: behaviorHang,
		},
	}

	metrics := &recordingMetrics{}
	orch := domain.NewOrchestrator(binary.adapter(t), metrics, t.TempDir())

	filter, err := domain.NewMutantFilter("Line < 50")
	require.NoError(t, err)

	compiled := compiledMutants(
		mutantAt(0, 10, m.NotRun),
		mutantAt(1, 11, m.NotRun),
		mutantAt(2, 12, m.NotRun),
		mutantAt(3, 13, m.NotRun),
		mutantAt(4, 14, m.CompileError),
		mutantAt(5, 60, m.NotRun),
	)

	var reported []int

	results, err := orch.Execute(context.Background(), compiled, domain.ExecuteArgs{
		Parallel: 2,
		Timeout:  100 * time.Millisecond,
		Filter:   filter,
		SpillDir: t.TempDir(),
		OnResult: func(r m.MutantResult) { reported = append(reported, r.ID) },
	})
	require.NoError(t, err)

	statuses := make([]m.MutantStatus, 0, len(results))
	for i, r := range results {
		assert.Equal(t, i, r.ID, "results are sorted by id")
		statuses = append(statuses, r.Status)
	}

	assert.Equal(t, []m.MutantStatus{m.Killed, m.Survived, m.Timeout, m.NoCoverage, m.CompileError, m.Ignored}, statuses)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5}, reported)
	assert.Len(t, metrics.mutants, 6)

	// Only covered, selected and compiled mutants reach the test binary.
	assert.ElementsMatch(t, []int{mutctl.BaselineID, 0, 1, 2}, binary.runs)
	assert.Equal(t, 50.0, domain.MutationScore(results))
}

func TestOrchestrator_Execute_Errors(t *testing.T) {
	t.Run("no artifact", func(t *testing.T) {
		orch := domain.NewOrchestrator(adaptermocks.NewMockTestRunnerAdapter(t), nil, t.TempDir())

		_, err := orch.Execute(context.Background(), m.MutantCompilationResult{}, domain.ExecuteArgs{})
		require.ErrorContains(t, err, "no artifact")
	})

	t.Run("failing baseline", func(t *testing.T) {
		binary := &fakeTestBinary{behavior: map[int]runBehavior{mutctl.BaselineID: behaviorFail}}
		orch := domain.NewOrchestrator(binary.adapter(t), nil, t.TempDir())

		_, err := orch.Execute(context.Background(), compiledMutants(mutantAt(0, 4, m.NotRun)), domain.ExecuteArgs{SpillDir: t.TempDir()})
		require.ErrorContains(t, err, "baseline")
		assert.Equal(t, []int{mutctl.BaselineID}, binary.runs)
	})

	t.Run("mutant run failure", func(t *testing.T) {
		boom := errors.New("fork/exec: resource temporarily unavailable")
		binary := &fakeTestBinary{covered: []int{0}}

		runner := adaptermocks.NewMockTestRunnerAdapter(t)
		runner.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything).
			RunAndReturn(func(ctx context.Context, artifact *m.Artifact, args []string) (string, error) {
				if len(binary.runs) > 0 {
					return "", boom
				}

				return binary.run(ctx, artifact, args)
			})

		_, err := domain.NewOrchestrator(runner, nil, t.TempDir()).
			Execute(context.Background(), compiledMutants(mutantAt(0, 4, m.NotRun)), domain.ExecuteArgs{SpillDir: t.TempDir()})
		require.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "mutant 0")
	})
}

func TestNewMutantFilter(t *testing.T) {
	t.Run("empty matches everything", func(t *testing.T) {
		filter, err := domain.NewMutantFilter("")
		require.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("selects on mutant fields", func(t *testing.T) {
		filter, err := domain.NewMutantFilter(`Type in ["arithmetic", "comparison"] && Line < 40 && Original contains "+"`)
		require.NoError(t, err)

		matched, err := filter.Match(mutantAt(0, 10, m.NotRun))
		require.NoError(t, err)
		assert.True(t, matched)

		matched, err = filter.Match(mutantAt(0, 41, m.NotRun))
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("invalid expressions", func(t *testing.T) {
		for _, expression := range []string{"Line <", "Line + 1", "Unknown == 1"} {
			_, err := domain.NewMutantFilter(expression)
			require.ErrorContains(t, err, "invalid mutant filter", expression)
		}
	})
}

const initSource = `package calc

var base = 2

var X int

func init() {
	X = base + 3
}
`

const initTest = `package calc

import "testing"

func TestX(t *testing.T) {
	if X != 5 {
		t.Fatalf("X = %d, want 5", X)
	}
}
`

func TestOrchestrator_Execute_InitFunction(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	ctx := context.Background()
	workDir := t.TempDir()

	mc := domain.NewMutantCompiler(domain.NewCatalog(), domain.NewCompiler(adapter.NewToolchainBuilder(workDir)), domain.NewRollbackEngine(), nil)

	compiled, err := mc.Run(ctx, newUnit(initSource, initTest), domain.MutantCompileArgs{
		MutationTypes: []m.MutationType{m.MutationArithmetic},
	})
	require.NoError(t, err)
	require.True(t, compiled.Success, "%v", compiled.Diagnostics)
	require.Len(t, compiled.Mutants, 2)

	results, err := domain.NewOrchestrator(adapter.NewLocalTestRunnerAdapter(workDir), nil, workDir).
		Execute(ctx, compiled, domain.ExecuteArgs{Timeout: time.Minute, SpillDir: t.TempDir()})
	require.NoError(t, err)

	// Guards evaluated by init run before flag.Parse and still see the context.
	for _, r := range results {
		assert.Equal(t, m.Killed, r.Status, "mutant %d %q", r.ID, r.Replacement)
	}
}
