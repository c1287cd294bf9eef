package domain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/playground/internal/adapter"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg"
	"gooze.dev/pkg/playground/pkg/mutctl"
)

// DefaultMutationTimeout bounds a single mutant execution.
const DefaultMutationTimeout = 10 * time.Second

// ExecuteArgs configures mutant execution.
type ExecuteArgs struct {
	Parallel int
	Timeout  time.Duration
	Filter   MutantFilter
	SpillDir string
	// OnResult is called once per final mutant result, never concurrently.
	OnResult func(m.MutantResult)
}

// Orchestrator runs compiled units: one baseline coverage pass, then every
// covered mutant in its own execution context.
type Orchestrator interface {
	RunTests(ctx context.Context, artifact *m.Artifact, activeID int, timeout time.Duration) (m.TestRunResult, error)
	Execute(ctx context.Context, compiled m.MutantCompilationResult, args ExecuteArgs) ([]m.MutantResult, error)
}

type orchestrator struct {
	testAdapter adapter.TestRunnerAdapter
	metrics     adapter.Metrics
	workDir     string
}

// NewOrchestrator constructs an Orchestrator backed by the provided test
// runner. Execution contexts are created under workDir.
func NewOrchestrator(testAdapter adapter.TestRunnerAdapter, metrics adapter.Metrics, workDir string) Orchestrator {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}

	return &orchestrator{
		testAdapter: testAdapter,
		metrics:     metrics,
		workDir:     workDir,
	}
}

func (o *orchestrator) RunTests(ctx context.Context, artifact *m.Artifact, activeID int, timeout time.Duration) (m.TestRunResult, error) {
	ec, err := mutctl.NewExecutionContext(o.workDir, activeID)
	if err != nil {
		return m.TestRunResult{}, err
	}

	defer func() {
		if err := ec.Close(); err != nil {
			slog.Warn("Failed to remove execution context", "dir", ec.Dir(), "error", err)
		}
	}()

	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	output, runErr := o.testAdapter.Run(runCtx, artifact, ec.Args())

	result := parseTestOutput(output)
	result.Duration = time.Since(start)

	switch {
	case ctx.Err() != nil:
		return m.TestRunResult{}, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Status = m.TestTimeout
	case runErr != nil && !errors.Is(runErr, adapter.ErrTestsFailed):
		slog.Error("Failed to run tests", "active", activeID, "error", runErr)
		return m.TestRunResult{}, fmt.Errorf("failed to run tests: %w", runErr)
	case runErr != nil || result.FailedCount > 0 || result.TestCount == 0:
		result.Status = m.TestFailed
	default:
		result.Status = m.TestPassed
	}

	covered, err := ec.Load()
	if err != nil {
		return m.TestRunResult{}, err
	}

	result.CoveredIDs = covered.Covered()

	return result, nil
}

func (o *orchestrator) Execute(ctx context.Context, compiled m.MutantCompilationResult, args ExecuteArgs) ([]m.MutantResult, error) {
	if !compiled.Success || compiled.Artifact == nil {
		return nil, fmt.Errorf("mutated unit has no artifact")
	}

	timeout := args.Timeout
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}

	baseline, err := o.RunTests(ctx, compiled.Artifact, mutctl.BaselineID, timeout)
	if err != nil {
		return nil, fmt.Errorf("baseline run: %w", err)
	}

	if !baseline.Passed() {
		slog.Error("Baseline run did not pass", "status", baseline.Status, "failed", baseline.FailedCount)
		return nil, fmt.Errorf("baseline run with no active mutation: %s", baseline.Status)
	}

	covered := make(map[int]bool, len(baseline.CoveredIDs))
	for _, id := range baseline.CoveredIDs {
		covered[id] = true
	}

	spill, err := pkg.NewFileSpill[m.MutantResult](args.SpillDir)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := spill.Discard(); err != nil {
			slog.Warn("Failed to discard result spill", "path", spill.Path(), "error", err)
		}
	}()

	var mu sync.Mutex

	emit := func(result m.MutantResult) error {
		mu.Lock()
		defer mu.Unlock()

		o.metrics.ObserveMutant(result)

		if args.OnResult != nil {
			args.OnResult(result)
		}

		return spill.Append(result)
	}

	var pending []m.MutantResult

	for _, mutant := range compiled.Mutants {
		if mutant.Status == m.NotRun {
			mutant.Status, err = classify(mutant, args.Filter, covered)
			if err != nil {
				return nil, err
			}
		}

		if mutant.Status == m.NotRun {
			pending = append(pending, mutant)
			continue
		}

		if err := emit(mutant); err != nil {
			return nil, err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for _, mutant := range pending {
		group.Go(func() error {
			run, err := o.RunTests(groupCtx, compiled.Artifact, mutant.ID, timeout)
			if err != nil {
				return fmt.Errorf("mutant %d: %w", mutant.ID, err)
			}

			mutant.Status = statusForRun(run)
			mutant.Duration = run.Duration

			slog.Debug("Mutant executed", "id", mutant.ID, "status", mutant.Status, "duration", run.Duration)

			return emit(mutant)
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Failed to execute mutants", "error", err)
		return nil, err
	}

	results := make([]m.MutantResult, 0, len(compiled.Mutants))

	err = spill.Range(func(_ uint64, result m.MutantResult) error {
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read mutant results: %w", err)
	}

	slices.SortFunc(results, func(a, b m.MutantResult) int { return a.ID - b.ID })

	return results, nil
}

func classify(mutant m.MutantResult, filter MutantFilter, covered map[int]bool) (m.MutantStatus, error) {
	if filter != nil {
		matched, err := filter.Match(mutant)
		if err != nil {
			return m.NotRun, err
		}

		if !matched {
			return m.Ignored, nil
		}
	}

	if !covered[mutant.ID] {
		return m.NoCoverage, nil
	}

	return m.NotRun, nil
}

func statusForRun(run m.TestRunResult) m.MutantStatus {
	switch run.Status {
	case m.TestTimeout:
		return m.Timeout
	case m.TestPassed:
		return m.Survived
	case m.TestFailed:
		return m.Killed
	}

	return m.Killed
}

var testResultLine = regexp.MustCompile(`^--- (PASS|FAIL|SKIP): `)

// parseTestOutput counts top-level test results of verbose go test output.
func parseTestOutput(output string) m.TestRunResult {
	var result m.TestRunResult

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		result.Output = append(result.Output, line)

		match := testResultLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		result.TestCount++
		if match[1] == "FAIL" {
			result.FailedCount++
		}
	}

	return result
}
