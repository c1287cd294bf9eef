package domain

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gooze.dev/pkg/playground/internal/adapter"
	"gooze.dev/pkg/playground/internal/controller"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
)

type workflowPipeline struct {
	adapter.ReportStore
	adapter.SourceFSAdapter
	controller.UI
	Compiler
	MutantCompiler
	Orchestrator

	cache    adapter.ResultCache
	validate *validator.Validate
	now      func() time.Time
}

// NewWorkflowPipeline creates a new Workflow instance with the provided dependencies.
func NewWorkflowPipeline(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	cache adapter.ResultCache,
	ui controller.UI,
	compiler Compiler,
	mutantCompiler MutantCompiler,
	orchestrator Orchestrator,
) Workflow {
	if cache == nil {
		cache = adapter.NopResultCache{}
	}

	return &workflowPipeline{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Compiler:        compiler,
		MutantCompiler:  mutantCompiler,
		Orchestrator:    orchestrator,
		cache:           cache,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		now:             time.Now,
	}
}

func (w *workflowPipeline) UnitTests(ctx context.Context, args UnitTestsArgs) (m.TestRunResult, error) {
	if err := w.validate.Struct(args); err != nil {
		return m.TestRunResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	unit, err := w.LoadUnit(args.Session)
	if err != nil {
		slog.Error("Failed to load source unit", "source", args.Session.Source, "error", err)
		return m.TestRunResult{}, fmt.Errorf("failed to load source unit: %w", err)
	}

	if err := w.UI.Start(ctx, controller.WithUnitTestMode(), controller.WithSource(unit.Production.Name())); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.TestRunResult{}, err
	}

	defer w.UI.Close(ctx)

	run, err := w.compileAndTest(ctx, unit, args.Timeout)
	if err != nil && !rejected(err) {
		return m.TestRunResult{}, err
	}

	w.Wait(ctx)

	return run, err
}

func (w *workflowPipeline) MutationTests(ctx context.Context, args MutationTestsArgs) (m.Report, error) {
	if err := w.validate.Struct(args); err != nil {
		return m.Report{}, fmt.Errorf("invalid arguments: %w", err)
	}

	filter, err := NewMutantFilter(args.Filter)
	if err != nil {
		return m.Report{}, err
	}

	unit, err := w.LoadUnit(args.Session)
	if err != nil {
		slog.Error("Failed to load source unit", "source", args.Session.Source, "error", err)
		return m.Report{}, fmt.Errorf("failed to load source unit: %w", err)
	}

	if err := w.UI.Start(ctx, controller.WithMutationMode(), controller.WithSource(unit.Production.Name())); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Report{}, err
	}

	defer w.UI.Close(ctx)

	key := cacheKey(unit, args)

	if args.UseCache {
		report, hit, err := w.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("Failed to read result cache", "error", err)
		}

		if hit {
			slog.Info("Using cached mutation report", "session", report.SessionID)
			w.DisplayReport(ctx, report)
			w.Wait(ctx)

			return report, nil
		}
	}

	if _, err := w.compileAndTest(ctx, unit, args.Timeout); err != nil {
		if rejected(err) {
			w.Wait(ctx)
		}

		return m.Report{}, err
	}

	compiled, err := w.Run(ctx, unit, MutantCompileArgs{
		MaxAttempts:   args.MaxAttempts,
		MutationTypes: args.MutationTypes,
	})
	if err != nil {
		slog.Error("Failed to build mutated unit", "error", err)
		return m.Report{}, err
	}

	w.DisplayCompilation(ctx, compiled)
	w.DisplayUpcomingTestsInfo(ctx, len(compiled.Mutants)-len(compiled.RemovedIDs), args.Parallel)

	results, err := w.Execute(ctx, compiled, ExecuteArgs{
		Parallel: args.Parallel,
		Timeout:  args.Timeout,
		Filter:   filter,
		SpillDir: args.SpillDir,
		OnResult: func(result m.MutantResult) {
			w.DisplayCompletedTestInfo(ctx, result)
		},
	})
	if err != nil {
		slog.Error("Failed to execute mutants", "error", err)
		return m.Report{}, fmt.Errorf("failed to execute mutants: %w", err)
	}

	report := m.Report{
		SessionID:   uuid.NewString(),
		CreatedAt:   w.now().UTC(),
		SourceName:  unit.Production.Name(),
		SourceHash:  unit.Hash(),
		Mutants:     results,
		Score:       MutationScore(results),
		Attempts:    len(compiled.Attempts),
		Diagnostics: compiled.Diagnostics,
		Anomalies:   compiled.Anomalies,
	}

	if err := w.SaveReport(args.Reports, report); err != nil {
		slog.Error("Failed to save report", "dir", args.Reports, "error", err)
		return m.Report{}, fmt.Errorf("failed to save report: %w", err)
	}

	if err := w.cache.Put(ctx, key, report); err != nil {
		slog.Warn("Failed to cache mutation report", "error", err)
	}

	w.DisplayReport(ctx, report)
	w.Wait(ctx)

	return report, nil
}

func (w *workflowPipeline) View(ctx context.Context, args ViewArgs) (m.Report, error) {
	if err := w.validate.Struct(args); err != nil {
		return m.Report{}, fmt.Errorf("invalid arguments: %w", err)
	}

	report, err := w.LoadReport(args.Reports, args.SessionID)
	if err != nil {
		slog.Error("Failed to load report", "dir", args.Reports, "session", args.SessionID, "error", err)
		return m.Report{}, fmt.Errorf("failed to load report: %w", err)
	}

	if err := w.UI.Start(ctx, controller.WithViewMode(), controller.WithSource(report.SourceName)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Report{}, err
	}

	defer w.UI.Close(ctx)

	w.DisplayReport(ctx, report)
	w.Wait(ctx)

	return report, nil
}

// compileAndTest builds the unmutated unit and runs its tests once. A unit
// that does not compile or whose tests fail ends the action.
func (w *workflowPipeline) compileAndTest(ctx context.Context, unit m.SourceUnit, timeout time.Duration) (m.TestRunResult, error) {
	result, err := w.Compile(ctx, unit)
	if err != nil {
		slog.Error("Failed to compile unit", "error", err)
		return m.TestRunResult{}, fmt.Errorf("failed to compile unit: %w", err)
	}

	if !result.Success {
		errs := m.Errors(result.Diagnostics)
		w.DisplayDiagnostics(ctx, errs)

		return m.TestRunResult{}, fmt.Errorf("%w: %d error(s)", ErrCompilationFailed, len(errs))
	}

	if len(result.Diagnostics) > 0 {
		w.DisplayDiagnostics(ctx, result.Diagnostics)
	}

	run, err := w.RunTests(ctx, result.Artifact, mutctl.BaselineID, timeout)
	if err != nil {
		slog.Error("Failed to run unit tests", "error", err)
		return m.TestRunResult{}, fmt.Errorf("failed to run unit tests: %w", err)
	}

	w.DisplayTestRun(ctx, run)

	if !run.Passed() {
		return run, fmt.Errorf("%w: %s", ErrUnitTestsFailed, run.Status)
	}

	return run, nil
}

// rejected reports whether err is a verdict on the submitted unit rather than
// an infrastructure failure.
func rejected(err error) bool {
	return errors.Is(err, ErrCompilationFailed) || errors.Is(err, ErrUnitTestsFailed)
}

// cacheKey identifies a mutation session by its unit and every option that
// changes the resulting report.
func cacheKey(unit m.SourceUnit, args MutationTestsArgs) string {
	h := sha256.New()

	fmt.Fprintf(h, "unit:%s\x00", unit.Hash())
	fmt.Fprintf(h, "types:%v\x00", args.MutationTypes)
	fmt.Fprintf(h, "filter:%s\x00", args.Filter)
	fmt.Fprintf(h, "attempts:%d\x00", args.MaxAttempts)
	fmt.Fprintf(h, "timeout:%s\x00", args.Timeout)

	return fmt.Sprintf("%x", h.Sum(nil))
}
