package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"gooze.dev/pkg/playground/internal/adapter"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// DefaultMaxAttempts bounds the compile calls of one mutated build.
const DefaultMaxAttempts = 50

// MutantCompileArgs configures a mutated build.
type MutantCompileArgs struct {
	MaxAttempts   int
	MutationTypes []m.MutationType
}

// MutantCompiler mutates a unit and compiles it, rolling back the guards
// that break the build until it compiles or the attempt budget runs out.
type MutantCompiler interface {
	Run(ctx context.Context, unit m.SourceUnit, args MutantCompileArgs) (m.MutantCompilationResult, error)
}

type mutantCompiler struct {
	catalog  Catalog
	compiler Compiler
	engine   RollbackEngine
	metrics  adapter.Metrics
}

// NewMutantCompiler constructs a MutantCompiler.
func NewMutantCompiler(catalog Catalog, compiler Compiler, engine RollbackEngine, metrics adapter.Metrics) MutantCompiler {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}

	return &mutantCompiler{
		catalog:  catalog,
		compiler: compiler,
		engine:   engine,
		metrics:  metrics,
	}
}

// session is the state of one Run: the live tree, the guards still in it
// and the cumulative rollback record.
type session struct {
	unit     m.SourceUnit
	tree     *srctree.Tree
	live     map[int]m.GuardedMutation
	removed  map[int]bool
	attempts []m.CompilationAttempt
}

func (s *session) removedIDs() []int {
	return slices.Sorted(maps.Keys(s.removed))
}

func (mc *mutantCompiler) Run(ctx context.Context, unit m.SourceUnit, args MutantCompileArgs) (m.MutantCompilationResult, error) {
	maxAttempts := args.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	mutated, guards, err := mc.catalog.Mutate(ctx, unit.Production, args.MutationTypes...)
	if err != nil {
		slog.Error("Failed to mutate source", "file", unit.Production.Name(), "error", err)
		return m.MutantCompilationResult{}, fmt.Errorf("failed to mutate source: %w", err)
	}

	s := &session{
		unit:    unit,
		tree:    mutated,
		live:    make(map[int]m.GuardedMutation, len(guards)),
		removed: make(map[int]bool),
	}
	for _, g := range guards {
		s.live[g.ID] = g
	}

	result, err := mc.compile(ctx, s)
	if err != nil {
		return m.MutantCompilationResult{}, err
	}

	var anomalies []m.EscalationAnomaly

	for !result.Success {
		if d, ok := unlocatedError(result.Diagnostics); ok {
			return m.MutantCompilationResult{}, mc.fatal(s, "build failed without a source location", &d)
		}

		if len(s.attempts) >= maxAttempts {
			return m.MutantCompilationResult{}, mc.fatal(s, fmt.Sprintf("still failing after %d attempts", maxAttempts), firstError(result.Diagnostics))
		}

		repair, err := mc.engine.Repair(s.tree, s.live, result.Diagnostics, len(s.attempts) == maxAttempts-1)
		if err != nil {
			return m.MutantCompilationResult{}, mc.fatalErr(s, err)
		}

		if len(repair.Removed) == 0 {
			return m.MutantCompilationResult{}, mc.fatal(s, "no mutation could be attributed to the build errors", firstError(result.Diagnostics))
		}

		for _, id := range repair.Removed {
			delete(s.live, id)
			s.removed[id] = true
		}

		s.attempts[len(s.attempts)-1].RemovedIDs = s.removedIDs()
		s.tree = repair.Tree
		anomalies = append(anomalies, repair.Anomalies...)
		mc.metrics.ObserveRollback(len(repair.Removed), repair.Anomalies)

		slog.Debug("Rolled back mutations", "attempt", len(s.attempts), "removed", repair.Removed)

		if result, err = mc.compile(ctx, s); err != nil {
			return m.MutantCompilationResult{}, err
		}
	}

	mutants := make([]m.MutantResult, 0, len(guards))
	for _, g := range guards {
		mutant := m.NewMutantResult(g)
		if s.removed[g.ID] {
			mutant.Status = m.CompileError
		}

		mutants = append(mutants, mutant)
	}

	slog.Info("Mutated build succeeded", "attempts", len(s.attempts), "mutants", len(guards), "removed", len(s.removed))

	return m.MutantCompilationResult{
		CompilationResult: result,
		Mutants:           mutants,
		Guards:            guards,
		OriginalTree:      unit.Production,
		MutatedTree:       mutated,
		FinalTree:         s.tree,
		Attempts:          s.attempts,
		Anomalies:         anomalies,
		RemovedIDs:        s.removedIDs(),
	}, nil
}

func (mc *mutantCompiler) compile(ctx context.Context, s *session) (m.CompilationResult, error) {
	start := time.Now()

	result, err := mc.compiler.Compile(ctx, s.unit.WithProduction(s.tree))
	if err != nil {
		slog.Error("Failed to compile mutated unit", "attempt", len(s.attempts)+1, "error", err)
		return m.CompilationResult{}, fmt.Errorf("failed to compile mutated unit: %w", err)
	}

	mc.metrics.ObserveCompile(result.Success, time.Since(start))

	s.attempts = append(s.attempts, m.CompilationAttempt{
		Number:      len(s.attempts) + 1,
		Tree:        s.tree,
		Diagnostics: result.Diagnostics,
		Success:     result.Success,
		RemovedIDs:  s.removedIDs(),
	})

	return result, nil
}

func (mc *mutantCompiler) fatal(s *session, reason string, d *m.Diagnostic) error {
	return mc.fatalErr(s, &UnrecoverableBuildError{Reason: reason, Diagnostic: d})
}

func (mc *mutantCompiler) fatalErr(s *session, err error) error {
	var ube *UnrecoverableBuildError
	if errors.As(err, &ube) {
		ube.Attempts = len(s.attempts)
	}

	slog.Error("Mutated build is unrecoverable", "attempts", len(s.attempts), "removed", s.removedIDs(), "error", err)

	return err
}

func unlocatedError(diags []m.Diagnostic) (m.Diagnostic, bool) {
	for _, d := range diags {
		if d.Unlocated() {
			return d, true
		}
	}

	return m.Diagnostic{}, false
}
