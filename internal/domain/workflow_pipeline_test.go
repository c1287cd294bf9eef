package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "gooze.dev/pkg/playground/internal/adapter/mocks"
	controllermocks "gooze.dev/pkg/playground/internal/controller/mocks"
	"gooze.dev/pkg/playground/internal/domain"
	domainmocks "gooze.dev/pkg/playground/internal/domain/mocks"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
)

type pipelineMocks struct {
	fs             *adaptermocks.MockSourceFSAdapter
	store          *adaptermocks.MockReportStore
	cache          *adaptermocks.MockResultCache
	ui             *controllermocks.MockUI
	compiler       *domainmocks.MockCompiler
	mutantCompiler *domainmocks.MockMutantCompiler
	orchestrator   *domainmocks.MockOrchestrator
}

func newPipelineMocks(t *testing.T) *pipelineMocks {
	return &pipelineMocks{
		fs:             adaptermocks.NewMockSourceFSAdapter(t),
		store:          adaptermocks.NewMockReportStore(t),
		cache:          adaptermocks.NewMockResultCache(t),
		ui:             controllermocks.NewMockUI(t),
		compiler:       domainmocks.NewMockCompiler(t),
		mutantCompiler: domainmocks.NewMockMutantCompiler(t),
		orchestrator:   domainmocks.NewMockOrchestrator(t),
	}
}

func (p *pipelineMocks) workflow() domain.Workflow {
	return domain.NewWorkflowPipeline(p.fs, p.store, p.cache, p.ui, p.compiler, p.mutantCompiler, p.orchestrator)
}

var (
	testSession  = m.Session{Source: "calc.go", Test: "calc_test.go"}
	testArtifact = &m.Artifact{Kind: m.ArtifactSourceBundle}
)

// expectBaseline sets up a unit that compiles and whose tests pass.
func (p *pipelineMocks) expectBaseline(unit m.SourceUnit, timeout time.Duration) {
	p.fs.EXPECT().LoadUnit(testSession).Return(unit, nil).Once()
	p.compiler.EXPECT().Compile(mock.Anything, unit).
		Return(m.CompilationResult{Success: true, Artifact: testArtifact}, nil).Once()
	p.orchestrator.EXPECT().RunTests(mock.Anything, testArtifact, mutctl.BaselineID, timeout).
		Return(m.TestRunResult{Status: m.TestPassed, TestCount: 2}, nil).Once()
	p.ui.EXPECT().DisplayTestRun(mock.Anything, mock.Anything).Return().Once()
}

func compiledSession() m.MutantCompilationResult {
	return m.MutantCompilationResult{
		CompilationResult: m.CompilationResult{Success: true, Artifact: testArtifact},
		Mutants: []m.MutantResult{
			{ID: 0, Type: m.MutationArithmetic, Status: m.NotRun},
			{ID: 1, Type: m.MutationArithmetic, Status: m.NotRun},
			{ID: 2, Type: m.MutationComparison, Status: m.CompileError},
		},
		Attempts:   []m.CompilationAttempt{{Number: 1}, {Number: 2, Success: true}},
		RemovedIDs: []int{2},
	}
}

func TestWorkflowPipeline_UnitTests_Success(t *testing.T) {
	// Arrange
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)

	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.expectBaseline(unit, time.Second)
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	// Act
	run, err := p.workflow().UnitTests(context.Background(), domain.UnitTestsArgs{Session: testSession, Timeout: time.Second})

	// Assert
	require.NoError(t, err)
	assert.True(t, run.Passed())
}

func TestWorkflowPipeline_UnitTests_LoadError(t *testing.T) {
	p := newPipelineMocks(t)
	p.fs.EXPECT().LoadUnit(testSession).Return(m.SourceUnit{}, errors.New("no such file")).Once()

	_, err := p.workflow().UnitTests(context.Background(), domain.UnitTestsArgs{Session: testSession})
	require.ErrorContains(t, err, "failed to load source unit")
}

func TestWorkflowPipeline_UnitTests_StartError(t *testing.T) {
	p := newPipelineMocks(t)
	boom := errors.New("no terminal")

	p.fs.EXPECT().LoadUnit(testSession).Return(newUnit(calcSource, calcTest), nil).Once()
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()

	_, err := p.workflow().UnitTests(context.Background(), domain.UnitTestsArgs{Session: testSession})
	require.ErrorIs(t, err, boom)
}

func TestWorkflowPipeline_MutationTests_Success(t *testing.T) {
	// Arrange
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)
	compiled := compiledSession()
	executed := []m.MutantResult{
		{ID: 0, Status: m.Killed},
		{ID: 1, Status: m.Survived},
		{ID: 2, Status: m.CompileError},
	}

	args := domain.MutationTestsArgs{
		Session:       testSession,
		Reports:       "reports",
		UseCache:      true,
		Parallel:      4,
		MaxAttempts:   10,
		Timeout:       time.Second,
		MutationTypes: []m.MutationType{m.MutationArithmetic, m.MutationComparison},
		Filter:        `Line > 0`,
	}

	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.cache.EXPECT().Get(mock.Anything, mock.Anything).Return(m.Report{}, false, nil).Once()
	p.expectBaseline(unit, time.Second)

	p.mutantCompiler.EXPECT().Run(mock.Anything, unit, domain.MutantCompileArgs{
		MaxAttempts:   10,
		MutationTypes: args.MutationTypes,
	}).Return(compiled, nil).Once()
	p.ui.EXPECT().DisplayCompilation(mock.Anything, compiled).Return().Once()
	p.ui.EXPECT().DisplayUpcomingTestsInfo(mock.Anything, 2, 4).Return().Once()

	p.orchestrator.EXPECT().Execute(mock.Anything, compiled, mock.MatchedBy(func(a domain.ExecuteArgs) bool {
		return a.Parallel == 4 && a.Timeout == time.Second && a.Filter != nil && a.OnResult != nil
	})).RunAndReturn(func(_ context.Context, _ m.MutantCompilationResult, a domain.ExecuteArgs) ([]m.MutantResult, error) {
		for _, r := range executed {
			a.OnResult(r)
		}

		return executed, nil
	}).Once()
	p.ui.EXPECT().DisplayCompletedTestInfo(mock.Anything, mock.Anything).Return().Times(3)

	var saved m.Report

	p.store.EXPECT().SaveReport(m.Path("reports"), mock.Anything).
		Run(func(_ m.Path, report m.Report) { saved = report }).
		Return(nil).Once()
	p.cache.EXPECT().Put(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.ui.EXPECT().DisplayReport(mock.Anything, mock.Anything).Return().Once()
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	// Act
	report, err := p.workflow().MutationTests(context.Background(), args)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, saved, report)
	assert.Equal(t, "calc.go", report.SourceName)
	assert.Equal(t, unit.Hash(), report.SourceHash)
	assert.Equal(t, executed, report.Mutants)
	assert.Equal(t, 50.0, report.Score)
	assert.Equal(t, 2, report.Attempts)
	assert.False(t, report.CreatedAt.IsZero())

	_, err = uuid.Parse(report.SessionID)
	assert.NoError(t, err)
}

func TestWorkflowPipeline_MutationTests_CacheHit(t *testing.T) {
	p := newPipelineMocks(t)
	cached := m.Report{SessionID: uuid.NewString(), SourceName: "calc.go", Score: 75}

	p.fs.EXPECT().LoadUnit(testSession).Return(newUnit(calcSource, calcTest), nil).Once()
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.cache.EXPECT().Get(mock.Anything, mock.Anything).Return(cached, true, nil).Once()
	p.ui.EXPECT().DisplayReport(mock.Anything, cached).Return().Once()
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	report, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{
		Session:  testSession,
		Reports:  "reports",
		UseCache: true,
	})
	require.NoError(t, err)
	assert.Equal(t, cached, report)
}

func TestWorkflowPipeline_MutationTests_CacheKeyFollowsOptions(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)

	var keys []string

	p.fs.EXPECT().LoadUnit(testSession).Return(unit, nil).Times(3)
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)
	p.cache.EXPECT().Get(mock.Anything, mock.Anything).
		Run(func(_ context.Context, key string) { keys = append(keys, key) }).
		Return(m.Report{}, true, nil).Times(3)
	p.ui.EXPECT().DisplayReport(mock.Anything, mock.Anything).Return().Times(3)
	p.ui.EXPECT().Wait(mock.Anything).Return().Times(3)
	p.ui.EXPECT().Close(mock.Anything).Return().Times(3)

	wf := p.workflow()
	base := domain.MutationTestsArgs{Session: testSession, Reports: "reports", UseCache: true}

	withTypes := base
	withTypes.MutationTypes = []m.MutationType{m.MutationBranch}

	for _, args := range []domain.MutationTestsArgs{base, base, withTypes} {
		_, err := wf.MutationTests(context.Background(), args)
		require.NoError(t, err)
	}

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1])
	assert.NotEqual(t, keys[0], keys[2])
}

func TestWorkflowPipeline_MutationTests_CompileRejected(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)
	diags := []m.Diagnostic{
		{Severity: m.SeverityWarning, Message: "unused"},
		{Severity: m.SeverityError, Message: "undefined: x", Location: &m.Location{File: "calc.go", Line: 4, Column: 9}},
	}

	p.fs.EXPECT().LoadUnit(testSession).Return(unit, nil).Once()
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.compiler.EXPECT().Compile(mock.Anything, unit).Return(m.CompilationResult{Diagnostics: diags}, nil).Once()
	p.ui.EXPECT().DisplayDiagnostics(mock.Anything, diags[1:]).Return().Once()
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{Session: testSession, Reports: "reports"})
	require.ErrorIs(t, err, domain.ErrCompilationFailed)
}

func TestWorkflowPipeline_MutationTests_TestsRejected(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)

	p.fs.EXPECT().LoadUnit(testSession).Return(unit, nil).Once()
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.compiler.EXPECT().Compile(mock.Anything, unit).Return(m.CompilationResult{Success: true, Artifact: testArtifact}, nil).Once()
	p.orchestrator.EXPECT().RunTests(mock.Anything, testArtifact, mutctl.BaselineID, time.Duration(0)).
		Return(m.TestRunResult{Status: m.TestFailed, TestCount: 2, FailedCount: 1}, nil).Once()
	p.ui.EXPECT().DisplayTestRun(mock.Anything, mock.Anything).Return().Once()
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{Session: testSession, Reports: "reports"})
	require.ErrorIs(t, err, domain.ErrUnitTestsFailed)
}

func TestWorkflowPipeline_MutationTests_UnrecoverableBuild(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)

	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.expectBaseline(unit, 0)
	p.mutantCompiler.EXPECT().Run(mock.Anything, unit, mock.Anything).
		Return(m.MutantCompilationResult{}, &domain.UnrecoverableBuildError{Reason: "still failing", Attempts: 50}).Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{Session: testSession, Reports: "reports"})
	require.ErrorIs(t, err, domain.ErrUnrecoverableBuild)
}

func TestWorkflowPipeline_MutationTests_SaveError(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)
	compiled := compiledSession()

	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.expectBaseline(unit, 0)
	p.mutantCompiler.EXPECT().Run(mock.Anything, unit, mock.Anything).Return(compiled, nil).Once()
	p.ui.EXPECT().DisplayCompilation(mock.Anything, compiled).Return().Once()
	p.ui.EXPECT().DisplayUpcomingTestsInfo(mock.Anything, 2, 0).Return().Once()
	p.orchestrator.EXPECT().Execute(mock.Anything, compiled, mock.Anything).Return(compiled.Mutants, nil).Once()
	p.store.EXPECT().SaveReport(m.Path("reports"), mock.Anything).Return(errors.New("read-only file system")).Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{Session: testSession, Reports: "reports"})
	require.ErrorContains(t, err, "failed to save report")
}

func TestWorkflowPipeline_MutationTests_ExecuteError(t *testing.T) {
	p := newPipelineMocks(t)
	unit := newUnit(calcSource, calcTest)
	compiled := compiledSession()

	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.expectBaseline(unit, 0)
	p.mutantCompiler.EXPECT().Run(mock.Anything, unit, mock.Anything).Return(compiled, nil).Once()
	p.ui.EXPECT().DisplayCompilation(mock.Anything, compiled).Return().Once()
	p.ui.EXPECT().DisplayUpcomingTestsInfo(mock.Anything, 2, 0).Return().Once()
	p.orchestrator.EXPECT().Execute(mock.Anything, compiled, mock.Anything).Return(nil, errors.New("baseline run: failed")).Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := p.workflow().MutationTests(context.Background(), domain.MutationTestsArgs{Session: testSession, Reports: "reports"})
	require.ErrorContains(t, err, "failed to execute mutants")
}

func TestWorkflowPipeline_MutationTests_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args domain.MutationTestsArgs
	}{
		{name: "missing reports", args: domain.MutationTestsArgs{Session: testSession}},
		{name: "too parallel", args: domain.MutationTestsArgs{Session: testSession, Reports: "r", Parallel: 1000}},
		{name: "negative timeout", args: domain.MutationTestsArgs{Session: testSession, Reports: "r", Timeout: -time.Second}},
		{name: "unknown mutation", args: domain.MutationTestsArgs{Session: testSession, Reports: "r", MutationTypes: []m.MutationType{"bitwise"}}},
		{name: "bad filter", args: domain.MutationTestsArgs{Session: testSession, Reports: "r", Filter: "Line <"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipelineMocks(t)

			_, err := p.workflow().MutationTests(context.Background(), tt.args)
			require.Error(t, err)
		})
	}
}

func TestWorkflowPipeline_View(t *testing.T) {
	p := newPipelineMocks(t)
	id := uuid.NewString()
	saved := m.Report{SessionID: id, SourceName: "calc.go"}

	p.store.EXPECT().LoadReport(m.Path("reports"), id).Return(saved, nil).Once()
	p.ui.EXPECT().Start(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	p.ui.EXPECT().DisplayReport(mock.Anything, saved).Return().Once()
	p.ui.EXPECT().Wait(mock.Anything).Return().Once()
	p.ui.EXPECT().Close(mock.Anything).Return().Once()

	report, err := p.workflow().View(context.Background(), domain.ViewArgs{Reports: "reports", SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, saved, report)
}

func TestWorkflowPipeline_View_Errors(t *testing.T) {
	t.Run("invalid session id", func(t *testing.T) {
		p := newPipelineMocks(t)

		_, err := p.workflow().View(context.Background(), domain.ViewArgs{Reports: "reports", SessionID: "latest"})
		require.ErrorContains(t, err, "invalid arguments")
	})

	t.Run("missing report", func(t *testing.T) {
		p := newPipelineMocks(t)
		p.store.EXPECT().LoadReport(m.Path("reports"), "").Return(m.Report{}, errors.New("no reports")).Once()

		_, err := p.workflow().View(context.Background(), domain.ViewArgs{Reports: "reports"})
		require.ErrorContains(t, err, "failed to load report")
	})
}
