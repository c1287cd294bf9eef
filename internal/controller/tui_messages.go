package controller

import m "gooze.dev/pkg/playground/internal/model"

// Message types.
type diagnosticsMsg struct {
	diagnostics []m.Diagnostic
}

type testRunMsg struct {
	result m.TestRunResult
}

type compilationMsg struct {
	mutants   int
	removed   int
	attempts  int
	anomalies []m.EscalationAnomaly
}

type upcomingMsg struct {
	count    int
	parallel int
}

type completedMutationMsg struct {
	result m.MutantResult
}

type reportMsg struct {
	report m.Report
}

type finishedMsg struct{}
