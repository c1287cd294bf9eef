package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/playground/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	if s.config.source != "" && s.config.mode != ModeView {
		s.printf("Playground: %s\n", s.config.source)
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayDiagnostics prints compiler diagnostics one per line.
func (s *SimpleUI) DisplayDiagnostics(ctx context.Context, diagnostics []m.Diagnostic) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, d := range diagnostics {
		s.printf("%s\n", d)
	}
}

// DisplayTestRun prints the output and outcome of a plain test run.
func (s *SimpleUI) DisplayTestRun(ctx context.Context, result m.TestRunResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, line := range result.Output {
		s.printf("%s\n", line)
	}

	s.printf("Tests %s: %d run, %d failed (%s)\n", result.Status, result.TestCount, result.FailedCount, result.Duration.Round(1e6))
}

// DisplayCompilation summarises the mutated build.
func (s *SimpleUI) DisplayCompilation(ctx context.Context, result m.MutantCompilationResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Mutated build: %d mutations, %d rolled back, %d attempt(s)\n",
		len(result.Mutants), len(result.RemovedIDs), len(result.Attempts))

	for _, anomaly := range result.Anomalies {
		s.printf("Warning: %s rollback removed %v in %s\n", anomaly.Mode, anomaly.RemovedIDs, anomaly.File)
	}
}

// DisplayUpcomingTestsInfo shows the number of upcoming mutations to be tested.
func (s *SimpleUI) DisplayUpcomingTestsInfo(ctx context.Context, count int, parallel int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Running %d mutations with %d worker(s)\n", count, max(parallel, 1))
}

// DisplayCompletedTestInfo shows info about the mutation test completion.
func (s *SimpleUI) DisplayCompletedTestInfo(ctx context.Context, result m.MutantResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Completed mutation %d (%s) %d:%d -> %s\n", result.ID, result.Type, result.Line, result.Column, result.Status)

	if result.Status == m.Survived && result.Diff != "" {
		s.printf("%s\n", strings.TrimRight(result.Diff, "\n"))
	}
}

// DisplayReport prints the mutant table and the mutation score.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderReportTable(report))

	for _, anomaly := range report.Anomalies {
		s.printf("Warning: %s rollback removed %v\n", anomaly.Mode, anomaly.RemovedIDs)
	}

	s.printf("Mutation score: %.2f%%\n", report.Score)
}

func renderReportTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Type", "Position", "Mutation", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, mutant := range report.Mutants {
		table.Append([]string{
			fmt.Sprintf("%d", mutant.ID),
			string(mutant.Type),
			fmt.Sprintf("%d:%d", mutant.Line, mutant.Column),
			summarize(mutant.Original) + " -> " + summarize(mutant.Replacement),
			mutant.Status.String(),
		})
	}

	counts := report.Counts()
	table.SetFooter([]string{
		"",
		fmt.Sprintf("Total %d", len(report.Mutants)),
		fmt.Sprintf("killed %d", counts[m.Killed]+counts[m.Timeout]),
		fmt.Sprintf("survived %d", counts[m.Survived]+counts[m.NoCoverage]),
		fmt.Sprintf("%.2f%%", report.Score),
	})

	table.Render()

	return tableBuffer.String()
}

const summaryWidth = 32

// summarize collapses code to one line short enough for a table cell.
func summarize(code string) string {
	code = strings.Join(strings.Fields(code), " ")
	if len(code) > summaryWidth {
		return code[:summaryWidth-3] + "..."
	}

	return code
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
