package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gooze.dev/pkg/playground/internal/model"
)

var (
	accentColor = lipgloss.Color("6")

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)

	accentStyle = lipgloss.NewStyle().Foreground(accentColor)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Margin(0, 1, 0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(accentColor).
			Bold(true)
)

var statusColors = map[m.MutantStatus]lipgloss.Color{
	m.Killed:       lipgloss.Color("2"),
	m.Timeout:      lipgloss.Color("2"),
	m.Survived:     lipgloss.Color("1"),
	m.NoCoverage:   lipgloss.Color("3"),
	m.CompileError: lipgloss.Color("8"),
	m.Ignored:      lipgloss.Color("8"),
}

// playgroundModel renders one playground action: a unit test run, a
// mutation session or a saved report.
type playgroundModel struct {
	config StartConfig
	width  int
	height int

	spinner     spinner.Model
	progressBar progress.Model

	diagnostics []m.Diagnostic
	testRun     *m.TestRunResult
	compilation *compilationMsg
	total       int
	parallel    int
	results     []m.MutantResult
	report      *m.Report

	finished bool
	selected int
	showDiff bool
}

func newPlaygroundModel(config StartConfig) playgroundModel {
	return playgroundModel{
		config:  config,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

func (pm playgroundModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.width = msg.Width
		pm.height = msg.Height
		pm.progressBar.Width = max(msg.Width-8, 20)

	case tea.KeyMsg:
		return pm.handleKeyMsg(msg)

	case spinner.TickMsg:
		if pm.finished {
			return pm, nil
		}

		var cmd tea.Cmd

		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd

	case diagnosticsMsg:
		pm.diagnostics = append(pm.diagnostics, msg.diagnostics...)

	case testRunMsg:
		result := msg.result
		pm.testRun = &result

	case compilationMsg:
		pm.compilation = &msg

	case upcomingMsg:
		pm.total = msg.count
		pm.parallel = max(msg.parallel, 1)

	case completedMutationMsg:
		pm.results = append(pm.results, msg.result)

	case reportMsg:
		report := msg.report
		pm.report = &report
		pm.results = report.Mutants

	case finishedMsg:
		pm.finished = true
	}

	return pm, nil
}

func (pm playgroundModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return pm, tea.Quit
	case "down", "j":
		if pm.selected < len(pm.results)-1 {
			pm.selected++
		}
	case "up", "k":
		if pm.selected > 0 {
			pm.selected--
		}
	case "g", "home":
		pm.selected = 0
	case "G", "end":
		pm.selected = max(len(pm.results)-1, 0)
	case "enter", " ":
		pm.showDiff = !pm.showDiff
	}

	return pm, nil
}

func (pm playgroundModel) View() string {
	sections := []string{pm.renderTitle()}

	if len(pm.diagnostics) > 0 {
		sections = append(sections, pm.renderDiagnostics())
	}

	if pm.testRun != nil {
		sections = append(sections, pm.renderTestRun())
	}

	if pm.compilation != nil {
		sections = append(sections, pm.renderCompilation())
	}

	if pm.total > 0 && pm.report == nil {
		sections = append(sections, pm.renderProgress())
	}

	if len(pm.results) > 0 {
		sections = append(sections, pm.renderResults())
	}

	if diff := pm.renderDiff(); diff != "" {
		sections = append(sections, diff)
	}

	if pm.report != nil {
		sections = append(sections, pm.renderScore())
	}

	sections = append(sections, pm.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (pm playgroundModel) renderTitle() string {
	title := "Go Playground"

	switch pm.config.mode {
	case ModeUnitTest:
		title += " - unit tests"
	case ModeMutation:
		title += " - mutation tests"
	case ModeView:
		title += " - report"
	}

	if pm.config.source != "" {
		title += " - " + pm.config.source
	}

	if !pm.finished {
		title = pm.spinner.View() + " " + title
	}

	return titleStyle.Render(title)
}

func (pm playgroundModel) renderDiagnostics() string {
	lines := make([]string, 0, len(pm.diagnostics))
	for _, d := range pm.diagnostics {
		style := warnStyle
		if d.IsError() {
			style = errorStyle
		}

		lines = append(lines, style.Render(d.String()))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (pm playgroundModel) renderTestRun() string {
	run := pm.testRun

	output := run.Output
	if limit := pm.outputLimit(); len(output) > limit {
		output = output[len(output)-limit:]
	}

	status := accentStyle.Render(string(run.Status))
	if run.Status != m.TestPassed {
		status = errorStyle.Render(string(run.Status))
	}

	summary := summaryStyle.Render(fmt.Sprintf("Tests %s  •  run: %d  •  failed: %d", status, run.TestCount, run.FailedCount))

	if len(output) == 0 {
		return summary
	}

	return lipgloss.JoinVertical(lipgloss.Left, boxStyle.Render(strings.Join(output, "\n")), summary)
}

func (pm playgroundModel) outputLimit() int {
	if pm.height == 0 {
		return 20
	}

	return max(pm.height/2, 5)
}

func (pm playgroundModel) renderCompilation() string {
	c := pm.compilation

	lines := []string{summaryStyle.Render(fmt.Sprintf(
		"Mutations: %s  •  rolled back: %s  •  attempts: %s",
		accentStyle.Render(fmt.Sprintf("%d", c.mutants)),
		accentStyle.Render(fmt.Sprintf("%d", c.removed)),
		accentStyle.Render(fmt.Sprintf("%d", c.attempts)),
	))}

	for _, anomaly := range c.anomalies {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("  %s rollback removed %v in %s", anomaly.Mode, anomaly.RemovedIDs, anomaly.File)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (pm playgroundModel) renderProgress() string {
	done := len(pm.results)
	percent := 0.0

	if pm.total > 0 {
		percent = float64(done) / float64(pm.total)
	}

	summary := summaryStyle.Render(fmt.Sprintf("Progress: %s / %s  •  Workers: %s",
		accentStyle.Render(fmt.Sprintf("%d", done)),
		accentStyle.Render(fmt.Sprintf("%d", pm.total)),
		accentStyle.Render(fmt.Sprintf("%d", pm.parallel)),
	))

	return lipgloss.JoinVertical(lipgloss.Left, summary, lipgloss.NewStyle().Padding(0, 2).Render(pm.progressBar.ViewAs(percent)))
}

func (pm playgroundModel) renderResults() string {
	header := faintStyle.Bold(true).Render(fmt.Sprintf("%4s  %-13s  %-11s  %-8s  %s", "ID", "Status", "Type", "Pos", "Mutation"))
	lines := []string{header}

	start, end := pm.visibleRange()
	for i := start; i < end; i++ {
		r := pm.results[i]
		line := fmt.Sprintf("%4d  %-13s  %-11s  %-8s  %s",
			r.ID, r.Status, r.Type, fmt.Sprintf("%d:%d", r.Line, r.Column),
			summarize(r.Original)+" -> "+summarize(r.Replacement))

		if pm.finished && i == pm.selected {
			lines = append(lines, selectedStyle.Render(line))
			continue
		}

		color, ok := statusColors[r.Status]
		if !ok {
			color = lipgloss.Color("252")
		}

		lines = append(lines, lipgloss.NewStyle().Foreground(color).Render(line))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (pm playgroundModel) visibleRange() (int, int) {
	rows := 15
	if pm.height > 0 {
		rows = max(pm.height-14, 3)
	}

	start := 0
	if pm.selected >= rows {
		start = pm.selected - rows + 1
	}

	return start, min(start+rows, len(pm.results))
}

func (pm playgroundModel) renderDiff() string {
	if !pm.showDiff || pm.selected >= len(pm.results) {
		return ""
	}

	diff := strings.TrimSpace(pm.results[pm.selected].Diff)
	if diff == "" {
		return ""
	}

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		lines[i] = renderDiffLine(line)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderDiffLine(line string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		style = style.Bold(true)
	case strings.HasPrefix(line, "@@"):
		style = accentStyle.Bold(true)
	case strings.HasPrefix(line, "+"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case strings.HasPrefix(line, "-"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}

	return style.Render(line)
}

func (pm playgroundModel) renderScore() string {
	counts := pm.report.Counts()

	return summaryStyle.Render(fmt.Sprintf(
		"Killed: %s  •  Survived: %s  •  No coverage: %s  •  Compile errors: %s  •  Score: %s",
		accentStyle.Render(fmt.Sprintf("%d", counts[m.Killed]+counts[m.Timeout])),
		accentStyle.Render(fmt.Sprintf("%d", counts[m.Survived])),
		accentStyle.Render(fmt.Sprintf("%d", counts[m.NoCoverage])),
		accentStyle.Render(fmt.Sprintf("%d", counts[m.CompileError])),
		accentStyle.Render(fmt.Sprintf("%.2f%%", pm.report.Score)),
	))
}

func (pm playgroundModel) renderFooter() string {
	help := "q quit"
	if pm.finished && len(pm.results) > 0 {
		help = "↑/k up • ↓/j down • g/G top/bottom • enter diff • q quit"
	}

	return faintStyle.Padding(0, 2).Render(help)
}
