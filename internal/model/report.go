package model

import "time"

// TestStatus is the aggregate outcome of one test execution.
type TestStatus string

const (
	TestPassed  TestStatus = "PASSED"
	TestFailed  TestStatus = "FAILED"
	TestTimeout TestStatus = "TIMEOUT"
)

// TestRunResult is the outcome of running the unit tests once.
type TestRunResult struct {
	Status      TestStatus
	TestCount   int
	FailedCount int
	CoveredIDs  []int
	Output      []string
	Duration    time.Duration
}

// Passed reports whether at least one test ran and none failed.
func (r TestRunResult) Passed() bool {
	return r.Status == TestPassed
}

// Report is the saved outcome of a mutation testing session.
type Report struct {
	SessionID   string              `json:"session_id"`
	CreatedAt   time.Time           `json:"created_at"`
	SourceName  string              `json:"source"`
	SourceHash  string              `json:"source_hash"`
	Mutants     []MutantResult      `json:"mutants"`
	Score       float64             `json:"score"`
	Attempts    int                 `json:"attempts"`
	Diagnostics []Diagnostic        `json:"diagnostics,omitempty"`
	Anomalies   []EscalationAnomaly `json:"anomalies,omitempty"`
}

// Counts tallies mutants per status.
func (r Report) Counts() map[MutantStatus]int {
	counts := make(map[MutantStatus]int)
	for _, mutant := range r.Mutants {
		counts[mutant.Status]++
	}

	return counts
}
