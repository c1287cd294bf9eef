package model

import (
	"fmt"
	"time"

	"gooze.dev/pkg/playground/pkg/srctree"
)

// GuardKind is the syntactic shape of a guarded mutation.
type GuardKind string

const (
	// GuardExpression wraps a single expression.
	GuardExpression GuardKind = "expression-guard"
	// GuardStatement wraps a single statement in an if/else on the active id.
	GuardStatement GuardKind = "statement-guard"
	// GuardBlock wraps a whole function body behind an early return.
	GuardBlock GuardKind = "block-guard"
)

// MutationType represents the category of mutation.
type MutationType string

const (
	// MutationArithmetic represents arithmetic operator mutations (+, -, *, /, %).
	MutationArithmetic MutationType = "arithmetic"
	// MutationComparison represents relational operator mutations.
	MutationComparison MutationType = "comparison"
	// MutationLogical represents && <-> || mutations.
	MutationLogical MutationType = "logical"
	// MutationBoolean represents boolean literal mutations (true <-> false).
	MutationBoolean MutationType = "boolean"
	// MutationUnary represents removal of a unary operator.
	MutationUnary MutationType = "unary"
	// MutationBranch represents negation of an if or for condition.
	MutationBranch MutationType = "branch"
	// MutationStatement represents removal of a statement.
	MutationStatement MutationType = "statement"
	// MutationBlock represents emptying a function body.
	MutationBlock MutationType = "block"
)

// MutationTypes lists every supported mutation type in catalog order.
var MutationTypes = []MutationType{
	MutationArithmetic,
	MutationComparison,
	MutationLogical,
	MutationBoolean,
	MutationUnary,
	MutationBranch,
	MutationStatement,
	MutationBlock,
}

// GuardedMutation is a mutation injected into the mutated tree behind a
// runtime check. Span locates the mutated construct in the original tree.
type GuardedMutation struct {
	ID          int
	Kind        GuardKind
	Type        MutationType
	Span        srctree.Span
	Line        int
	Column      int
	Original    string
	Replacement string
	Diff        string
}

// MutantStatus is the outcome of a mutant.
type MutantStatus int

const (
	// NotRun means the mutant has not been executed yet.
	NotRun MutantStatus = iota
	// Killed means at least one test failed with the mutant active.
	Killed
	// Survived means every test passed with the mutant active.
	Survived
	// Timeout means the execution exceeded its deadline.
	Timeout
	// CompileError means the mutant was rolled back because it broke the build.
	CompileError
	// Ignored means the mutant was excluded by a filter.
	Ignored
	// NoCoverage means no test reached the mutant.
	NoCoverage
)

func (s MutantStatus) String() string {
	switch s {
	case NotRun:
		return "not run"
	case Killed:
		return "killed"
	case Survived:
		return "survived"
	case Timeout:
		return "timeout"
	case CompileError:
		return "compile error"
	case Ignored:
		return "ignored"
	case NoCoverage:
		return "no coverage"
	}

	return "unknown"
}

// MutantResult is the per-mutant outcome reported to the user.
type MutantResult struct {
	ID          int           `json:"id"`
	Kind        GuardKind     `json:"kind"`
	Type        MutationType  `json:"type"`
	Status      MutantStatus  `json:"status"`
	Line        int           `json:"line"`
	Column      int           `json:"column"`
	Original    string        `json:"original"`
	Replacement string        `json:"replacement"`
	Diff        string        `json:"diff,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// NewMutantResult returns a NotRun result describing g.
func NewMutantResult(g GuardedMutation) MutantResult {
	return MutantResult{
		ID:          g.ID,
		Kind:        g.Kind,
		Type:        g.Type,
		Status:      NotRun,
		Line:        g.Line,
		Column:      g.Column,
		Original:    g.Original,
		Replacement: g.Replacement,
		Diff:        g.Diff,
	}
}

// MarshalText encodes the status by name.
func (s MutantStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *MutantStatus) UnmarshalText(text []byte) error {
	for candidate := NotRun; candidate <= NoCoverage; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown mutant status %q", text)
}
