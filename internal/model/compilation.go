package model

import "gooze.dev/pkg/playground/pkg/srctree"

// ArtifactKind tells the test runner how to execute an artifact.
type ArtifactKind string

const (
	// ArtifactTestBinary is an executable produced by go test -c.
	ArtifactTestBinary ArtifactKind = "test-binary"
	// ArtifactSourceBundle is a txtar archive of a type-checked package.
	ArtifactSourceBundle ArtifactKind = "source-bundle"
)

// Artifact is the compiled output of a successful compilation.
type Artifact struct {
	Kind ArtifactKind
	Data []byte
}

// CompilationResult is the outcome of a single compile call.
type CompilationResult struct {
	Diagnostics []Diagnostic
	Success     bool
	Artifact    *Artifact
}

// CompilationAttempt is one step of the compile and rollback history.
// RemovedIDs is the cumulative rollback record after this attempt's repair.
type CompilationAttempt struct {
	Number      int
	Tree        *srctree.Tree
	Diagnostics []Diagnostic
	Success     bool
	RemovedIDs  []int
}

// EscalationMode tells how widely a rollback escalated.
type EscalationMode string

const (
	// EscalationBlock removed the block guards of a declaration.
	EscalationBlock EscalationMode = "block"
	// EscalationSafeMode removed every guard of a declaration.
	EscalationSafeMode EscalationMode = "safe-mode"
)

// EscalationAnomaly records a rollback that discarded possibly valid guards.
type EscalationAnomaly struct {
	Mode        EscalationMode `json:"mode"`
	File        string         `json:"file"`
	Declaration srctree.Span   `json:"declaration"`
	RemovedIDs  []int          `json:"removed_ids"`
	Diagnostic  Diagnostic     `json:"diagnostic"`
}

// MutantCompilationResult is the outcome of compiling a mutated unit.
type MutantCompilationResult struct {
	CompilationResult
	Mutants      []MutantResult
	Guards       []GuardedMutation
	OriginalTree *srctree.Tree
	MutatedTree  *srctree.Tree
	FinalTree    *srctree.Tree
	Attempts     []CompilationAttempt
	Anomalies    []EscalationAnomaly
	RemovedIDs   []int
}
