package model

import (
	"fmt"

	"gooze.dev/pkg/playground/pkg/srctree"
)

// Severity of a compiler diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Location points a diagnostic at a span of one compiled file.
type Location struct {
	File   string       `json:"file"`
	Span   srctree.Span `json:"span"`
	Line   int          `json:"line"`
	Column int          `json:"column"`
}

// Diagnostic is one compiler message. An error without a location cannot be
// attributed to any source construct.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Location *Location `json:"location,omitempty"`
	Message  string    `json:"message"`
	Code     string    `json:"code,omitempty"`
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Unlocated reports whether d is an error that carries no location.
func (d Diagnostic) Unlocated() bool {
	return d.IsError() && d.Location == nil
}

func (d Diagnostic) String() string {
	if d.Location == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Location.File, d.Location.Line, d.Location.Column, d.Severity, d.Message)
}

// Errors returns the error-severity diagnostics in order.
func Errors(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic

	for _, d := range diags {
		if d.IsError() {
			out = append(out, d)
		}
	}

	return out
}
