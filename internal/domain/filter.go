package domain

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	m "gooze.dev/pkg/playground/internal/model"
)

// MutantFilter selects the mutants to execute.
type MutantFilter interface {
	Match(mutant m.MutantResult) (bool, error)
}

// filterEnv is the environment of a filter expression.
type filterEnv struct {
	ID          int
	Kind        string
	Type        string
	Line        int
	Column      int
	Original    string
	Replacement string
}

type exprFilter struct {
	source  string
	program *vm.Program
}

// NewMutantFilter compiles a boolean expr-lang expression over the fields
// ID, Kind, Type, Line, Column, Original and Replacement, for instance
// `Type in ["arithmetic", "comparison"] && Line < 40`. An empty expression
// returns a nil filter that matches everything.
func NewMutantFilter(expression string) (MutantFilter, error) {
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid mutant filter %q: %w", expression, err)
	}

	return &exprFilter{source: expression, program: program}, nil
}

func (f *exprFilter) Match(mutant m.MutantResult) (bool, error) {
	out, err := expr.Run(f.program, filterEnv{
		ID:          mutant.ID,
		Kind:        string(mutant.Kind),
		Type:        string(mutant.Type),
		Line:        mutant.Line,
		Column:      mutant.Column,
		Original:    mutant.Original,
		Replacement: mutant.Replacement,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate mutant filter %q: %w", f.source, err)
	}

	matched, _ := out.(bool)

	return matched, nil
}
