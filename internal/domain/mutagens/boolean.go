package mutagens

import (
	"go/ast"

	m "gooze.dev/pkg/playground/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// ProcessBooleanMutations flips boolean literals.
func ProcessBooleanMutations(n ast.Node, _ Source) []Candidate {
	ident, ok := n.(*ast.Ident)
	if !ok || !isBooleanLiteral(ident.Name) {
		return nil
	}

	return []Candidate{{
		Type:        m.MutationBoolean,
		Kind:        m.GuardExpression,
		Node:        ident,
		Replacement: flipBoolean(ident.Name),
	}}
}

// isBooleanLiteral checks if a string is a boolean literal.
func isBooleanLiteral(name string) bool {
	return name == trueStr || name == falseStr
}

// flipBoolean returns the opposite boolean literal.
func flipBoolean(original string) string {
	if original == trueStr {
		return falseStr
	}

	return trueStr
}
