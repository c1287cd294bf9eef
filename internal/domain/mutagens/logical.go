package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessLogicalMutations swaps && and ||. The guard is always lazy so the
// mutated operator keeps short-circuit evaluation.
func ProcessLogicalMutations(n ast.Node, src Source) []Candidate {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	var mutatedOp token.Token

	switch binExpr.Op {
	case token.LAND:
		mutatedOp = token.LOR
	case token.LOR:
		mutatedOp = token.LAND
	default:
		return nil
	}

	return []Candidate{{
		Type:        m.MutationLogical,
		Kind:        m.GuardExpression,
		Node:        binExpr,
		Replacement: src.Text(binExpr.X) + " " + mutatedOp.String() + " " + src.Text(binExpr.Y),
		Lazy:        true,
	}}
}
