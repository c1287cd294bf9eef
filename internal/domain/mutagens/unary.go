package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessUnaryMutations drops negation, logical not and bitwise complement.
func ProcessUnaryMutations(n ast.Node, src Source) []Candidate {
	unary, ok := n.(*ast.UnaryExpr)
	if !ok {
		return nil
	}

	operand := src.Text(unary.X)

	switch unary.Op {
	case token.NOT:
		return []Candidate{boolCandidate(m.MutationUnary, unary, operand)}
	case token.SUB, token.XOR:
		if !isPure(unary) {
			return nil
		}

		return []Candidate{{
			Type:        m.MutationUnary,
			Kind:        m.GuardExpression,
			Node:        unary,
			Replacement: operand,
		}}
	}

	return nil
}
