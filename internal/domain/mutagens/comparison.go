package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
)

var comparisonAlternatives = map[token.Token][]token.Token{
	token.LSS: {token.LEQ, token.GEQ},
	token.LEQ: {token.LSS, token.GTR},
	token.GTR: {token.GEQ, token.LEQ},
	token.GEQ: {token.GTR, token.LSS},
	token.EQL: {token.NEQ},
	token.NEQ: {token.EQL},
}

// ProcessComparisonMutations shifts relational boundaries and flips equality.
func ProcessComparisonMutations(n ast.Node, src Source) []Candidate {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	alternatives, ok := comparisonAlternatives[binExpr.Op]
	if !ok || isLiteralOnly(binExpr) {
		return nil
	}

	left, right := src.Text(binExpr.X), src.Text(binExpr.Y)

	candidates := make([]Candidate, 0, len(alternatives))
	for _, mutatedOp := range alternatives {
		candidates = append(candidates, boolCandidate(m.MutationComparison, binExpr, left+" "+mutatedOp.String()+" "+right))
	}

	return candidates
}
