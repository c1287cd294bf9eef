package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessArithmeticMutations swaps arithmetic operators. Both branches of the
// guard are evaluated, so expressions with side effects are skipped and
// division is never introduced where the original could not divide by zero.
func ProcessArithmeticMutations(n ast.Node, src Source) []Candidate {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok || !isArithmeticOp(binExpr.Op) {
		return nil
	}

	if isLiteralOnly(binExpr) {
		return nil
	}

	if !isPure(binExpr) || isStringLiteral(binExpr.X) || isStringLiteral(binExpr.Y) {
		return nil
	}

	left, right := src.Text(binExpr.X), src.Text(binExpr.Y)

	var candidates []Candidate

	for _, mutatedOp := range getArithmeticAlternatives(binExpr.Op) {
		candidates = append(candidates, Candidate{
			Type:        m.MutationArithmetic,
			Kind:        m.GuardExpression,
			Node:        binExpr,
			Replacement: left + " " + mutatedOp.String() + " " + right,
		})
	}

	return candidates
}

// isArithmeticOp checks if a token is an arithmetic operator.
func isArithmeticOp(op token.Token) bool {
	return op == token.ADD || op == token.SUB || op == token.MUL || op == token.QUO || op == token.REM
}

// getArithmeticAlternatives returns the alternative operators for original.
func getArithmeticAlternatives(original token.Token) []token.Token {
	allOps := []token.Token{token.ADD, token.SUB, token.MUL}
	if original == token.QUO || original == token.REM {
		allOps = append(allOps, token.QUO, token.REM)
	}

	var alternatives []token.Token

	for _, op := range allOps {
		if op != original {
			alternatives = append(alternatives, op)
		}
	}

	return alternatives
}

func isStringLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
