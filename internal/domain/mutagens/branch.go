package mutagens

import (
	"go/ast"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessBranchMutations inverts the condition of if statements and for loops.
func ProcessBranchMutations(n ast.Node, src Source) []Candidate {
	var cond ast.Expr

	switch stmt := n.(type) {
	case *ast.IfStmt:
		cond = stmt.Cond
	case *ast.ForStmt:
		cond = stmt.Cond
	}

	if cond == nil {
		return nil
	}

	return []Candidate{boolCandidate(m.MutationBranch, cond, invertCondition(cond, src))}
}

// invertCondition negates cond, adding parentheses unless it is a primary
// expression.
func invertCondition(cond ast.Expr, src Source) string {
	text := src.Text(cond)

	switch cond.(type) {
	case *ast.Ident, *ast.ParenExpr, *ast.CallExpr, *ast.SelectorExpr, *ast.IndexExpr:
		return "!" + text
	}

	return "!(" + text + ")"
}
