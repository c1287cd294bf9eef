package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessStatementMutations removes side-effecting statements from statement
// lists. Declarations are never removed since later statements may use them.
func ProcessStatementMutations(n ast.Node, _ Source) []Candidate {
	var list []ast.Stmt

	switch block := n.(type) {
	case *ast.BlockStmt:
		list = block.List
	case *ast.CaseClause:
		list = block.Body
	case *ast.CommClause:
		list = block.Body
	default:
		return nil
	}

	var candidates []Candidate

	for _, stmt := range list {
		if !isRemovable(stmt) {
			continue
		}

		candidates = append(candidates, Candidate{
			Type: m.MutationStatement,
			Kind: m.GuardStatement,
			Node: stmt,
		})
	}

	return candidates
}

func isRemovable(stmt ast.Stmt) bool {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt, *ast.IncDecStmt, *ast.SendStmt:
		return true
	case *ast.AssignStmt:
		return stmt.Tok != token.DEFINE
	}

	return false
}
