package mutagens

import (
	"go/ast"
	"strings"

	m "gooze.dev/pkg/playground/internal/model"
)

// ProcessBlockMutations replaces a function body with an early return of
// zero values.
func ProcessBlockMutations(n ast.Node, src Source) []Candidate {
	decl, ok := n.(*ast.FuncDecl)
	if !ok || decl.Body == nil || len(decl.Body.List) == 0 {
		return nil
	}

	return []Candidate{{
		Type:        m.MutationBlock,
		Kind:        m.GuardBlock,
		Node:        decl.Body,
		Replacement: zeroReturn(decl.Type.Results, src),
	}}
}

// zeroReturn builds the return statement of the emptied body.
func zeroReturn(results *ast.FieldList, src Source) string {
	if results == nil || len(results.List) == 0 {
		return "return"
	}

	if len(results.List[0].Names) > 0 {
		return "return"
	}

	zeros := make([]string, 0, len(results.List))
	for _, field := range results.List {
		zeros = append(zeros, "*new("+src.Text(field.Type)+")")
	}

	return "return " + strings.Join(zeros, ", ")
}
