// Package mutagens proposes guarded mutations for Go syntax nodes.
package mutagens

import (
	"go/ast"
	"go/token"

	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// Candidate is one mutation proposed for a node. The catalog assigns its id
// and turns it into a guard.
type Candidate struct {
	Type m.MutationType
	Kind m.GuardKind
	// Node is the mutated expression or statement, or the body of a
	// function for block candidates.
	Node ast.Node
	// Replacement is the mutated source text. For block candidates it is
	// the early return statement.
	Replacement string
	// Lazy selects a guard that only evaluates the chosen branch.
	Lazy bool
}

// Source gives mutagens access to the original text of a parsed tree.
type Source struct {
	Index *srctree.Index
}

// Span returns the byte range of n in the original tree.
func (s Source) Span(n ast.Node) srctree.Span {
	return srctree.Span{Start: s.Index.Offset(n.Pos()), End: s.Index.Offset(n.End())}
}

// Text returns the original text of n.
func (s Source) Text(n ast.Node) string {
	return s.Index.Tree().Text(s.Span(n))
}

// Mutagen proposes candidates for a node of the original tree.
type Mutagen func(n ast.Node, src Source) []Candidate

// ForType returns the mutagen of a mutation type.
func ForType(mutationType m.MutationType) (Mutagen, bool) {
	switch mutationType {
	case m.MutationArithmetic:
		return ProcessArithmeticMutations, true
	case m.MutationComparison:
		return ProcessComparisonMutations, true
	case m.MutationLogical:
		return ProcessLogicalMutations, true
	case m.MutationBoolean:
		return ProcessBooleanMutations, true
	case m.MutationUnary:
		return ProcessUnaryMutations, true
	case m.MutationBranch:
		return ProcessBranchMutations, true
	case m.MutationStatement:
		return ProcessStatementMutations, true
	case m.MutationBlock:
		return ProcessBlockMutations, true
	}

	return nil, false
}

var pureBuiltins = map[string]bool{
	"len": true, "cap": true, "min": true, "max": true,
	"real": true, "imag": true, "complex": true,
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// isPure reports whether evaluating n twice is indistinguishable from
// evaluating it once: no calls other than conversions and pure builtins, no
// channel receives and no function literals.
func isPure(n ast.Node) bool {
	pure := true

	ast.Inspect(n, func(node ast.Node) bool {
		if !pure {
			return false
		}

		switch node := node.(type) {
		case *ast.CallExpr:
			if ident, ok := node.Fun.(*ast.Ident); !ok || !pureBuiltins[ident.Name] {
				pure = false
			}
		case *ast.UnaryExpr:
			if node.Op == token.ARROW {
				pure = false
			}
		case *ast.FuncLit:
			pure = false
		}

		return pure
	})

	return pure
}

// isLiteralOnly reports whether e is built from basic literals alone. Such an
// expression is an untyped constant whose type comes from its context, which
// a guard call cannot carry.
func isLiteralOnly(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.BasicLit:
		return true
	case *ast.ParenExpr:
		return isLiteralOnly(e.X)
	case *ast.UnaryExpr:
		return e.Op != token.ARROW && e.Op != token.AND && isLiteralOnly(e.X)
	case *ast.BinaryExpr:
		return isLiteralOnly(e.X) && isLiteralOnly(e.Y)
	}

	return false
}

// boolCandidate builds a candidate for a boolean expression, falling back to
// a lazy guard when the expression has side effects.
func boolCandidate(mutationType m.MutationType, n ast.Expr, replacement string) Candidate {
	return Candidate{
		Type:        mutationType,
		Kind:        m.GuardExpression,
		Node:        n,
		Replacement: replacement,
		Lazy:        !isPure(n),
	}
}
