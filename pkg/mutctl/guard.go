package mutctl

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"gooze.dev/pkg/playground/pkg/srctree"
)

// Identifiers declared by the protocol core instrumentation.
const (
	ExprFunc   = "_mutctlExpr"
	LazyFunc   = "_mutctlLazy"
	ActiveFunc = "_mutctlIsActive"
)

// ExprWrap returns the text surrounding an expression guarded by an eager
// guard. Both branches are evaluated, so the catalog only uses it when
// evaluating the mutated operand has no side effects.
func ExprWrap(id int, mutated string) (string, string) {
	return fmt.Sprintf("%s(%d, ", ExprFunc, id), ", " + mutated + ")"
}

// LazyWrap returns the text surrounding a boolean expression guarded by a
// guard that evaluates only the selected branch.
func LazyWrap(id int, mutated string) (string, string) {
	return fmt.Sprintf("%s(%d, func() bool { return ", LazyFunc, id),
		" }, func() bool { return " + mutated + " })"
}

// StmtWrap returns the text surrounding a statement guarded by an if/else on
// the active id. The mutated statement may be empty.
func StmtWrap(id int, mutated string) (string, string) {
	return fmt.Sprintf("if %s(%d) { %s } else { ", ActiveFunc, id, mutated), " }"
}

// BlockWrap returns the text surrounding the statements of a function body
// whose mutated form returns early. ret is the complete mutated statement,
// for instance "return" or "return *new(int)".
func BlockWrap(id int, ret string) (string, string) {
	return fmt.Sprintf(" if %s(%d) { %s } else {", ActiveFunc, id, ret), "} "
}

// Guard is a recognised guard construct.
type Guard struct {
	ID       int
	Node     ast.Node
	Original ast.Node
}

// Recognize reports whether n is a guard construct and, if so, which
// mutation id it carries and where its original content lives.
func Recognize(n ast.Node) (Guard, bool) {
	switch n := n.(type) {
	case *ast.CallExpr:
		return recognizeCall(n)
	case *ast.IfStmt:
		return recognizeIf(n)
	}

	return Guard{}, false
}

func recognizeCall(call *ast.CallExpr) (Guard, bool) {
	fun, ok := call.Fun.(*ast.Ident)
	if !ok || len(call.Args) != 3 {
		return Guard{}, false
	}

	id, ok := literalID(call.Args[0])
	if !ok {
		return Guard{}, false
	}

	switch fun.Name {
	case ExprFunc:
		return Guard{ID: id, Node: call, Original: call.Args[1]}, true
	case LazyFunc:
		original, ok := lazyResult(call.Args[1])
		if !ok {
			return Guard{}, false
		}

		return Guard{ID: id, Node: call, Original: original}, true
	}

	return Guard{}, false
}

func recognizeIf(stmt *ast.IfStmt) (Guard, bool) {
	if stmt.Init != nil {
		return Guard{}, false
	}

	call, ok := stmt.Cond.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return Guard{}, false
	}

	fun, ok := call.Fun.(*ast.Ident)
	if !ok || fun.Name != ActiveFunc {
		return Guard{}, false
	}

	id, ok := literalID(call.Args[0])
	if !ok {
		return Guard{}, false
	}

	orig, ok := stmt.Else.(*ast.BlockStmt)
	if !ok {
		return Guard{}, false
	}

	return Guard{ID: id, Node: stmt, Original: orig}, true
}

func literalID(e ast.Expr) (int, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}

	id, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false
	}

	return id, true
}

func lazyResult(e ast.Expr) (ast.Expr, bool) {
	fn, ok := e.(*ast.FuncLit)
	if !ok || fn.Body == nil || len(fn.Body.List) != 1 {
		return nil, false
	}

	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil, false
	}

	return ret.Results[0], true
}

// Removal returns the edit reverting g to its original content inside the
// tree indexed by x.
func Removal(x *srctree.Index, g Guard) srctree.Edit {
	span := srctree.Span{Start: x.Offset(g.Node.Pos()), End: x.Offset(g.Node.End())}

	switch orig := g.Original.(type) {
	case *ast.BlockStmt:
		keep := srctree.Span{Start: x.Offset(orig.Lbrace) + 1, End: x.Offset(orig.Rbrace)}
		return srctree.Unwrap(span, keep)
	case ast.Expr:
		keep := srctree.Span{Start: x.Offset(orig.Pos()), End: x.Offset(orig.End())}
		if isPrimary(orig) {
			return srctree.Unwrap(span, keep)
		}

		return srctree.Edit{Span: span, Keep: keep, Before: "(", After: ")"}
	}

	return srctree.Unwrap(span, span)
}

func isPrimary(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.BasicLit, *ast.CompositeLit, *ast.FuncLit, *ast.ParenExpr,
		*ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr, *ast.SliceExpr,
		*ast.TypeAssertExpr, *ast.CallExpr:
		return true
	}

	return false
}
