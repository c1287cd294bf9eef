package srctree

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/require"
)

const indexSource = `package calc

func Add(a, b int) int {
	return a + b
}
`

func TestParse(t *testing.T) {
	idx, err := Parse(New("calc.go", []byte(indexSource)))
	require.NoError(t, err)
	require.Equal(t, "calc", idx.PackageName())
	require.Equal(t, KindFile, idx.Node(idx.Root()).Kind)
	require.Equal(t, NoNode, idx.Parent(idx.Root()))
	require.Greater(t, idx.Len(), 1)
}

func TestParseKeepsRootOnSyntaxError(t *testing.T) {
	tree := New("bad.go", []byte("not go at all"))

	idx, err := Parse(tree)
	require.Error(t, err)
	require.NotNil(t, idx)
	require.Equal(t, Span{Start: 0, End: tree.Len()}, idx.Node(idx.Root()).Span)
	require.Equal(t, idx.Root(), idx.Find(Span{Start: 2, End: 3}))
}

func TestIndexFind(t *testing.T) {
	tree := New("calc.go", []byte(indexSource))
	idx, err := Parse(tree)
	require.NoError(t, err)

	span := spanOf(t, indexSource, "a + b")

	id := idx.Find(span)
	require.Equal(t, KindExpr, idx.Node(id).Kind)
	require.Equal(t, "a + b", tree.Text(idx.Node(id).Span))

	_, ok := idx.AST(id).(*ast.BinaryExpr)
	require.True(t, ok)

	decl := idx.EnclosingDecl(id)
	require.Equal(t, KindDecl, idx.Node(decl).Kind)

	_, ok = idx.AST(decl).(*ast.FuncDecl)
	require.True(t, ok)
}

func TestIndexChildrenOrderedBySpan(t *testing.T) {
	idx, err := Parse(New("calc.go", []byte(indexSource)))
	require.NoError(t, err)

	for id := 0; id < idx.Len(); id++ {
		children := idx.Children(id)
		for i := 1; i < len(children); i++ {
			require.LessOrEqual(t, idx.Node(children[i-1]).Span.Start, idx.Node(children[i]).Span.Start, "children of %d", id)
		}
	}

	decl := idx.EnclosingDecl(idx.Find(spanOf(t, indexSource, "a + b")))
	_, isType := idx.AST(idx.Children(decl)[0]).(*ast.FuncType)
	require.True(t, isType, "the signature starts at the func keyword, before the name")
}

func TestIndexWalkOrder(t *testing.T) {
	idx, err := Parse(New("calc.go", []byte(indexSource)))
	require.NoError(t, err)

	body := idx.Find(spanOf(t, indexSource, "{\n\treturn a + b\n}"))
	_, ok := idx.AST(body).(*ast.BlockStmt)
	require.True(t, ok)

	var starts []int

	idx.Walk(body, func(id int) bool {
		if idx.Node(id).Kind == KindExpr {
			starts = append(starts, idx.Node(id).Span.Start)
		}

		return true
	})

	require.Len(t, starts, 3)

	for i := 1; i < len(starts); i++ {
		require.LessOrEqual(t, starts[i-1], starts[i])
	}
}

func TestEnclosingDeclFallsBackToRoot(t *testing.T) {
	src := "package calc\n\nvar x = 1 + 2\n"
	idx, err := Parse(New("calc.go", []byte(src)))
	require.NoError(t, err)

	id := idx.Find(spanOf(t, src, "1 + 2"))
	require.Equal(t, idx.Root(), idx.EnclosingDecl(id))
}
