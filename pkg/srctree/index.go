package srctree

import (
	"cmp"
	"go/ast"
	"go/parser"
	"go/token"
	"slices"

	"golang.org/x/tools/go/ast/astutil"
)

// NodeKind classifies indexed nodes independently of the parser types.
type NodeKind uint8

// Node kinds recorded by the index.
const (
	KindOther NodeKind = iota
	KindFile
	KindDecl
	KindStmt
	KindExpr
)

func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDecl:
		return "decl"
	case KindStmt:
		return "stmt"
	case KindExpr:
		return "expr"
	case KindOther:
		return "other"
	}

	return "unknown"
}

// NoNode is the parent of the root node and the result of failed lookups.
const NoNode = -1

// Node is one arena slot of an Index.
type Node struct {
	Kind     NodeKind
	Span     Span
	Parent   int
	Children []int
}

// Index is an arena-indexed view of a parsed tree. Node 0 is the file root
// and always spans the whole source, even when parsing failed.
type Index struct {
	tree  *Tree
	fset  *token.FileSet
	tok   *token.File
	file  *ast.File
	nodes []Node
	ast   []ast.Node
	ids   map[ast.Node]int
}

// Parse indexes the tree. A syntax error is returned together with an index
// built from whatever the parser recovered.
func Parse(tree *Tree) (*Index, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, tree.Name(), tree.src, parser.AllErrors|parser.ParseComments)

	idx := &Index{
		tree: tree,
		fset: fset,
		file: file,
		ids:  make(map[ast.Node]int),
	}

	fset.Iterate(func(f *token.File) bool {
		idx.tok = f
		return false
	})

	idx.nodes = append(idx.nodes, Node{
		Kind:   KindFile,
		Span:   Span{Start: 0, End: tree.Len()},
		Parent: NoNode,
	})
	idx.ast = append(idx.ast, file)

	if file != nil {
		idx.ids[file] = 0
		idx.build(file)
	}

	return idx, err
}

func (x *Index) build(file *ast.File) {
	stack := []int{0}

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}

		if n == file {
			stack = append(stack, 0)
			return true
		}

		parent := stack[len(stack)-1]
		id := len(x.nodes)

		x.nodes = append(x.nodes, Node{
			Kind:   kindOf(n),
			Span:   x.span(n),
			Parent: parent,
		})
		x.ast = append(x.ast, n)
		x.ids[n] = id
		x.nodes[parent].Children = append(x.nodes[parent].Children, id)

		stack = append(stack, id)

		return true
	})

	// ast.Inspect follows field order, which puts a FuncDecl name before
	// its signature.
	for i := range x.nodes {
		slices.SortStableFunc(x.nodes[i].Children, func(a, b int) int {
			return cmp.Compare(x.nodes[a].Span.Start, x.nodes[b].Span.Start)
		})
	}
}

func kindOf(n ast.Node) NodeKind {
	switch n.(type) {
	case *ast.FuncDecl:
		return KindDecl
	case ast.Stmt:
		return KindStmt
	case ast.Expr:
		return KindExpr
	}

	return KindOther
}

func (x *Index) span(n ast.Node) Span {
	return Span{Start: x.offset(n.Pos()), End: x.offset(n.End())}
}

func (x *Index) offset(pos token.Pos) int {
	if !pos.IsValid() {
		return 0
	}

	if x.tok == nil || int(pos) < x.tok.Base() || int(pos) > x.tok.Base()+x.tok.Size() {
		return 0
	}

	return x.tree.clamp(x.tok.Offset(pos))
}

func (x *Index) pos(offset int) token.Pos {
	if x.tok == nil {
		return token.NoPos
	}

	if offset > x.tok.Size() {
		offset = x.tok.Size()
	}

	return x.tok.Pos(offset)
}

// Tree returns the indexed tree.
func (x *Index) Tree() *Tree {
	return x.tree
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int {
	return len(x.nodes)
}

// Root returns the file node.
func (x *Index) Root() int {
	return 0
}

// Node returns the arena slot for id.
func (x *Index) Node(id int) Node {
	return x.nodes[id]
}

// AST returns the parser node behind id.
func (x *Index) AST(id int) ast.Node {
	return x.ast[id]
}

// Parent returns the parent of id, or NoNode for the root.
func (x *Index) Parent(id int) int {
	return x.nodes[id].Parent
}

// Children returns the children of id ordered by span start.
func (x *Index) Children(id int) []int {
	return x.nodes[id].Children
}

// Find returns the smallest node enclosing span. It falls back to the root
// when the tree could not be parsed or no node encloses the span.
func (x *Index) Find(span Span) int {
	if x.file == nil {
		return x.Root()
	}

	if span.End < span.Start {
		span.End = span.Start
	}

	path, _ := astutil.PathEnclosingInterval(x.file, x.pos(span.Start), x.pos(span.End))
	for _, n := range path {
		if id, ok := x.ids[n]; ok {
			return id
		}
	}

	return x.Root()
}

// EnclosingDecl returns the nearest function declaration containing id, or
// the root when there is none.
func (x *Index) EnclosingDecl(id int) int {
	for cur := id; cur != NoNode; cur = x.nodes[cur].Parent {
		if x.nodes[cur].Kind == KindDecl {
			return cur
		}
	}

	return x.Root()
}

// Walk visits id and its descendants in pre-order, children by span start,
// until visit returns false. Nodes nested in a sibling's span (a FuncDecl name
// inside its signature) are not visited in offset order.
func (x *Index) Walk(id int, visit func(id int) bool) bool {
	if !visit(id) {
		return false
	}

	for _, child := range x.nodes[id].Children {
		if !x.Walk(child, visit) {
			return false
		}
	}

	return true
}

// PackageName returns the package clause name, or "" when it is missing.
func (x *Index) PackageName() string {
	if x.file == nil || x.file.Name == nil {
		return ""
	}

	return x.file.Name.Name
}

// File returns the parsed file, which may be nil or partial.
func (x *Index) File() *ast.File {
	return x.file
}

// Offset converts a parser position of this index into a source offset.
func (x *Index) Offset(pos token.Pos) int {
	return x.offset(pos)
}
