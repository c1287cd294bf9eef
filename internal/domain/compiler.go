package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"strconv"

	"gooze.dev/pkg/playground/internal/adapter"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// Names under which a unit is compiled.
const (
	ModulePath     = "playground"
	ProductionFile = "source.go"
	TestFile       = "source_test.go"
)

// Compiler turns a source unit into a compilation result. It never modifies
// the unit, never retries and never logs.
type Compiler interface {
	Compile(ctx context.Context, unit m.SourceUnit) (m.CompilationResult, error)
}

type compiler struct {
	builder adapter.Builder
}

// NewCompiler constructs a Compiler backed by builder.
func NewCompiler(builder adapter.Builder) Compiler {
	return &compiler{builder: builder}
}

func (c *compiler) Compile(ctx context.Context, unit m.SourceUnit) (m.CompilationResult, error) {
	if unit.Production == nil || unit.Test == nil {
		return m.CompilationResult{}, fmt.Errorf("source unit needs production and test code")
	}

	pkg := packageName(unit.Production)

	instrumentation, err := mutctl.Instrumentation(pkg)
	if err != nil {
		return m.CompilationResult{}, err
	}

	files := []adapter.SourceFile{
		{Tree: injectImports(unit.Production, unit.Imports).WithName(ProductionFile)},
		{Tree: injectImports(unit.Test, unit.Imports).WithName(TestFile)},
	}
	for _, tree := range instrumentation {
		files = append(files, adapter.SourceFile{Tree: tree, Generated: true})
	}

	result, err := c.builder.Build(ctx, adapter.BuildInput{
		ModulePath: ModulePath,
		Package:    pkg,
		Files:      files,
		References: unit.References,
	})
	if err != nil {
		return m.CompilationResult{}, fmt.Errorf("failed to build unit: %w", err)
	}

	result.Diagnostics = locate(result.Diagnostics, unit)

	return result, nil
}

// locate maps builder file names back to the unit trees and resolves the
// byte span of every located diagnostic.
func locate(diags []m.Diagnostic, unit m.SourceUnit) []m.Diagnostic {
	out := make([]m.Diagnostic, 0, len(diags))

	for _, d := range diags {
		if d.Location == nil {
			out = append(out, d)
			continue
		}

		loc := *d.Location

		var tree *srctree.Tree

		switch loc.File {
		case ProductionFile:
			tree = unit.Production
		case TestFile:
			tree = unit.Test
		}

		if tree != nil {
			loc.File = tree.Name()
			if offset, ok := tree.Offset(loc.Line, loc.Column); ok {
				loc.Span = srctree.Span{Start: offset, End: offset}
			}
		}

		d.Location = &loc
		out = append(out, d)
	}

	return out
}

func packageName(tree *srctree.Tree) string {
	file, err := parser.ParseFile(token.NewFileSet(), tree.Name(), tree.Bytes(), parser.PackageClauseOnly)
	if err != nil || file.Name == nil || file.Name.Name == "" {
		return "main"
	}

	return file.Name.Name
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// importName guesses the package name of an import path.
func importName(importPath string) string {
	name := path.Base(importPath)
	if majorVersion.MatchString(name) {
		name = path.Base(path.Dir(importPath))
	}

	return name
}

// injectImports adds every listed import that tree references without
// importing it. The imports go on the package clause line so no line of the
// file moves.
func injectImports(tree *srctree.Tree, imports []string) *srctree.Tree {
	if len(imports) == 0 {
		return tree
	}

	file, err := parser.ParseFile(token.NewFileSet(), tree.Name(), tree.Bytes(), 0)
	if err != nil || file.Name == nil {
		return tree
	}

	imported := make(map[string]bool, len(file.Imports))
	for _, spec := range file.Imports {
		if p, err := strconv.Unquote(spec.Path.Value); err == nil {
			imported[p] = true
		}
	}

	unresolved := make(map[string]bool)
	for _, ident := range file.Unresolved {
		unresolved[ident.Name] = true
	}

	var clause string

	for _, importPath := range imports {
		if imported[importPath] || !unresolved[importName(importPath)] || !usedAsPackage(file, importName(importPath)) {
			continue
		}

		imported[importPath] = true
		clause += "; import " + strconv.Quote(importPath)
	}

	if clause == "" {
		return tree
	}

	end := int(file.Name.End()) - int(file.FileStart)

	injected, err := tree.Apply([]srctree.Edit{srctree.Replace(srctree.Span{Start: end, End: end}, clause)})
	if err != nil {
		return tree
	}

	return injected
}

func usedAsPackage(file *ast.File, name string) bool {
	used := false

	ast.Inspect(file, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == name {
				used = true
			}
		}

		return !used
	})

	return used
}
