package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/txtar"

	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// GoVersion is the language version declared by synthesised go.mod files.
const GoVersion = "1.25"

// SourceFile is one file of a compiled package.
type SourceFile struct {
	Tree *srctree.Tree
	// Generated marks known-good scaffolding. Builders always ship it but
	// may skip type checking it.
	Generated bool
}

// BuildInput describes a single-package module to build.
type BuildInput struct {
	ModulePath string
	Package    string
	Files      []SourceFile
	References []m.Reference
}

// Builder compiles a package into an artifact. Compiler errors are returned
// as diagnostics; the error result is reserved for infrastructure failures.
// Diagnostics carry file, line and column; spans are left to the caller.
type Builder interface {
	Build(ctx context.Context, input BuildInput) (m.CompilationResult, error)
}

// GoMod synthesises the go.mod of a build from its references.
func GoMod(modulePath string, refs []m.Reference) ([]byte, error) {
	f := new(modfile.File)

	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, fmt.Errorf("failed to set module path: %w", err)
	}

	if err := f.AddGoStmt(GoVersion); err != nil {
		return nil, fmt.Errorf("failed to set go version: %w", err)
	}

	for _, ref := range refs {
		if err := f.AddRequire(ref.Path, ref.Version); err != nil {
			return nil, fmt.Errorf("failed to require %s: %w", ref, err)
		}
	}

	f.Cleanup()

	data, err := f.Format()
	if err != nil {
		return nil, fmt.Errorf("failed to format go.mod: %w", err)
	}

	return data, nil
}

// Bundle packs a build into a txtar archive holding go.mod and every file.
func Bundle(input BuildInput) ([]byte, error) {
	gomod, err := GoMod(input.ModulePath, input.References)
	if err != nil {
		return nil, err
	}

	archive := &txtar.Archive{
		Comment: []byte("playground source bundle for " + input.ModulePath + "\n"),
		Files:   []txtar.File{{Name: "go.mod", Data: gomod}},
	}

	for _, f := range input.Files {
		archive.Files = append(archive.Files, txtar.File{Name: f.Tree.Name(), Data: f.Tree.Bytes()})
	}

	return txtar.Format(archive), nil
}

// TypesBuilder type-checks a build in process with go/parser and go/types.
// It reports every error in the order the checker found them and emits a
// source bundle on success.
type TypesBuilder struct {
	once     sync.Once
	mu       sync.Mutex
	fallback types.Importer
}

// NewTypesBuilder constructs a TypesBuilder.
func NewTypesBuilder() *TypesBuilder {
	return &TypesBuilder{}
}

// Build implements Builder.
func (b *TypesBuilder) Build(ctx context.Context, input BuildInput) (m.CompilationResult, error) {
	if err := ctx.Err(); err != nil {
		return m.CompilationResult{}, err
	}

	fset := token.NewFileSet()

	var (
		diags    []m.Diagnostic
		internal []*ast.File
		external []*ast.File
	)

	for _, f := range input.Files {
		if f.Generated && strings.HasSuffix(f.Tree.Name(), "_test.go") {
			continue
		}

		file, err := parser.ParseFile(fset, f.Tree.Name(), f.Tree.Bytes(), parser.AllErrors)
		if err != nil {
			diags = append(diags, syntaxDiagnostics(err)...)
			continue
		}

		if file.Name.Name == input.Package+"_test" {
			external = append(external, file)
		} else {
			internal = append(internal, file)
		}
	}

	if len(diags) > 0 {
		return m.CompilationResult{Diagnostics: diags}, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pkg, diags := b.check(fset, input.ModulePath, internal, nil)
	if len(diags) == 0 && len(external) > 0 {
		_, diags = b.check(fset, input.ModulePath+"_test", external, pkg)
	}

	if len(diags) > 0 {
		return m.CompilationResult{Diagnostics: diags}, nil
	}

	bundle, err := Bundle(input)
	if err != nil {
		return m.CompilationResult{}, err
	}

	return m.CompilationResult{
		Success:  true,
		Artifact: &m.Artifact{Kind: m.ArtifactSourceBundle, Data: bundle},
	}, nil
}

func (b *TypesBuilder) check(fset *token.FileSet, path string, files []*ast.File, self *types.Package) (*types.Package, []m.Diagnostic) {
	var diags []m.Diagnostic

	conf := types.Config{
		Importer: &packageImporter{self: self, fallback: b.importer()},
		Error: func(err error) {
			var typeErr types.Error
			if errors.As(err, &typeErr) {
				diags = append(diags, positionDiagnostic(typeErr.Fset.Position(typeErr.Pos), typeErr.Msg))
				return
			}

			diags = append(diags, m.Diagnostic{Severity: m.SeverityError, Message: err.Error()})
		},
	}

	pkg, _ := conf.Check(path, fset, files, nil)

	return pkg, diags
}

func (b *TypesBuilder) importer() types.Importer {
	b.once.Do(func() {
		b.fallback = importer.ForCompiler(token.NewFileSet(), "source", nil)
	})

	return b.fallback
}

type packageImporter struct {
	self     *types.Package
	fallback types.Importer
}

func (p *packageImporter) Import(path string) (*types.Package, error) {
	if p.self != nil && p.self.Path() == path {
		return p.self, nil
	}

	return p.fallback.Import(path)
}

func syntaxDiagnostics(err error) []m.Diagnostic {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return []m.Diagnostic{{Severity: m.SeverityError, Message: err.Error()}}
	}

	diags := make([]m.Diagnostic, 0, len(list))
	for _, e := range list {
		diags = append(diags, positionDiagnostic(e.Pos, e.Msg))
	}

	return diags
}

func positionDiagnostic(pos token.Position, msg string) m.Diagnostic {
	diag := m.Diagnostic{Severity: m.SeverityError, Message: msg}
	if pos.IsValid() && pos.Filename != "" {
		diag.Location = &m.Location{File: pos.Filename, Line: pos.Line, Column: pos.Column}
	}

	return diag
}

// Unbundle extracts a source bundle into dir.
func Unbundle(data []byte, dir string) error {
	archive := txtar.Parse(data)
	if len(archive.Files) == 0 || !bytes.HasPrefix(archive.Comment, []byte("playground source bundle")) {
		return fmt.Errorf("not a source bundle")
	}

	for _, f := range archive.Files {
		if filepath.Base(f.Name) != f.Name {
			return fmt.Errorf("unexpected bundle entry %q", f.Name)
		}

		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	return nil
}
