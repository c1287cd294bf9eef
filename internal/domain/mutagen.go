// Package domain contains the playground workflow: mutation catalog,
// compilation driver, rollback engine, retry controller and test execution.
package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"gooze.dev/pkg/playground/internal/domain/mutagens"
	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// Catalog turns an original tree into a mutated tree where every mutation is
// guarded by the active-mutation protocol.
type Catalog interface {
	Mutate(ctx context.Context, original *srctree.Tree, mutationTypes ...m.MutationType) (*srctree.Tree, []m.GuardedMutation, error)
}

// mutagen walks function bodies and asks every mutagen for candidates.
type mutagen struct{}

// NewCatalog creates the default mutation catalog.
func NewCatalog() Catalog {
	return &mutagen{}
}

func (mg *mutagen) Mutate(ctx context.Context, original *srctree.Tree, mutationTypes ...m.MutationType) (*srctree.Tree, []m.GuardedMutation, error) {
	mutationTypes, err := resolveMutationTypes(mutationTypes)
	if err != nil {
		return nil, nil, err
	}

	idx, err := srctree.Parse(original)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", original.Name(), err)
	}

	processors := make([]mutagens.Mutagen, 0, len(mutationTypes))
	for _, mutationType := range mutationTypes {
		process, _ := mutagens.ForType(mutationType)
		processors = append(processors, process)
	}

	src := mutagens.Source{Index: idx}
	candidates := collectCandidates(idx.File(), src, processors)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	guards := make([]m.GuardedMutation, 0, len(candidates))
	edits := make([]srctree.Edit, 0, len(candidates))

	for id, candidate := range candidates {
		guard, edit := guardCandidate(id, candidate, src)
		guards = append(guards, guard)
		edits = append(edits, edit)
	}

	mutated, err := original.Apply(edits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to inject guards: %w", err)
	}

	slog.Debug("Mutated tree", "file", original.Name(), "mutations", len(guards))

	return mutated, guards, nil
}

// collectCandidates visits function declarations in source order and their
// bodies in pre-order. Constant declarations and array types are skipped
// because guards are never constant expressions.
func collectCandidates(file *ast.File, src mutagens.Source, processors []mutagens.Mutagen) []mutagens.Candidate {
	var candidates []mutagens.Candidate

	visit := func(n ast.Node) bool {
		switch n := n.(type) {
		case nil:
			return false
		case *ast.GenDecl:
			if n.Tok == token.CONST {
				return false
			}
		case *ast.ArrayType:
			return false
		}

		for _, process := range processors {
			candidates = append(candidates, process(n, src)...)
		}

		return true
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		for _, process := range processors {
			candidates = append(candidates, process(fn, src)...)
		}

		ast.Inspect(fn.Body, visit)
	}

	return candidates
}

func guardCandidate(id int, c mutagens.Candidate, src mutagens.Source) (m.GuardedMutation, srctree.Edit) {
	span := src.Span(c.Node)
	original := src.Text(c.Node)
	tree := src.Index.Tree()

	var (
		edit     srctree.Edit
		mutation srctree.Edit
	)

	switch c.Kind {
	case m.GuardBlock:
		body := c.Node.(*ast.BlockStmt)
		inner := srctree.Span{Start: src.Index.Offset(body.Lbrace) + 1, End: src.Index.Offset(body.Rbrace)}
		before, after := mutctl.BlockWrap(id, c.Replacement)
		edit = srctree.Wrap(inner, before, after)
		mutation = srctree.Replace(inner, " "+c.Replacement+" ")
	case m.GuardStatement:
		before, after := mutctl.StmtWrap(id, c.Replacement)
		edit = srctree.Wrap(span, before, after)
		mutation = srctree.Replace(span, c.Replacement)
	default:
		before, after := mutctl.ExprWrap(id, c.Replacement)
		if c.Lazy {
			before, after = mutctl.LazyWrap(id, c.Replacement)
		}

		edit = srctree.Wrap(span, before, after)
		mutation = srctree.Replace(span, c.Replacement)
	}

	line, column := tree.Position(span.Start)

	return m.GuardedMutation{
		ID:          id,
		Kind:        c.Kind,
		Type:        c.Type,
		Span:        span,
		Line:        line,
		Column:      column,
		Original:    original,
		Replacement: c.Replacement,
		Diff:        mutationDiff(tree, mutation),
	}, edit
}

// mutationDiff renders the unified diff of a single mutation applied alone.
func mutationDiff(tree *srctree.Tree, mutation srctree.Edit) string {
	mutated, err := tree.Apply([]srctree.Edit{mutation})
	if err != nil {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(tree.String()),
		B:        difflib.SplitLines(mutated.String()),
		FromFile: "original/" + tree.Name(),
		ToFile:   "mutated/" + tree.Name(),
		Context:  1,
	})
	if err != nil {
		return ""
	}

	return diff
}

func resolveMutationTypes(mutationTypes []m.MutationType) ([]m.MutationType, error) {
	if len(mutationTypes) == 0 {
		return m.MutationTypes, nil
	}

	seen := make(map[m.MutationType]bool, len(mutationTypes))
	resolved := make([]m.MutationType, 0, len(mutationTypes))

	for _, mutationType := range mutationTypes {
		if _, ok := mutagens.ForType(mutationType); !ok {
			return nil, fmt.Errorf("unsupported mutation type: %v", mutationType)
		}

		if seen[mutationType] {
			continue
		}

		seen[mutationType] = true
		resolved = append(resolved, mutationType)
	}

	return resolved, nil
}
