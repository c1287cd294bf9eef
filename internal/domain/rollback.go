package domain

import (
	"fmt"
	"log/slog"
	"slices"

	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/mutctl"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// RepairResult is the outcome of one rollback pass.
type RepairResult struct {
	Tree      *srctree.Tree
	Removed   []int
	Anomalies []m.EscalationAnomaly
}

// RollbackEngine strips the guards that break a build.
type RollbackEngine interface {
	// Repair attributes every error diagnostic of tree to a live guard and
	// returns the tree with those guards reverted to their original code.
	// live maps the ids still present in tree to their mutation.
	Repair(tree *srctree.Tree, live map[int]m.GuardedMutation, diags []m.Diagnostic, lastAttempt bool) (RepairResult, error)
}

type rollbackEngine struct{}

// NewRollbackEngine constructs the default RollbackEngine.
func NewRollbackEngine() RollbackEngine {
	return &rollbackEngine{}
}

// guardIndex is the side table of live guards found in a parsed tree.
type guardIndex struct {
	idx    *srctree.Index
	byNode map[int]mutctl.Guard
	kinds  map[int]m.GuardKind
}

func indexGuards(idx *srctree.Index, live map[int]m.GuardedMutation) *guardIndex {
	g := &guardIndex{idx: idx, byNode: make(map[int]mutctl.Guard), kinds: make(map[int]m.GuardKind)}

	idx.Walk(idx.Root(), func(id int) bool {
		guard, ok := mutctl.Recognize(idx.AST(id))
		if !ok {
			return true
		}

		if mutation, ok := live[guard.ID]; ok {
			g.byNode[id] = guard
			g.kinds[guard.ID] = mutation.Kind
		}

		return true
	})

	return g
}

// attribute finds the guard responsible for the node at span: the nearest
// guard among the node and its ancestors, else the first guard among the
// expression descendants of an expression node.
func (g *guardIndex) attribute(span srctree.Span) (mutctl.Guard, bool) {
	start := g.idx.Find(span)

	for cur := start; cur != srctree.NoNode; cur = g.idx.Parent(cur) {
		if guard, ok := g.byNode[cur]; ok {
			return guard, true
		}
	}

	if g.idx.Node(start).Kind != srctree.KindExpr {
		return mutctl.Guard{}, false
	}

	return g.searchDown(start)
}

func (g *guardIndex) searchDown(id int) (mutctl.Guard, bool) {
	var children []int

	for _, child := range g.idx.Children(id) {
		if g.idx.Node(child).Kind == srctree.KindExpr {
			children = append(children, child)
		}
	}

	for _, child := range children {
		if guard, ok := g.byNode[child]; ok {
			return guard, true
		}
	}

	for _, child := range children {
		if guard, ok := g.searchDown(child); ok {
			return guard, true
		}
	}

	return mutctl.Guard{}, false
}

// inDeclaration lists the guards located inside node decl in pre-order.
func (g *guardIndex) inDeclaration(decl int) []mutctl.Guard {
	var guards []mutctl.Guard

	g.idx.Walk(decl, func(id int) bool {
		if guard, ok := g.byNode[id]; ok {
			guards = append(guards, guard)
		}

		return true
	})

	return guards
}

func (e *rollbackEngine) Repair(tree *srctree.Tree, live map[int]m.GuardedMutation, diags []m.Diagnostic, lastAttempt bool) (RepairResult, error) {
	// A tree with syntax errors still yields a partial index. Diagnostics no
	// guard encloses are handled as orphans below.
	idx, err := srctree.Parse(tree)
	if err != nil {
		slog.Debug("Repairing a tree with syntax errors", "file", tree.Name(), "error", err)
	}

	guards := indexGuards(idx, live)

	var (
		queue     []mutctl.Guard
		queued    = make(map[int]bool)
		orphans   []m.Diagnostic
		anomalies []m.EscalationAnomaly
	)

	enqueue := func(guard mutctl.Guard) bool {
		if queued[guard.ID] {
			return false
		}

		queued[guard.ID] = true
		queue = append(queue, guard)

		return true
	}

	for _, d := range ownErrors(tree, diags) {
		guard, ok := guards.attribute(d.Location.Span)
		if !ok {
			orphans = append(orphans, d)
			continue
		}

		enqueue(guard)
	}

	if len(queue) == 0 {
		for _, d := range orphans {
			if anomaly, ok := e.escalate(guards, d, enqueue); ok {
				anomalies = append(anomalies, anomaly)
			}
		}
	}

	edits := make([]srctree.Edit, 0, len(queue))
	removed := make([]int, 0, len(queue))

	for _, guard := range queue {
		edits = append(edits, mutctl.Removal(idx, guard))
		removed = append(removed, guard.ID)
	}

	repaired, err := tree.Apply(edits)
	if err != nil {
		return RepairResult{}, fmt.Errorf("failed to remove guards %v: %w", removed, err)
	}

	if lastAttempt && repaired.Equal(tree) {
		first := firstError(diags)

		return RepairResult{}, &UnrecoverableBuildError{
			Reason:     "last rollback pass removed no mutation",
			Diagnostic: first,
		}
	}

	slices.Sort(removed)

	return RepairResult{Tree: repaired, Removed: removed, Anomalies: anomalies}, nil
}

// escalate widens rollback to the declaration enclosing d: its block guards
// when it has any, otherwise every guard it contains.
func (e *rollbackEngine) escalate(guards *guardIndex, d m.Diagnostic, enqueue func(mutctl.Guard) bool) (m.EscalationAnomaly, bool) {
	decl := guards.idx.EnclosingDecl(guards.idx.Find(d.Location.Span))
	candidates := guards.inDeclaration(decl)

	if len(candidates) == 0 {
		return m.EscalationAnomaly{}, false
	}

	mode := m.EscalationSafeMode

	var blocks []mutctl.Guard

	for _, guard := range candidates {
		if guards.kinds[guard.ID] == m.GuardBlock {
			blocks = append(blocks, guard)
		}
	}

	if len(blocks) > 0 {
		mode = m.EscalationBlock
		candidates = blocks
	}

	var ids []int

	for _, guard := range candidates {
		if enqueue(guard) {
			ids = append(ids, guard.ID)
		}
	}

	if len(ids) == 0 {
		return m.EscalationAnomaly{}, false
	}

	anomaly := m.EscalationAnomaly{
		Mode:        mode,
		File:        d.Location.File,
		Declaration: guards.idx.Node(decl).Span,
		RemovedIDs:  ids,
		Diagnostic:  d,
	}

	slog.Warn("Rollback escalated", "mode", mode, "file", anomaly.File,
		"declaration", anomaly.Declaration, "removed", ids, "diagnostic", d.Message)

	return anomaly, true
}

// ownErrors returns the located error diagnostics of tree. Diagnostics of
// other files cannot be caused by its guards.
func ownErrors(tree *srctree.Tree, diags []m.Diagnostic) []m.Diagnostic {
	var own []m.Diagnostic

	for _, d := range m.Errors(diags) {
		if d.Location == nil {
			continue
		}

		if d.Location.File != tree.Name() {
			slog.Warn("Diagnostic outside the mutated file", "file", d.Location.File, "diagnostic", d.Message)
			continue
		}

		own = append(own, d)
	}

	return own
}

func firstError(diags []m.Diagnostic) *m.Diagnostic {
	for _, d := range diags {
		if d.IsError() {
			return &d
		}
	}

	return nil
}
