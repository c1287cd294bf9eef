// Package mutctl implements the active-mutation protocol shared by the
// playground and the instrumentation it injects into every compiled unit.
//
// A guard asks whether its mutation id is the active one. Asking always
// records the id as covered, so a baseline run with no active mutation still
// reports which guards were reached.
package mutctl

import (
	"slices"
	"sync"
)

// BaselineID is the active id of an execution where no mutation is selected.
const BaselineID = -1

// Context is the per-execution protocol state. A Context is created fresh
// for every execution and must not be reused across runs.
type Context struct {
	active int

	mu      sync.Mutex
	covered map[int]struct{}
}

// NewContext returns a context where activeID is the only active mutation.
// Pass BaselineID for a coverage-only run.
func NewContext(activeID int) *Context {
	return &Context{
		active:  activeID,
		covered: make(map[int]struct{}),
	}
}

// IsActive reports whether id is the active mutation and marks it covered.
func (c *Context) IsActive(id int) bool {
	c.mu.Lock()
	c.covered[id] = struct{}{}
	c.mu.Unlock()

	return id == c.active
}

// ActiveID returns the selected mutation id, BaselineID when none is.
func (c *Context) ActiveID() int {
	return c.active
}

// Covered returns the ids evaluated so far in ascending order.
func (c *Context) Covered() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.covered))
	for id := range c.covered {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// MarkCovered records ids reported by an out-of-process execution.
func (c *Context) MarkCovered(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		c.covered[id] = struct{}{}
	}
}

// WasCovered reports whether id has been evaluated.
func (c *Context) WasCovered(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.covered[id]

	return ok
}
