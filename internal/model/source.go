// Package model defines the data structures shared by the playground layers.
package model

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"gooze.dev/pkg/playground/pkg/srctree"
)

// Path represents a file system path.
type Path string

// Reference is an opaque library handle: a Go module requirement made
// available to the compiled unit.
type Reference struct {
	Path    string `yaml:"path" json:"path" validate:"required"`
	Version string `yaml:"version" json:"version" validate:"required"`
}

func (r Reference) String() string {
	return r.Path + "@" + r.Version
}

// SourceUnit is one playground submission: a production file and a test file
// of the same package plus the libraries and global imports they may use.
// A unit is never modified once built; use WithProduction to derive one.
type SourceUnit struct {
	Production *srctree.Tree
	Test       *srctree.Tree
	References []Reference
	Imports    []string
}

// WithProduction returns a copy of the unit holding another production tree.
func (u SourceUnit) WithProduction(tree *srctree.Tree) SourceUnit {
	u.Production = tree
	u.References = slices.Clone(u.References)
	u.Imports = slices.Clone(u.Imports)

	return u
}

// Hash identifies the unit contents.
func (u SourceUnit) Hash() string {
	h := sha256.New()

	for _, tree := range []*srctree.Tree{u.Production, u.Test} {
		if tree == nil {
			fmt.Fprint(h, "\x00")
			continue
		}

		fmt.Fprintf(h, "%s\x00%s\x00", tree.Name(), tree.Hash())
	}

	for _, ref := range u.References {
		fmt.Fprintf(h, "ref:%s\x00", ref)
	}

	for _, imp := range u.Imports {
		fmt.Fprintf(h, "import:%s\x00", imp)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
