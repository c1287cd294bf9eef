// Package srctree provides immutable source trees, an arena-indexed node view
// over them and a multi-edit tracker used to rewrite guarded mutations.
package srctree

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"
)

// Span is a half-open byte range [Start, End) inside a tree.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Tree is an immutable named source text. Every edit produces a new Tree.
type Tree struct {
	name  string
	src   []byte
	lines []int // byte offset of each line start
}

// New creates a tree from a copy of src.
func New(name string, src []byte) *Tree {
	buf := make([]byte, len(src))
	copy(buf, src)

	return &Tree{
		name:  name,
		src:   buf,
		lines: lineStarts(buf),
	}
}

// Name returns the file name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Bytes returns a copy of the tree source.
func (t *Tree) Bytes() []byte {
	out := make([]byte, len(t.src))
	copy(out, t.src)

	return out
}

// String returns the tree source.
func (t *Tree) String() string {
	return string(t.src)
}

// Len returns the size of the source in bytes.
func (t *Tree) Len() int {
	return len(t.src)
}

// Text returns the source covered by span, clamped to the tree bounds.
func (t *Tree) Text(span Span) string {
	start, end := t.clamp(span.Start), t.clamp(span.End)
	if end < start {
		return ""
	}

	return string(t.src[start:end])
}

// Equal reports whether both trees hold the same name and source.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}

	return t.name == other.name && bytes.Equal(t.src, other.src)
}

// Hash returns the hex SHA-256 of the source.
func (t *Tree) Hash() string {
	return fmt.Sprintf("%x", sha256.Sum256(t.src))
}

// WithName returns a tree holding the same source under another name.
func (t *Tree) WithName(name string) *Tree {
	return &Tree{name: name, src: t.src, lines: t.lines}
}

// LineCount returns the number of lines in the tree.
func (t *Tree) LineCount() int {
	return len(t.lines)
}

// Offset converts a 1-based line and byte column into a source offset.
func (t *Tree) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(t.lines) {
		return 0, false
	}

	if col < 1 {
		col = 1
	}

	offset := t.lines[line-1] + col - 1

	lineEnd := len(t.src)
	if line < len(t.lines) {
		lineEnd = t.lines[line]
	}

	if offset > lineEnd {
		offset = lineEnd
	}

	return offset, true
}

// Position converts a source offset into a 1-based line and byte column.
func (t *Tree) Position(offset int) (int, int) {
	offset = t.clamp(offset)
	line := sort.Search(len(t.lines), func(i int) bool { return t.lines[i] > offset })

	return line, offset - t.lines[line-1] + 1
}

func (t *Tree) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if offset > len(t.src) {
		return len(t.src)
	}

	return offset
}

func lineStarts(src []byte) []int {
	lines := []int{0}

	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}

	return lines
}
