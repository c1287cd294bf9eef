package srctree

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidEdit is returned when an edit set cannot be applied to a tree.
var ErrInvalidEdit = errors.New("invalid edit")

// Edit replaces Span with Before, the rendered Keep range and After.
//
// Keep must lie inside Span. Edits located inside another edit's Keep range
// are applied recursively; edits inside Span but outside Keep are discarded
// together with the text they cover. Edits sharing the same span nest in the
// order they were given, the first one outermost.
type Edit struct {
	Span   Span
	Keep   Span
	Before string
	After  string
}

// Replace returns an edit that swaps span for text.
func Replace(span Span, text string) Edit {
	return Edit{Span: span, Keep: Span{Start: span.Start, End: span.Start}, Before: text}
}

// Wrap returns an edit that surrounds span with before and after.
func Wrap(span Span, before, after string) Edit {
	return Edit{Span: span, Keep: span, Before: before, After: after}
}

// Unwrap returns an edit that reduces span to the keep range it encloses.
func Unwrap(span, keep Span) Edit {
	return Edit{Span: span, Keep: keep}
}

// Apply renders every edit in a single pass and returns the resulting tree.
// The receiver is left untouched.
func (t *Tree) Apply(edits []Edit) (*Tree, error) {
	if len(edits) == 0 {
		return t, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}

		return sorted[i].Span.End > sorted[j].Span.End
	})

	if err := t.validate(sorted); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.Grow(len(t.src))
	t.render(&buf, 0, len(t.src), sorted, 0)

	return New(t.name, buf.Bytes()), nil
}

func (t *Tree) validate(edits []Edit) error {
	for i, e := range edits {
		if e.Span.Start < 0 || e.Span.End > len(t.src) || e.Span.Start > e.Span.End {
			return fmt.Errorf("%w: span %s out of bounds (size %d)", ErrInvalidEdit, e.Span, len(t.src))
		}

		if !e.Span.Contains(e.Keep) || e.Keep.Start > e.Keep.End {
			return fmt.Errorf("%w: keep %s outside span %s", ErrInvalidEdit, e.Keep, e.Span)
		}

		for _, other := range edits[i+1:] {
			if !e.Span.Overlaps(other.Span) {
				continue
			}

			if !e.Span.Contains(other.Span) {
				return fmt.Errorf("%w: spans %s and %s overlap", ErrInvalidEdit, e.Span, other.Span)
			}

			if e.Keep.Overlaps(other.Span) && !e.Keep.Contains(other.Span) {
				return fmt.Errorf("%w: span %s crosses keep range %s", ErrInvalidEdit, other.Span, e.Keep)
			}
		}
	}

	return nil
}

func (t *Tree) render(buf *bytes.Buffer, lo, hi int, edits []Edit, from int) {
	pos := lo

	for k := from; k < len(edits); k++ {
		e := edits[k]
		if e.Span.Start < pos || e.Span.End > hi {
			continue
		}

		buf.Write(t.src[pos:e.Span.Start])
		buf.WriteString(e.Before)
		t.render(buf, e.Keep.Start, e.Keep.End, edits, k+1)
		buf.WriteString(e.After)

		pos = e.Span.End
	}

	buf.Write(t.src[pos:hi])
}
