package srctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopiesSource(t *testing.T) {
	src := []byte("package a\n")
	tree := New("a.go", src)

	src[0] = 'P'
	assert.Equal(t, "package a\n", tree.String())

	out := tree.Bytes()
	out[0] = 'P'
	assert.Equal(t, "package a\n", tree.String())
}

func TestTree_OffsetAndPosition(t *testing.T) {
	tree := New("a.go", []byte("package a\n\nfunc f() {}\n"))

	tests := []struct {
		name       string
		line, col  int
		wantOffset int
		wantOK     bool
	}{
		{name: "start of file", line: 1, col: 1, wantOffset: 0, wantOK: true},
		{name: "empty line", line: 2, col: 1, wantOffset: 10, wantOK: true},
		{name: "inside line", line: 3, col: 6, wantOffset: 16, wantOK: true},
		{name: "column past end of line", line: 1, col: 80, wantOffset: 10, wantOK: true},
		{name: "zero column", line: 3, col: 0, wantOffset: 11, wantOK: true},
		{name: "line zero", line: 0, col: 1, wantOK: false},
		{name: "line past end", line: 9, col: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := tree.Offset(tt.line, tt.col)
			require.Equal(t, tt.wantOK, ok)

			if ok {
				assert.Equal(t, tt.wantOffset, offset)
			}
		})
	}

	line, col := tree.Position(16)
	assert.Equal(t, 3, line)
	assert.Equal(t, 6, col)

	line, col = tree.Position(-5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestTree_Text(t *testing.T) {
	tree := New("a.go", []byte("package a\n"))

	assert.Equal(t, "a", tree.Text(Span{Start: 8, End: 9}))
	assert.Equal(t, "a\n", tree.Text(Span{Start: 8, End: 100}))
	assert.Empty(t, tree.Text(Span{Start: 9, End: 8}))
}

func TestTree_EqualAndHash(t *testing.T) {
	a := New("a.go", []byte("package a\n"))
	b := New("a.go", []byte("package a\n"))
	renamed := a.WithName("b.go")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(renamed))
	assert.Equal(t, a.Hash(), renamed.Hash())
	assert.NotEqual(t, a.Hash(), New("a.go", []byte("package b\n")).Hash())

	var missing *Tree
	assert.True(t, missing.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestSpan(t *testing.T) {
	outer := Span{Start: 2, End: 10}

	assert.Equal(t, 8, outer.Len())
	assert.True(t, outer.Contains(Span{Start: 2, End: 10}))
	assert.False(t, outer.Contains(Span{Start: 1, End: 4}))
	assert.True(t, outer.Overlaps(Span{Start: 9, End: 12}))
	assert.False(t, outer.Overlaps(Span{Start: 10, End: 12}))
}
