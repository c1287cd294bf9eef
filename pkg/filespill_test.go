package pkg

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill creates the file inside dir", func(t *testing.T) {
		dir := t.TempDir()

		spill, err := NewFileSpill[int](dir)
		require.NoError(t, err)
		defer spill.Close()

		require.FileExists(t, spill.Path())
		require.Contains(t, spill.Path(), dir)
	})

	t.Run("Append and Get", func(t *testing.T) {
		spill, err := NewFileSpill[string](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Append("second"))
		require.Equal(t, uint64(2), spill.Len())

		val, err := spill.Get(1)
		require.NoError(t, err)
		require.Equal(t, "second", val)

		val, err = spill.Get(3)
		require.Error(t, err)
		require.Empty(t, val)
	})

	t.Run("Range iterates all items in order", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.AppendBatch([]int{3, 1, 2}))

		var got []int

		err = spill.Range(func(_ uint64, item int) error {
			got = append(got, item)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{3, 1, 2}, got)
	})

	t.Run("Range callback error stops iteration", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.AppendBatch([]int{1, 2, 3}))

		stop := errors.New("stop")
		visited := 0

		err = spill.Range(func(_ uint64, _ int) error {
			visited++
			return stop
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 1, visited)
	})

	t.Run("zero fields do not leak between items", func(t *testing.T) {
		type entry struct {
			ID   int
			Diff string
		}

		spill, err := NewFileSpill[entry](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.AppendBatch([]entry{{ID: 1, Diff: "-a\n+b\n"}, {ID: 2}}))

		var got []entry

		require.NoError(t, spill.Range(func(_ uint64, item entry) error {
			got = append(got, item)
			return nil
		}))
		require.Equal(t, []entry{{ID: 1, Diff: "-a\n+b\n"}, {ID: 2}}, got)

		second, err := spill.Get(1)
		require.NoError(t, err)
		require.Empty(t, second.Diff)
	})

	t.Run("Close is idempotent and Discard removes the file", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Close())
		require.NoError(t, spill.Close())
		require.NoError(t, spill.Discard())

		_, err = os.Stat(spill.Path())
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
