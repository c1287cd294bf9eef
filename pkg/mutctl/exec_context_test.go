package mutctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecutionContext(t *testing.T) {
	ec, err := NewExecutionContext(t.TempDir(), 4)
	require.NoError(t, err)

	active, err := os.ReadFile(filepath.Join(ec.Dir(), ActiveFile))
	require.NoError(t, err)
	require.Equal(t, "4\n", string(active))
	require.Equal(t, []string{"-mutctl.context=" + ec.Dir()}, ec.Args())

	t.Run("no covered file means nothing was covered", func(t *testing.T) {
		ctx, err := ec.Load()
		require.NoError(t, err)
		require.Empty(t, ctx.Covered())
		require.Equal(t, 4, ctx.ActiveID())
	})

	t.Run("covered ids are read back deduplicated", func(t *testing.T) {
		covered := filepath.Join(ec.Dir(), CoveredFile)
		require.NoError(t, os.WriteFile(covered, []byte("3\n1\n\n3\n"), 0o600))

		ctx, err := ec.Load()
		require.NoError(t, err)
		require.Equal(t, []int{1, 3}, ctx.Covered())
	})

	t.Run("malformed ids are rejected", func(t *testing.T) {
		covered := filepath.Join(ec.Dir(), CoveredFile)
		require.NoError(t, os.WriteFile(covered, []byte("x\n"), 0o600))

		_, err := ec.Load()
		require.Error(t, err)
	})

	require.NoError(t, ec.Close())
	require.NoDirExists(t, ec.Dir())
}
