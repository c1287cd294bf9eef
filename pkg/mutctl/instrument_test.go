package mutctl

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstrumentation(t *testing.T) {
	files, err := Instrumentation("calc")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, CoreFile, files[0].Name())
	require.Equal(t, BootFile, files[1].Name())

	for _, f := range files {
		parsed, err := parser.ParseFile(token.NewFileSet(), f.Name(), f.Bytes(), parser.ImportsOnly)
		require.NoError(t, err, f.Name())
		require.Equal(t, "calc", parsed.Name.Name)
	}

	require.Contains(t, files[0].String(), "func "+ActiveFunc+"(id int) bool")
	require.Contains(t, files[1].String(), `flag.String("`+FlagName+`"`)
}

func TestInstrumentation_BootWorksBeforeFlagParse(t *testing.T) {
	files, err := Instrumentation("calc")
	require.NoError(t, err)

	boot := files[1].String()

	// The hook is installed by a variable initializer, ahead of every init
	// function, and resolves the context from os.Args until flags are parsed.
	require.Contains(t, boot, "_mutctlInstalled = _mutctlInstall()")
	require.NotContains(t, boot, "func init()")
	require.Contains(t, boot, `strings.CutPrefix(name, "`+FlagName+`=")`)
	require.Contains(t, files[0].String(), "_mutctlUnrecorded")
}
