package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	setConfig(t, backendConfigKey, backendTypes)

	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "compile backend\t types")

	// Test binaries carry build info with an empty or devel main version.
	if strings.Contains(output, "version: unknown") {
		return
	}

	assert.Contains(t, output, "playground version")
	assert.Contains(t, output, "go version")
}
