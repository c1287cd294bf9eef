package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/playground/internal/adapter"
	adaptermocks "gooze.dev/pkg/playground/internal/adapter/mocks"
	"gooze.dev/pkg/playground/internal/domain"
	m "gooze.dev/pkg/playground/internal/model"
)

func TestCompiler_Compile_Success(t *testing.T) {
	compiler := domain.NewCompiler(adapter.NewTypesBuilder())

	result, err := compiler.Compile(context.Background(), newUnit(calcSource, calcTest))
	require.NoError(t, err)

	assert.True(t, result.Success, "%v", result.Diagnostics)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, m.ArtifactSourceBundle, result.Artifact.Kind)
}

func TestCompiler_Compile_LocatesDiagnostics(t *testing.T) {
	source := "package calc\n\nfunc Add(a, b int) int {\n\treturn a + \"b\"\n}\n\nfunc Less(a, b int) bool { return a < b }\n"
	unit := newUnit(source, calcTest)

	result, err := domain.NewCompiler(adapter.NewTypesBuilder()).Compile(context.Background(), unit)
	require.NoError(t, err)

	require.False(t, result.Success)
	require.NotEmpty(t, result.Diagnostics)

	loc := result.Diagnostics[0].Location
	require.NotNil(t, loc)
	assert.Equal(t, "calc.go", loc.File, "builder file names map back to the unit")
	assert.Equal(t, 4, loc.Line)
	assert.Equal(t, loc.Span.Start, loc.Span.End)

	offset, ok := unit.Production.Offset(loc.Line, loc.Column)
	require.True(t, ok)
	assert.Equal(t, offset, loc.Span.Start)
}

func TestCompiler_Compile_PassesUnitToBuilder(t *testing.T) {
	builder := adaptermocks.NewMockBuilder(t)

	var got adapter.BuildInput

	builder.EXPECT().Build(mock.Anything, mock.Anything).
		Run(func(_ context.Context, input adapter.BuildInput) { got = input }).
		Return(m.CompilationResult{Success: true}, nil).
		Once()

	unit := newUnit(calcSource, calcTest)
	unit.References = []m.Reference{{Path: "github.com/google/uuid", Version: "v1.6.0"}}

	_, err := domain.NewCompiler(builder).Compile(context.Background(), unit)
	require.NoError(t, err)

	assert.Equal(t, domain.ModulePath, got.ModulePath)
	assert.Equal(t, "calc", got.Package)
	assert.Equal(t, unit.References, got.References)

	names := make([]string, 0, len(got.Files))
	for _, f := range got.Files {
		names = append(names, f.Tree.Name())
		if !f.Generated {
			continue
		}

		assert.Contains(t, f.Tree.String(), "package calc")
	}

	assert.Equal(t, domain.ProductionFile, names[0])
	assert.Equal(t, domain.TestFile, names[1])
	assert.Greater(t, len(names), 2, "instrumentation is compiled with the unit")
	assert.Equal(t, calcSource, got.Files[0].Tree.String())
}

func TestCompiler_Compile_InjectsImports(t *testing.T) {
	builder := adaptermocks.NewMockBuilder(t)

	var production string

	builder.EXPECT().Build(mock.Anything, mock.Anything).
		Run(func(_ context.Context, input adapter.BuildInput) { production = input.Files[0].Tree.String() }).
		Return(m.CompilationResult{Success: true}, nil)

	source := "package calc\n\nfunc Shout(s string) string {\n\treturn strings.ToUpper(s)\n}\n"
	unit := newUnit(source, calcTest)
	unit.Imports = []string{"strings", "fmt", "math/rand/v2"}

	_, err := domain.NewCompiler(builder).Compile(context.Background(), unit)
	require.NoError(t, err)

	firstLine, rest, _ := strings.Cut(production, "\n")
	assert.Equal(t, `package calc; import "strings"`, firstLine, "only used imports are injected")
	assert.Equal(t, strings.Count(source, "\n"), strings.Count(production, "\n"), "no line moves")
	assert.Contains(t, rest, "strings.ToUpper(s)")

	t.Run("existing imports are kept", func(t *testing.T) {
		source := "package calc\n\nimport \"strings\"\n\nfunc Shout(s string) string { return strings.ToUpper(s) }\n"
		unit := newUnit(source, calcTest)
		unit.Imports = []string{"strings"}

		_, err := domain.NewCompiler(builder).Compile(context.Background(), unit)
		require.NoError(t, err)
		assert.Equal(t, source, production)
	})
}

func TestCompiler_Compile_InjectedImportsTypeCheck(t *testing.T) {
	source := "package calc\n\nfunc Shout(s string) string {\n\treturn strings.ToUpper(s)\n}\n"
	test := "package calc\n\nimport \"testing\"\n\nfunc TestShout(t *testing.T) {\n\tif Shout(\"a\") != \"A\" {\n\t\tt.Fatal(\"Shout\")\n\t}\n}\n"

	unit := newUnit(source, test)

	result, err := domain.NewCompiler(adapter.NewTypesBuilder()).Compile(context.Background(), unit)
	require.NoError(t, err)
	assert.False(t, result.Success, "strings is not imported")

	unit.Imports = []string{"strings"}

	result, err = domain.NewCompiler(adapter.NewTypesBuilder()).Compile(context.Background(), unit)
	require.NoError(t, err)
	assert.True(t, result.Success, "%v", result.Diagnostics)
}

func TestCompiler_Compile_Errors(t *testing.T) {
	t.Run("needs both files", func(t *testing.T) {
		unit := newUnit(calcSource, calcTest)
		unit.Test = nil

		_, err := domain.NewCompiler(adapter.NewTypesBuilder()).Compile(context.Background(), unit)
		require.Error(t, err)
	})

	t.Run("builder failure", func(t *testing.T) {
		boom := errors.New("disk full")

		builder := adaptermocks.NewMockBuilder(t)
		builder.EXPECT().Build(mock.Anything, mock.Anything).Return(m.CompilationResult{}, boom)

		_, err := domain.NewCompiler(builder).Compile(context.Background(), newUnit(calcSource, calcTest))
		require.ErrorIs(t, err, boom)
	})

	t.Run("unlocated diagnostics stay unlocated", func(t *testing.T) {
		builder := scriptedBuilder(t, m.CompilationResult{Diagnostics: []m.Diagnostic{
			{Severity: m.SeverityError, Message: "go: missing go.sum entry"},
		}})

		result, err := domain.NewCompiler(builder).Compile(context.Background(), newUnit(calcSource, calcTest))
		require.NoError(t, err)
		require.Len(t, result.Diagnostics, 1)
		assert.True(t, result.Diagnostics[0].Unlocated())
	})
}
