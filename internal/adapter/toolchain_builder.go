package adapter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	m "gooze.dev/pkg/playground/internal/model"
)

var diagnosticLine = regexp.MustCompile(`^(?:\./)?([^:\s]+\.go):(\d+):(\d+): (.*)$`)

// ToolchainBuilder compiles a build with the go command into a test binary.
type ToolchainBuilder struct {
	goBin   string
	workDir string
}

// NewToolchainBuilder constructs a ToolchainBuilder using the go binary on
// PATH. Temporary modules are created under workDir, or the system temp dir
// when empty.
func NewToolchainBuilder(workDir string) *ToolchainBuilder {
	return &ToolchainBuilder{goBin: "go", workDir: workDir}
}

// Build implements Builder.
func (b *ToolchainBuilder) Build(ctx context.Context, input BuildInput) (m.CompilationResult, error) {
	dir, err := os.MkdirTemp(b.workDir, "playground-build-*")
	if err != nil {
		return m.CompilationResult{}, fmt.Errorf("failed to create build dir: %w", err)
	}
	defer os.RemoveAll(dir)

	gomod, err := GoMod(input.ModulePath, input.References)
	if err != nil {
		return m.CompilationResult{}, err
	}

	if err := os.WriteFile(filepath.Join(dir, "go.mod"), gomod, 0o600); err != nil {
		return m.CompilationResult{}, fmt.Errorf("failed to write go.mod: %w", err)
	}

	for _, f := range input.Files {
		if err := os.WriteFile(filepath.Join(dir, f.Tree.Name()), f.Tree.Bytes(), 0o600); err != nil {
			return m.CompilationResult{}, fmt.Errorf("failed to write %s: %w", f.Tree.Name(), err)
		}
	}

	binary := filepath.Join(dir, "unit.test")

	cmd := exec.CommandContext(ctx, b.goBin, "test", "-c", "-mod=mod", "-gcflags=-e", "-o", binary, ".")
	cmd.Dir = dir

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.CompilationResult{}, ctxErr
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return m.CompilationResult{}, fmt.Errorf("failed to run go test -c: %w", runErr)
	}

	if runErr != nil {
		diags := ParseDiagnostics(output.String())
		if len(diags) == 0 {
			diags = []m.Diagnostic{{Severity: m.SeverityError, Message: strings.TrimSpace(runErr.Error())}}
		}

		return m.CompilationResult{Diagnostics: diags}, nil
	}

	data, err := os.ReadFile(binary)
	if err != nil {
		return m.CompilationResult{}, fmt.Errorf("failed to read test binary: %w", err)
	}

	return m.CompilationResult{
		Success:  true,
		Artifact: &m.Artifact{Kind: m.ArtifactTestBinary, Data: data},
	}, nil
}

// ParseDiagnostics converts go build output into diagnostics in output
// order. Indented lines continue the previous message, package headers are
// skipped and any other line becomes an error without a location.
func ParseDiagnostics(output string) []m.Diagnostic {
	var diags []m.Diagnostic

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.TrimSpace(line) == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "\t") && len(diags) > 0:
			last := &diags[len(diags)-1]
			last.Message += "\n" + strings.TrimSpace(line)

			continue
		}

		match := diagnosticLine.FindStringSubmatch(line)
		if match == nil {
			diags = append(diags, m.Diagnostic{Severity: m.SeverityError, Message: strings.TrimSpace(line)})
			continue
		}

		lineNo, _ := strconv.Atoi(match[2])
		column, _ := strconv.Atoi(match[3])

		diags = append(diags, m.Diagnostic{
			Severity: m.SeverityError,
			Location: &m.Location{File: match[1], Line: lineNo, Column: column},
			Message:  match[4],
		})
	}

	return diags
}
