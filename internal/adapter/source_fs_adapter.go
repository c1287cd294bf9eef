package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/playground/internal/model"
	"gooze.dev/pkg/playground/pkg/srctree"
)

// SourceFSAdapter provides access to the playground sources on disk.
type SourceFSAdapter interface {
	ReadFile(path m.Path) ([]byte, error)
	HashFile(path m.Path) (string, error)
	DetectTestFile(sourcePath m.Path) (m.Path, error)
	FileInfo(path m.Path) (os.FileInfo, error)
	WriteFile(path m.Path, content []byte, perm os.FileMode) error
	// LoadSession reads a yaml session manifest. Relative source paths are
	// resolved against the manifest directory.
	LoadSession(path m.Path) (m.Session, error)
	// LoadUnit reads the files of a session into a source unit.
	LoadUnit(session m.Session) (m.SourceUnit, error)
}

// LocalSourceFSAdapter provides a concrete implementation using the os package.
type LocalSourceFSAdapter struct {
	validate *validator.Validate
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ReadFile reads the file contents for the provided path.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// DetectTestFile finds the companion *_test.go file for the provided source path.
func (a *LocalSourceFSAdapter) DetectTestFile(sourcePath m.Path) (m.Path, error) {
	source := string(sourcePath)
	if filepath.Ext(source) != ".go" {
		return "", nil
	}

	if strings.HasSuffix(source, "_test.go") {
		return "", nil
	}

	base := strings.TrimSuffix(filepath.Base(source), ".go")
	testFile := filepath.Join(filepath.Dir(source), base+"_test.go")

	if _, err := os.Stat(testFile); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", err
	}

	return m.Path(testFile), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// LoadSession implements SourceFSAdapter.
func (a *LocalSourceFSAdapter) LoadSession(path m.Path) (m.Session, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Session{}, fmt.Errorf("failed to read session %s: %w", path, err)
	}

	var session m.Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return m.Session{}, fmt.Errorf("failed to parse session %s: %w", path, err)
	}

	dir := filepath.Dir(string(path))
	session.Source = resolve(dir, session.Source)
	session.Test = resolve(dir, session.Test)

	return session, nil
}

func resolve(dir string, p m.Path) m.Path {
	if p == "" || filepath.IsAbs(string(p)) {
		return p
	}

	return m.Path(filepath.Join(dir, string(p)))
}

// LoadUnit implements SourceFSAdapter. A missing test path is replaced by the
// companion test file of the source.
func (a *LocalSourceFSAdapter) LoadUnit(session m.Session) (m.SourceUnit, error) {
	if session.Test == "" {
		test, err := a.DetectTestFile(session.Source)
		if err != nil {
			return m.SourceUnit{}, err
		}

		session.Test = test
	}

	if err := a.validate.Struct(session); err != nil {
		return m.SourceUnit{}, fmt.Errorf("invalid session: %w", err)
	}

	production, err := a.ReadFile(session.Source)
	if err != nil {
		return m.SourceUnit{}, fmt.Errorf("failed to read source: %w", err)
	}

	test, err := a.ReadFile(session.Test)
	if err != nil {
		return m.SourceUnit{}, fmt.Errorf("failed to read tests: %w", err)
	}

	return m.SourceUnit{
		Production: srctree.New(filepath.Base(string(session.Source)), production),
		Test:       srctree.New(filepath.Base(string(session.Test)), test),
		References: session.References,
		Imports:    session.Imports,
	}, nil
}
