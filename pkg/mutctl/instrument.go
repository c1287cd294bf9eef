package mutctl

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"gooze.dev/pkg/playground/pkg/srctree"
)

// Instrumentation file names added to every compiled unit.
const (
	CoreFile = "mutctl_gen.go"
	BootFile = "mutctl_boot_gen_test.go"
)

//go:embed templates/*.tmpl
var templates embed.FS

var instrumentation = template.Must(template.ParseFS(templates, "templates/*.tmpl"))

// Instrumentation renders the protocol core and the test-binary boot file
// for package pkg. The core is part of the package under test; the boot file
// binds the -mutctl.context flag and only exists in test builds.
func Instrumentation(pkg string) ([]*srctree.Tree, error) {
	data := struct {
		Package     string
		Flag        string
		ActiveFile  string
		CoveredFile string
	}{pkg, FlagName, ActiveFile, CoveredFile}

	files := make([]*srctree.Tree, 0, 2)

	for _, name := range []string{CoreFile, BootFile} {
		var buf bytes.Buffer
		if err := instrumentation.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", name, err)
		}

		files = append(files, srctree.New(name, buf.Bytes()))
	}

	return files, nil
}
