package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/playground/internal/model"
)

const sessionManifestName = "session.yaml"

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [source.go]",
		Short: "Generate a default playground.yaml and an optional session manifest",
		Long: `Create a playground.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually.

When a production file is given, a session.yaml pairing it with its _test.go
file is written next to it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			if len(args) == 0 {
				return nil
			}

			manifest, err := writeSessionManifest(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("Wrote %s\n", manifest)

			return nil
		},
	}
}

// writeSessionManifest writes a session.yaml next to source and returns its
// path. An existing manifest is never overwritten.
func writeSessionManifest(source string) (string, error) {
	if filepath.Ext(source) != ".go" || strings.HasSuffix(source, "_test.go") {
		return "", fmt.Errorf("%s is not a production Go file", source)
	}

	base := filepath.Base(source)
	session := m.Session{
		Source: m.Path(base),
		Test:   m.Path(strings.TrimSuffix(base, ".go") + "_test.go"),
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to encode session manifest: %w", err)
	}

	target := filepath.Join(filepath.Dir(source), sessionManifestName)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("session manifest %s already exists", target)
		}

		return "", fmt.Errorf("failed to write session manifest: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write session manifest: %w", err)
	}

	return target, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
