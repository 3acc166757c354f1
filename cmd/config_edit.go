package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"tempotoggl/config"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active tempotoggl config file in $VISUAL, $EDITOR or vi.

If no config file exists yet, one is created from the example template first.
After the editor exits the content is validated; on a terminal an invalid
config can be re-opened right away instead of losing the edit.`,
	Example: `
  # Edit active config
  tempotoggl config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveActiveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeTemplateIfMissing(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		stdin := bufio.NewReader(os.Stdin)
		for {
			if err := openInEditor(configPath); err != nil {
				return err
			}

			content, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("read edited config: %w", err)
			}
			_, validationErr := config.ValidateYAMLContent(content)
			if validationErr == nil {
				fmt.Printf("Configuration saved and validated: %s\n", configPath)
				return nil
			}

			fmt.Printf("Config in %s is invalid: %v\n", configPath, validationErr)
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("config validation failed in %s: %w", configPath, validationErr)
			}
			again, err := confirm(stdin, os.Stdout, "Re-open the editor to fix it?")
			if err != nil {
				return err
			}
			if !again {
				return fmt.Errorf("config validation failed in %s: %w", configPath, validationErr)
			}
		}
	},
}

// resolveActiveConfigPath returns the file config commands operate on: the
// --configFile flag wins, then the file viper actually loaded, then the
// default $HOME/.tempotoggl.yaml.
func resolveActiveConfigPath(flagPath, loadedPath string) (string, error) {
	for _, candidate := range []string{flagPath, loadedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tempotoggl.yaml"), nil
}

// writeTemplateIfMissing creates the config file with the example template.
// O_EXCL keeps an existing file untouched even when two commands race.
func writeTemplateIfMissing(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create config file: %w", err)
	}
	if _, err := file.WriteString(config.ExampleYAML()); err != nil {
		file.Close()
		return false, fmt.Errorf("write config template: %w", err)
	}
	return true, file.Close()
}

// openInEditor blocks until $VISUAL, $EDITOR or vi exits.
func openInEditor(configPath string) error {
	editor := "vi"
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			editor = value
			break
		}
	}

	fields := strings.Fields(editor)
	editorCmd := exec.Command(fields[0], append(fields[1:], configPath)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("open editor %q: %w", fields[0], err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
