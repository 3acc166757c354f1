package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"tempotoggl/config"
)

var configCreateNoInput bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file, prompting for API credentials.",
	Long: `Create a new configuration file.

On a terminal the command asks for the Tempo and Toggl API tokens (read
without echo), the Toggl workspace ID, and optional Jira credentials for
issue enrichment. With --no-input, or when stdin is not a terminal, the
placeholder template is written instead.

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.tempotoggl.yaml, prompting for tokens
  tempotoggl config create

  # Write the bare template without prompting
  tempotoggl config create --no-input
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveActiveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config file already exists at: %s\n", configPath)
			return nil
		}

		var values config.TemplateValues
		if !configCreateNoInput && term.IsTerminal(int(os.Stdin.Fd())) {
			values, err = promptTemplateValues(bufio.NewReader(os.Stdin), os.Stdout, readSecret)
			if err != nil {
				return err
			}
		}

		content := config.RenderYAML(values)
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
		fmt.Printf("New config file created at: %s\n", configPath)

		if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
			fmt.Println("The config is not complete yet. Fill in the remaining values with: tempotoggl config edit")
		}
		return nil
	},
}

// promptTemplateValues collects the credentials for a fresh config file.
// Secrets go through readToken so they never echo on a terminal.
func promptTemplateValues(reader *bufio.Reader, out io.Writer, readToken func() (string, error)) (config.TemplateValues, error) {
	var values config.TemplateValues
	var err error

	if values.TempoAPIToken, err = promptSecret(out, "Tempo API token", readToken); err != nil {
		return config.TemplateValues{}, err
	}
	if values.TogglAPIToken, err = promptSecret(out, "Toggl API token", readToken); err != nil {
		return config.TemplateValues{}, err
	}

	workspace, err := promptLine(reader, out, "Toggl workspace ID")
	if err != nil {
		return config.TemplateValues{}, err
	}
	if workspace != "" {
		values.TogglWorkspaceID, err = strconv.ParseInt(workspace, 10, 64)
		if err != nil {
			return config.TemplateValues{}, fmt.Errorf("workspace ID must be a number, got %q", workspace)
		}
	}

	email, err := promptLine(reader, out, "Jira email (leave empty to skip issue enrichment)")
	if err != nil {
		return config.TemplateValues{}, err
	}
	if email != "" {
		values.JiraEmail = email
		if values.JiraAPIToken, err = promptSecret(out, "Jira API token", readToken); err != nil {
			return config.TemplateValues{}, err
		}
	}

	return values, nil
}

func promptSecret(out io.Writer, label string, readToken func() (string, error)) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	token, err := readToken()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(token), nil
}

func promptLine(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads one token from the terminal without echoing it.
func readSecret() (string, error) {
	token, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return string(token), err
}

func init() {
	configCmd.AddCommand(configCreateCmd)
	configCreateCmd.Flags().BoolVar(&configCreateNoInput, "no-input", false, "write the placeholder template without prompting")
}
