package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tempotoggl/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

API tokens are redacted. This command validates the configuration before
printing values.`,
	Example: `
  # Show active configuration
  tempotoggl config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("tempo.base_url: %s\n", cfg.Tempo.BaseURL)
		fmt.Printf("tempo.api_token: %s\n", redactToken(cfg.Tempo.APIToken))
		fmt.Printf("jira.email: %s\n", cfg.Jira.Email)
		fmt.Printf("jira.api_token: %s\n", redactToken(cfg.Jira.APIToken))
		fmt.Printf("toggl.base_url: %s\n", cfg.Toggl.BaseURL)
		fmt.Printf("toggl.api_token: %s\n", redactToken(cfg.Toggl.APIToken))
		fmt.Printf("toggl.workspace_id: %d\n", cfg.Toggl.WorkspaceID)
		fmt.Printf("toggl.project_id: %d\n", cfg.Toggl.ProjectID)
		fmt.Printf("toggl.task_id: %d\n", cfg.Toggl.TaskID)
		fmt.Printf("sync.created_with: %s\n", cfg.Sync.CreatedWith)
		fmt.Printf("sync.lookup_concurrency: %d\n", cfg.Sync.LookupConcurrency)
		fmt.Printf("sync.tags: [%s]\n", strings.Join(cfg.Sync.Tags, ", "))
		fmt.Printf("cache.enabled: %t\n", cfg.Cache.Enabled)
		fmt.Printf("cache.path: %s\n", cfg.Cache.Path)
		fmt.Printf("cache.max_age_hours: %d\n", cfg.Cache.MaxAgeHours)
	},
}

func redactToken(token string) string {
	if strings.TrimSpace(token) == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
