package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tempotoggl configuration file values.",
	Long: `Create, edit and display the tempotoggl configuration file.

The configuration stores API credentials and sync settings:
- tempo.base_url / tempo.api_token
- jira.email / jira.api_token (optional, enables issue key resolution)
- toggl.base_url / toggl.api_token / toggl.workspace_id / toggl.project_id / toggl.task_id
- sync.created_with / sync.lookup_concurrency / sync.tags
- cache.enabled / cache.path / cache.max_age_hours`,
	Example: `
  # Create default config in $HOME/.tempotoggl.yaml
  tempotoggl config create

  # Show active config and source file
  tempotoggl config show

  # Open active config in editor (creates example if missing)
  tempotoggl config edit
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
