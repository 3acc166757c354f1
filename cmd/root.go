package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tempotoggl/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempotoggl",
	Short: "Mirror Tempo worklogs into Toggl Track without creating duplicates.",
	Long: `tempotoggl fetches Tempo worklogs for a date range, resolves the referenced
Jira issues, transforms each worklog into a Toggl Track time entry, filters
out entries already present in Toggl, and creates the remainder.

Entries are matched by start instant, so re-running a sync for the same range
is safe.`,
	Example: `
  # Create configuration file
  tempotoggl config create

  # Sync a date range (inclusive)
  tempotoggl sync --from 2025-10-01 --to 2025-10-31

  # Sync interactively (prompts for the range, defaults to current month)
  tempotoggl sync

  # Preview without writing to Toggl
  tempotoggl sync --from 2025-10-01 --to 2025-10-31 --dry-run

  # Export transformed entries instead of creating them
  tempotoggl export --from 2025-10-01 --to 2025-10-31 --output ./entries.csv

  # Inspect or reset the local Jira issue cache
  tempotoggl cache stats
  tempotoggl cache clear
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.tempotoggl.yaml, then ./.tempotoggl.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tempotoggl")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: tempotoggl config create")
	}
}
