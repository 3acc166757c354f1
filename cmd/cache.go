package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tempotoggl/config"
	"tempotoggl/storage"
)

var cacheOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the local Jira issue cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many Jira issues are cached",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.CountIssues()
		if err != nil {
			return err
		}
		fmt.Printf("Cached issues: %d, File: %s\n", count, cfg.Cache.Path)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached Jira issues",
	Long: `Delete cached Jira issues.

By default every cached issue is removed. With --older-than only entries
fetched before the given age are removed.`,
	Example: `
  # Drop the whole cache
  tempotoggl cache clear

  # Drop only entries older than 30 days
  tempotoggl cache clear --older-than 720h
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		var deleted int64
		if cacheOlderThan > 0 {
			deleted, err = store.DeleteIssuesOlderThan(time.Now().Add(-cacheOlderThan))
		} else {
			deleted, err = store.DeleteAllIssues()
		}
		if err != nil {
			return err
		}
		fmt.Printf("Cache cleared. Deleted issues: %d\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().DurationVar(&cacheOlderThan, "older-than", 0, "only delete entries fetched longer ago than this duration")
}
