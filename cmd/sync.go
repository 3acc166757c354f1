package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tempotoggl/config"
	"tempotoggl/internal/timeutil"
	"tempotoggl/syncer"
)

var (
	syncFromDay string
	syncToDay   string
	syncDryRun  bool
	syncNoInput bool
	syncTimeout time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror Tempo worklogs into Toggl",
	Long: `Fetch Tempo worklogs for a date range, resolve Jira issue keys, and create
matching Toggl time entries.

Entries whose start instant already exists in Toggl are skipped as duplicates.
Creation failures are reported per entry and never abort the run.

Without --from/--to the command prompts for a range (current month by default);
use --no-input to take the defaults without prompting.`,
	Example: `
  # Sync the current month interactively
  tempotoggl sync

  # Sync an explicit inclusive range
  tempotoggl sync --from 2026-03-01 --to 2026-03-31

  # Report what would be created without writing to Toggl
  tempotoggl sync --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		from, to, err := resolveDateRange(syncFromDay, syncToDay, syncNoInput)
		if err != nil {
			return err
		}

		source, err := buildTempoClient(cfg)
		if err != nil {
			return err
		}
		sink, err := buildTogglClient(cfg)
		if err != nil {
			return err
		}
		enricher, closeCache, err := buildEnricher(cfg)
		if err != nil {
			return err
		}
		if closeCache != nil {
			defer closeCache()
		}
		// A typed nil must not reach the interface parameter, the pipeline
		// checks it against nil to decide whether to enrich.
		var enrichStage syncer.Enricher
		if enricher != nil {
			enrichStage = enricher
		} else {
			fmt.Println("Jira credentials not configured. Descriptions will keep raw issue URLs.")
		}

		opts := []syncer.Option{
			syncer.WithReporter(newProgressReporter(os.Stderr)),
			syncer.WithDryRun(syncDryRun),
		}
		service := syncer.NewService(source, sink, enrichStage, cfg.TransformConfig(), opts...)

		if syncDryRun {
			fmt.Printf("Sync dry-run mode: no entries will be created in Toggl.\n")
		}
		fmt.Printf("Syncing %s to %s\n", from, to)

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		result := service.Sync(ctx, from, to)

		printSyncResult(result, syncDryRun)

		// A run that failed before creation carries errors but no fetched
		// worklogs; surface that as a command failure.
		if result.FetchedFromTempo == 0 && len(result.Errors) > 0 {
			return fmt.Errorf("sync failed: %s", result.Errors[0])
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncFromDay, "from", "", "start of the inclusive date range (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncToDay, "to", "", "end of the inclusive date range (YYYY-MM-DD)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "stop after duplicate filtering, create nothing")
	syncCmd.Flags().BoolVar(&syncNoInput, "no-input", false, "never prompt, default to the current month")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 5*time.Minute, "overall timeout for the sync run")
	rootCmd.AddCommand(syncCmd)
}

// resolveDateRange fills missing bounds from flags, an interactive prompt, or
// the current month, in that order. Both bounds must be set together on the
// command line.
func resolveDateRange(from, to string, noInput bool) (string, string, error) {
	if from != "" && to != "" {
		return from, to, nil
	}
	if from != "" || to != "" {
		return "", "", fmt.Errorf("flags --from and --to must be used together")
	}

	first, last := timeutil.MonthRange(time.Now())
	defaultFrom := timeutil.FormatDay(first)
	defaultTo := timeutil.FormatDay(last)

	if noInput || !term.IsTerminal(int(os.Stdin.Fd())) {
		return defaultFrom, defaultTo, nil
	}
	return promptDateRange(os.Stdin, os.Stdout, defaultFrom, defaultTo)
}

func printSyncResult(result syncer.Result, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Count"})
	t.AppendRows([]table.Row{
		{"Fetched from Tempo", result.FetchedFromTempo},
		{"Fetched from Toggl", result.FetchedFromToggl},
		{"Unique", result.Unique},
		{"Duplicates skipped", result.Duplicates},
	})
	if dryRun {
		t.AppendRow(table.Row{"Would create", result.Unique})
	} else {
		t.AppendRows([]table.Row{
			{"Created", result.Created},
			{"Failed to create", result.FailedToCreate},
		})
	}
	t.Render()

	if len(result.Errors) > 0 {
		fmt.Println("Errors:")
		for _, msg := range result.Errors {
			fmt.Printf("  - %s\n", msg)
		}
	}
}
