package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tempotoggl/config"
	"tempotoggl/output"
	"tempotoggl/transform"
)

var (
	exportFromDay string
	exportToDay   string
	exportFormat  string
	exportOutput  string
	exportTimeout time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export Tempo worklogs for a date range to CSV/Excel",
	Long: `Fetch Tempo worklogs for a date range, resolve Jira issue keys, and write
the rows that a sync run would submit to Toggl.

Nothing is written to Toggl. Output format can be selected explicitly via
--format or inferred from the --output extension.`,
	Example: `
  # Export the current month to CSV
  tempotoggl export --output ./worklogs.csv

  # Export an explicit range to Excel
  tempotoggl export --from 2026-03-01 --to 2026-03-31 --output ./worklogs.xlsx

  # Force Excel format independent of extension
  tempotoggl export --format excel --output ./worklogs.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		from, to, err := resolveDateRange(exportFromDay, exportToDay, true)
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		source, err := buildTempoClient(cfg)
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

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		worklogs, err := source.FetchWorklogs(ctx, from, to)
		if err != nil {
			return fmt.Errorf("fetch tempo worklogs: %w", err)
		}
		if enricher != nil {
			worklogs = enricher.EnrichWorklogs(ctx, worklogs)
		}

		entries := transform.BuildTimeEntries(worklogs, cfg.TransformConfig())
		rows := output.BuildRows(worklogs, entries)
		if err := writer.Write(exportOutput, rows); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Range: %s..%s, Format: %s, File: %s\n", len(rows), from, to, format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFromDay, "from", "", "start of the inclusive date range (YYYY-MM-DD, default: first of current month)")
	exportCmd.Flags().StringVar(&exportToDay, "to", "", "end of the inclusive date range (YYYY-MM-DD, default: last of current month)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 5*time.Minute, "overall timeout for fetching and enrichment")

	_ = exportCmd.MarkFlagRequired("output")
}
