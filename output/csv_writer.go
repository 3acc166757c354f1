package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"TempoWorklogID", "IssueKey", "IssueURL", "Start", "DurationSec", "Billable", "Description"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.TempoWorklogID, 10),
			row.IssueKey,
			row.IssueURL,
			row.Start,
			strconv.Itoa(row.DurationSec),
			strconv.FormatBool(row.Billable),
			row.Description,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
