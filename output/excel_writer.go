package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []Row) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"TempoWorklogID", "IssueKey", "IssueURL", "Start", "DurationSec", "Billable", "Description"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		values := []string{
			strconv.FormatInt(row.TempoWorklogID, 10),
			row.IssueKey,
			row.IssueURL,
			row.Start,
			strconv.Itoa(row.DurationSec),
			strconv.FormatBool(row.Billable),
			row.Description,
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
