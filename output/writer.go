package output

import (
	"fmt"
	"strings"

	"tempotoggl/tempo"
	"tempotoggl/toggl"
)

// Row is one exported line: the transformed Toggl payload next to the Tempo
// worklog it came from.
type Row struct {
	TempoWorklogID int64
	IssueKey       string
	IssueURL       string
	Start          string
	DurationSec    int
	Billable       bool
	Description    string
}

type Writer interface {
	Write(path string, rows []Row) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// BuildRows zips worklogs with their transformed payloads; both slices come
// from the same batch and keep positional correspondence.
func BuildRows(worklogs []tempo.Worklog, entries []toggl.TimeEntryRequest) []Row {
	count := len(worklogs)
	if len(entries) < count {
		count = len(entries)
	}

	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, Row{
			TempoWorklogID: worklogs[i].TempoWorklogID,
			IssueKey:       worklogs[i].Issue.Key,
			IssueURL:       worklogs[i].Issue.Self,
			Start:          entries[i].Start,
			DurationSec:    entries[i].Duration,
			Billable:       entries[i].Billable,
			Description:    entries[i].Description,
		})
	}
	return rows
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
