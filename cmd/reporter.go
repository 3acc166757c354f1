package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"tempotoggl/toggl"
)

// progressReporter renders one spinner per pipeline stage and a line per
// created or failed entry. It writes to a fixed writer so sync output on
// stdout stays machine-friendly.
type progressReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (r *progressReporter) StageStarted(stage string) {
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(stage),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = r.bar.RenderBlank()
}

func (r *progressReporter) StageFinished(string) {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
	fmt.Fprintln(r.out)
}

func (r *progressReporter) EntryCreated(entry toggl.TimeEntryRequest) {
	fmt.Fprintf(r.out, "  created %s (%s)\n", entry.Start, entry.Description)
}

func (r *progressReporter) EntryFailed(entry toggl.TimeEntryRequest, err error) {
	fmt.Fprintf(r.out, "  failed  %s (%s): %v\n", entry.Start, entry.Description, err)
}
