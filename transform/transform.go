package transform

import (
	"fmt"
	"strings"

	"tempotoggl/tempo"
	"tempotoggl/toggl"
)

// DefaultCreatedWith is the provenance tag stamped on every created entry
// unless configuration overrides it.
const DefaultCreatedWith = "tempotoggl"

// Config carries the sink-side identifiers for one sync run. ProjectID and
// TaskID are nil when unconfigured, which keeps them out of the payload
// entirely rather than sending zero values.
type Config struct {
	WorkspaceID int64
	ProjectID   *int64
	TaskID      *int64
	CreatedWith string
	Tags        []string
}

// BuildTimeEntry maps one Tempo worklog onto a Toggl creation payload.
// Pure function of its inputs; start and duration pass through verbatim.
func BuildTimeEntry(w tempo.Worklog, cfg Config) toggl.TimeEntryRequest {
	createdWith := strings.TrimSpace(cfg.CreatedWith)
	if createdWith == "" {
		createdWith = DefaultCreatedWith
	}

	entry := toggl.TimeEntryRequest{
		WorkspaceID: cfg.WorkspaceID,
		Billable:    w.BillableSeconds > 0,
		Start:       w.StartDateTimeUTC,
		Duration:    w.TimeSpentSeconds,
		Description: buildDescription(w),
		CreatedWith: createdWith,
	}

	if cfg.ProjectID != nil {
		projectID := *cfg.ProjectID
		entry.ProjectID = &projectID
	}
	if cfg.TaskID != nil {
		taskID := *cfg.TaskID
		entry.TaskID = &taskID
	}
	if len(cfg.Tags) > 0 {
		entry.Tags = append([]string(nil), cfg.Tags...)
	}

	return entry
}

// BuildTimeEntries applies BuildTimeEntry per element, preserving input order.
func BuildTimeEntries(worklogs []tempo.Worklog, cfg Config) []toggl.TimeEntryRequest {
	entries := make([]toggl.TimeEntryRequest, 0, len(worklogs))
	for _, w := range worklogs {
		entries = append(entries, BuildTimeEntry(w, cfg))
	}
	return entries
}

// buildDescription prefers the resolved issue key, falls back to the raw
// issue URL, and uses the bare worklog description when neither exists.
func buildDescription(w tempo.Worklog) string {
	description := w.Description

	switch {
	case strings.TrimSpace(w.Issue.Key) != "":
		description = fmt.Sprintf("%s: %s", strings.TrimSpace(w.Issue.Key), description)
	case strings.TrimSpace(w.Issue.Self) != "":
		description = fmt.Sprintf("%s | %s", strings.TrimSpace(w.Issue.Self), description)
	}

	return strings.TrimSpace(description)
}
