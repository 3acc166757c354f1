package syncer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tempotoggl/tempo"
	"tempotoggl/toggl"
	"tempotoggl/transform"
)

type fakeSource struct {
	worklogs []tempo.Worklog
	err      error
}

func (f *fakeSource) FetchWorklogs(ctx context.Context, from, to string) ([]tempo.Worklog, error) {
	return f.worklogs, f.err
}

type fakeSink struct {
	existing  []toggl.TimeEntry
	listErr   error
	created   []toggl.TimeEntryRequest
	createErr func(entry toggl.TimeEntryRequest) error
}

func (f *fakeSink) ListTimeEntries(ctx context.Context, from, to string) ([]toggl.TimeEntry, error) {
	return f.existing, f.listErr
}

func (f *fakeSink) CreateTimeEntry(ctx context.Context, entry toggl.TimeEntryRequest) (toggl.TimeEntry, error) {
	if f.createErr != nil {
		if err := f.createErr(entry); err != nil {
			return toggl.TimeEntry{}, err
		}
	}
	f.created = append(f.created, entry)
	return toggl.TimeEntry{ID: int64(len(f.created))}, nil
}

type passthroughEnricher struct {
	called bool
}

func (p *passthroughEnricher) EnrichWorklogs(ctx context.Context, worklogs []tempo.Worklog) []tempo.Worklog {
	p.called = true
	out := append([]tempo.Worklog(nil), worklogs...)
	for i := range out {
		if out[i].Issue.Self != "" {
			out[i].Issue.Key = "WEB-1"
		}
	}
	return out
}

func testConfig() transform.Config {
	return transform.Config{WorkspaceID: 42}
}

func worklogAt(id int64, start string) tempo.Worklog {
	return tempo.Worklog{
		TempoWorklogID:   id,
		TimeSpentSeconds: 3600,
		BillableSeconds:  3600,
		StartDateTimeUTC: start,
		Description:      "work",
	}
}

func TestSync_EmptySourceYieldsZeroResult(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	service := NewService(&fakeSource{}, sink, nil, testConfig())

	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if result.FetchedFromTempo != 0 || result.Created != 0 || result.Duplicates != 0 {
		t.Fatalf("expected zero counters, got %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(sink.created) != 0 {
		t.Fatalf("nothing should be created for an empty source")
	}
}

func TestSync_FullPipeline(t *testing.T) {
	t.Parallel()

	source := &fakeSource{worklogs: []tempo.Worklog{
		worklogAt(1, "2025-10-01T09:00:00Z"),
		worklogAt(2, "2025-10-01T10:00:00Z"),
		worklogAt(3, "2025-10-01T11:00:00Z"),
	}}
	sink := &fakeSink{existing: []toggl.TimeEntry{
		{ID: 77, Start: "2025-10-01T09:00:00+00:00"},
	}}
	enricher := &passthroughEnricher{}

	service := NewService(source, sink, enricher, testConfig())
	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if !enricher.called {
		t.Fatalf("expected enrichment stage to run")
	}
	if result.FetchedFromTempo != 3 || result.FetchedFromToggl != 1 {
		t.Fatalf("unexpected fetch counters: %+v", result)
	}
	if result.Unique != 2 || result.Duplicates != 1 {
		t.Fatalf("unexpected dedupe counters: %+v", result)
	}
	if result.Created != 2 || result.FailedToCreate != 0 {
		t.Fatalf("unexpected create counters: %+v", result)
	}
	if len(sink.created) != 2 {
		t.Fatalf("expected 2 creations, got %d", len(sink.created))
	}
}

func TestSync_PartialCreationFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{worklogs: []tempo.Worklog{
		worklogAt(1, "2025-10-01T09:00:00Z"),
		worklogAt(2, "2025-10-01T10:00:00Z"),
		worklogAt(3, "2025-10-01T11:00:00Z"),
	}}
	sink := &fakeSink{createErr: func(entry toggl.TimeEntryRequest) error {
		if entry.Start == "2025-10-01T10:00:00Z" {
			return errors.New("rate limited")
		}
		return nil
	}}

	service := NewService(source, sink, nil, testConfig())
	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if result.Created != 2 {
		t.Fatalf("expected 2 successful creations, got %d", result.Created)
	}
	if result.FailedToCreate != 1 {
		t.Fatalf("expected 1 failed creation, got %d", result.FailedToCreate)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Failed to create entry: ") {
		t.Fatalf("unexpected error format: %q", result.Errors[0])
	}
}

func TestSync_SourceFetchFailureShortCircuits(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("connection refused")}
	sink := &fakeSink{}

	service := NewService(source, sink, nil, testConfig())
	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if result.FetchedFromTempo != 0 || result.Created != 0 {
		t.Fatalf("expected zero-valued result, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "connection refused") {
		t.Fatalf("expected single causal error, got %v", result.Errors)
	}
	if len(sink.created) != 0 {
		t.Fatalf("no creation may happen after a stage failure")
	}
}

func TestSync_SinkFetchFailureShortCircuits(t *testing.T) {
	t.Parallel()

	source := &fakeSource{worklogs: []tempo.Worklog{worklogAt(1, "2025-10-01T09:00:00Z")}}
	sink := &fakeSink{listErr: errors.New("service unavailable")}

	service := NewService(source, sink, nil, testConfig())
	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if result.FetchedFromTempo != 0 {
		t.Fatalf("failed run must return a zero result, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "service unavailable") {
		t.Fatalf("expected single causal error, got %v", result.Errors)
	}
}

func TestSync_InvalidDateRange(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeSource{}, &fakeSink{}, nil, testConfig())

	result := service.Sync(context.Background(), "bad-date", "2025-10-31")
	if len(result.Errors) != 1 {
		t.Fatalf("expected single error for malformed from date, got %v", result.Errors)
	}

	result = service.Sync(context.Background(), "2025-10-31", "2025-10-01")
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "invalid range") {
		t.Fatalf("expected range order error, got %v", result.Errors)
	}
}

func TestSync_DryRunSkipsCreation(t *testing.T) {
	t.Parallel()

	source := &fakeSource{worklogs: []tempo.Worklog{
		worklogAt(1, "2025-10-01T09:00:00Z"),
		worklogAt(2, "2025-10-01T10:00:00Z"),
	}}
	sink := &fakeSink{existing: []toggl.TimeEntry{{ID: 1, Start: "2025-10-01T09:00:00Z"}}}

	service := NewService(source, sink, nil, testConfig(), WithDryRun(true))
	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")

	if result.Unique != 1 || result.Duplicates != 1 {
		t.Fatalf("dry run must still classify, got %+v", result)
	}
	if result.Created != 0 || result.FailedToCreate != 0 {
		t.Fatalf("dry run must not create, got %+v", result)
	}
	if len(sink.created) != 0 {
		t.Fatalf("dry run hit the sink")
	}
}

func TestSync_MalformedWorklogTimestampFailsRun(t *testing.T) {
	t.Parallel()

	source := &fakeSource{worklogs: []tempo.Worklog{worklogAt(1, "not-a-timestamp")}}
	service := NewService(source, &fakeSink{}, nil, testConfig())

	result := service.Sync(context.Background(), "2025-10-01", "2025-10-31")
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "malformed timestamp") {
		t.Fatalf("expected malformed timestamp failure, got %v", result.Errors)
	}
	if result.Created != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
}
