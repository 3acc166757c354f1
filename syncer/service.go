package syncer

import (
	"context"
	"fmt"

	"tempotoggl/internal/classify"
	"tempotoggl/internal/timeutil"
	"tempotoggl/tempo"
	"tempotoggl/toggl"
	"tempotoggl/transform"
)

// Stage names handed to the Reporter as the pipeline advances.
const (
	StageFetchTempo  = "fetching tempo worklogs"
	StageEnrich      = "resolving jira issues"
	StageFetchToggl  = "fetching toggl entries"
	StageTransform   = "transforming entries"
	StageDeduplicate = "filtering duplicates"
	StageCreate      = "creating toggl entries"
)

type SourceClient interface {
	FetchWorklogs(ctx context.Context, from, to string) ([]tempo.Worklog, error)
}

type SinkClient interface {
	ListTimeEntries(ctx context.Context, from, to string) ([]toggl.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry toggl.TimeEntryRequest) (toggl.TimeEntry, error)
}

type Enricher interface {
	EnrichWorklogs(ctx context.Context, worklogs []tempo.Worklog) []tempo.Worklog
}

// Reporter receives progress callbacks. The pipeline never depends on the
// reporter for correctness; a nil reporter is replaced with a no-op.
type Reporter interface {
	StageStarted(stage string)
	StageFinished(stage string)
	EntryCreated(entry toggl.TimeEntryRequest)
	EntryFailed(entry toggl.TimeEntryRequest, err error)
}

type nopReporter struct{}

func (nopReporter) StageStarted(string)                       {}
func (nopReporter) StageFinished(string)                      {}
func (nopReporter) EntryCreated(toggl.TimeEntryRequest)       {}
func (nopReporter) EntryFailed(toggl.TimeEntryRequest, error) {}

// Result aggregates one sync run. Errors holds human-readable messages in
// order of occurrence; a run that failed before creation carries exactly one.
type Result struct {
	FetchedFromTempo int      `json:"fetched_from_tempo"`
	FetchedFromToggl int      `json:"fetched_from_toggl"`
	Unique           int      `json:"unique"`
	Duplicates       int      `json:"duplicates"`
	Created          int      `json:"created"`
	FailedToCreate   int      `json:"failed_to_create"`
	Errors           []string `json:"errors"`
}

type Service struct {
	source   SourceClient
	sink     SinkClient
	enricher Enricher
	cfg      transform.Config
	reporter Reporter
	dryRun   bool
}

type Option func(*Service)

// WithReporter attaches a progress reporter.
func WithReporter(reporter Reporter) Option {
	return func(s *Service) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithDryRun stops the pipeline after deduplication; nothing is created.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) { s.dryRun = dryRun }
}

func NewService(source SourceClient, sink SinkClient, enricher Enricher, cfg transform.Config, opts ...Option) *Service {
	s := &Service{
		source:   source,
		sink:     sink,
		enricher: enricher,
		cfg:      cfg,
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync mirrors the Tempo worklogs of the inclusive date range into Toggl.
// It never returns an error: a failure before creation yields a zero Result
// with a single error string, and individual creation failures are collected
// while the remaining entries still go through.
func (s *Service) Sync(ctx context.Context, from, to string) Result {
	result := Result{Errors: make([]string, 0)}

	if err := validateRange(from, to); err != nil {
		return failed(err)
	}

	s.reporter.StageStarted(StageFetchTempo)
	worklogs, err := s.source.FetchWorklogs(ctx, from, to)
	if err != nil {
		return failed(fmt.Errorf("fetch tempo worklogs: %w", err))
	}
	s.reporter.StageFinished(StageFetchTempo)
	result.FetchedFromTempo = len(worklogs)

	if len(worklogs) == 0 {
		return result
	}

	if s.enricher != nil {
		s.reporter.StageStarted(StageEnrich)
		worklogs = s.enricher.EnrichWorklogs(ctx, worklogs)
		s.reporter.StageFinished(StageEnrich)
	}

	s.reporter.StageStarted(StageFetchToggl)
	existing, err := s.sink.ListTimeEntries(ctx, from, to)
	if err != nil {
		return failed(fmt.Errorf("fetch toggl entries: %w", err))
	}
	s.reporter.StageFinished(StageFetchToggl)
	result.FetchedFromToggl = len(existing)

	s.reporter.StageStarted(StageTransform)
	candidates := transform.BuildTimeEntries(worklogs, s.cfg)
	s.reporter.StageFinished(StageTransform)

	s.reporter.StageStarted(StageDeduplicate)
	classification, err := classify.FilterDuplicates(candidates, existing)
	if err != nil {
		return failed(fmt.Errorf("filter duplicates: %w", err))
	}
	s.reporter.StageFinished(StageDeduplicate)
	result.Unique = len(classification.Unique)
	result.Duplicates = classification.Skipped()

	if s.dryRun {
		return result
	}

	// Sequential creation. A failed attempt never aborts the rest.
	s.reporter.StageStarted(StageCreate)
	for _, entry := range classification.Unique {
		if _, err := s.sink.CreateTimeEntry(ctx, entry); err != nil {
			result.FailedToCreate++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to create entry: %v", err))
			s.reporter.EntryFailed(entry, err)
			continue
		}
		result.Created++
		s.reporter.EntryCreated(entry)
	}
	s.reporter.StageFinished(StageCreate)

	return result
}

func validateRange(from, to string) error {
	fromDay, err := timeutil.ParseDay(from)
	if err != nil {
		return err
	}
	toDay, err := timeutil.ParseDay(to)
	if err != nil {
		return err
	}
	if fromDay.After(toDay) {
		return fmt.Errorf("invalid range: from %s is after to %s", from, to)
	}
	return nil
}

func failed(err error) Result {
	return Result{Errors: []string{err.Error()}}
}
