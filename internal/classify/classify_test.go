package classify

import (
	"errors"
	"reflect"
	"testing"

	"tempotoggl/internal/timeutil"
	"tempotoggl/toggl"
)

func TestFilterDuplicates_OffsetNotationsCompareEqual(t *testing.T) {
	t.Parallel()

	candidates := []toggl.TimeEntryRequest{
		{Start: "2025-10-01T09:00:00Z", Description: "first"},
		{Start: "2025-10-01T10:00:00Z", Description: "second"},
	}
	existing := []toggl.TimeEntry{
		{ID: 1, Start: "2025-10-01T09:00:00+00:00"},
	}

	got, err := FilterDuplicates(candidates, existing)
	if err != nil {
		t.Fatalf("filter duplicates: %v", err)
	}
	if len(got.Unique) != 1 || got.Unique[0].Description != "second" {
		t.Fatalf("unexpected unique set: %+v", got.Unique)
	}
	if len(got.Duplicates) != 1 || got.Duplicates[0].Description != "first" {
		t.Fatalf("unexpected duplicate set: %+v", got.Duplicates)
	}
	if got.Skipped() != 1 {
		t.Fatalf("expected skipped count 1, got %d", got.Skipped())
	}
}

func TestFilterDuplicates_EmptyInputs(t *testing.T) {
	t.Parallel()

	got, err := FilterDuplicates(nil, []toggl.TimeEntry{{ID: 1, Start: "2025-10-01T09:00:00Z"}})
	if err != nil {
		t.Fatalf("filter duplicates: %v", err)
	}
	if len(got.Unique) != 0 || len(got.Duplicates) != 0 || got.Skipped() != 0 {
		t.Fatalf("expected empty classification, got %+v", got)
	}

	candidates := []toggl.TimeEntryRequest{
		{Start: "2025-10-01T09:00:00Z"},
		{Start: "2025-10-01T10:00:00Z"},
	}
	got, err = FilterDuplicates(candidates, nil)
	if err != nil {
		t.Fatalf("filter duplicates: %v", err)
	}
	if len(got.Unique) != 2 || len(got.Duplicates) != 0 {
		t.Fatalf("expected all candidates unique against empty existing, got %+v", got)
	}
}

func TestFilterDuplicates_OrderPreservingPartition(t *testing.T) {
	t.Parallel()

	candidates := []toggl.TimeEntryRequest{
		{Start: "2025-10-01T08:00:00Z", Description: "a"},
		{Start: "2025-10-01T09:00:00Z", Description: "b"},
		{Start: "2025-10-01T10:00:00Z", Description: "c"},
		{Start: "2025-10-01T11:00:00Z", Description: "d"},
	}
	existing := []toggl.TimeEntry{
		{ID: 1, Start: "2025-10-01T09:00:00Z"},
		{ID: 2, Start: "2025-10-01T11:00:00Z"},
	}

	got, err := FilterDuplicates(candidates, existing)
	if err != nil {
		t.Fatalf("filter duplicates: %v", err)
	}

	uniqueNames := descriptions(got.Unique)
	duplicateNames := descriptions(got.Duplicates)
	if !reflect.DeepEqual(uniqueNames, []string{"a", "c"}) {
		t.Fatalf("unexpected unique order: %v", uniqueNames)
	}
	if !reflect.DeepEqual(duplicateNames, []string{"b", "d"}) {
		t.Fatalf("unexpected duplicate order: %v", duplicateNames)
	}
	if len(got.Unique)+len(got.Duplicates) != len(candidates) {
		t.Fatalf("partition lost candidates: %d + %d != %d", len(got.Unique), len(got.Duplicates), len(candidates))
	}
}

func TestFilterDuplicates_Idempotent(t *testing.T) {
	t.Parallel()

	candidates := []toggl.TimeEntryRequest{
		{Start: "2025-10-01T08:00:00Z", Description: "a"},
		{Start: "2025-10-01T09:00:00Z", Description: "b"},
	}
	existing := []toggl.TimeEntry{{ID: 1, Start: "2025-10-01T09:00:00Z"}}

	first, err := FilterDuplicates(candidates, existing)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := FilterDuplicates(candidates, existing)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output on identical input:\n%+v\n%+v", first, second)
	}
}

func TestFilterDuplicates_MalformedTimestamps(t *testing.T) {
	t.Parallel()

	_, err := FilterDuplicates(
		[]toggl.TimeEntryRequest{{Start: "garbage"}},
		nil,
	)
	if !errors.Is(err, timeutil.ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp for candidate, got %v", err)
	}

	_, err = FilterDuplicates(
		[]toggl.TimeEntryRequest{{Start: "2025-10-01T09:00:00Z"}},
		[]toggl.TimeEntry{{ID: 5, Start: "also-garbage"}},
	)
	if !errors.Is(err, timeutil.ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp for existing entry, got %v", err)
	}
}

func descriptions(entries []toggl.TimeEntryRequest) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Description)
	}
	return out
}
