package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeInstant_EquivalentOffsets(t *testing.T) {
	t.Parallel()

	values := []string{
		"2025-10-01T09:00:00Z",
		"2025-10-01T09:00:00+00:00",
		"2025-10-01T11:00:00+02:00",
		"2025-10-01T04:00:00-05:00",
		"2025-10-01T09:00:00.000Z",
	}

	first, err := NormalizeInstant(values[0])
	if err != nil {
		t.Fatalf("normalize %q: %v", values[0], err)
	}
	for _, value := range values[1:] {
		got, err := NormalizeInstant(value)
		if err != nil {
			t.Fatalf("normalize %q: %v", value, err)
		}
		if !got.Equal(first) {
			t.Fatalf("expected %q to equal %q after normalization, got %v vs %v", value, values[0], got, first)
		}
		if InstantKey(got) != InstantKey(first) {
			t.Fatalf("instant keys differ: %q vs %q", InstantKey(got), InstantKey(first))
		}
	}
}

func TestNormalizeInstant_ReturnsUTC(t *testing.T) {
	t.Parallel()

	got, err := NormalizeInstant("2025-10-01T11:30:00+02:00")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("expected 09:30 UTC, got %v", got)
	}
}

func TestNormalizeInstant_Malformed(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "   ", "not-a-date", "2025-13-40T99:00:00Z", "2025-10-01"} {
		_, err := NormalizeInstant(value)
		if err == nil {
			t.Fatalf("expected error for %q", value)
		}
		if !errors.Is(err, ErrMalformedTimestamp) {
			t.Fatalf("expected ErrMalformedTimestamp for %q, got %v", value, err)
		}
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	day, err := ParseDay("2025-10-01")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if FormatDay(day) != "2025-10-01" {
		t.Fatalf("unexpected round trip: %q", FormatDay(day))
	}

	if _, err := ParseDay("01-10-2025"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestMonthRange(t *testing.T) {
	t.Parallel()

	first, last := MonthRange(time.Date(2025, 2, 14, 13, 0, 0, 0, time.UTC))
	if FormatDay(first) != "2025-02-01" {
		t.Fatalf("unexpected first day: %q", FormatDay(first))
	}
	if FormatDay(last) != "2025-02-28" {
		t.Fatalf("unexpected last day: %q", FormatDay(last))
	}
}
