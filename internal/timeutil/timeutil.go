package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// ErrMalformedTimestamp marks timestamp values that cannot be parsed as ISO-8601.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// instantLayouts covers the offset notations seen in Tempo and Toggl payloads.
// RFC3339Nano handles "Z" and "+00:00"; the remaining layouts handle offsets
// written without a colon and values without fractional seconds.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999Z0700",
}

// NormalizeInstant canonicalizes an ISO-8601 timestamp to its UTC instant.
// Two inputs denoting the same instant under different offset notations
// normalize to equal values.
func NormalizeInstant(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}

	for _, layout := range instantLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
}

// InstantKey returns the comparable string form of a normalized instant.
func InstantKey(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func ParseDay(value string) (time.Time, error) {
	parsed, err := time.Parse(dayLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q (expected YYYY-MM-DD): %w", value, err)
	}
	return parsed, nil
}

func FormatDay(day time.Time) string {
	return day.Format(dayLayout)
}

// MonthRange returns the first and last day of the month containing value.
func MonthRange(value time.Time) (time.Time, time.Time) {
	first := time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, value.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
