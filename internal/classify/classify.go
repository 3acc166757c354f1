package classify

import (
	"fmt"

	"tempotoggl/internal/timeutil"
	"tempotoggl/toggl"
)

// Classification partitions creation candidates against entries already
// present in Toggl. Unique and Duplicates keep the relative order of the
// candidate input.
type Classification struct {
	Unique     []toggl.TimeEntryRequest
	Duplicates []toggl.TimeEntryRequest
}

func (c Classification) Skipped() int {
	return len(c.Duplicates)
}

// FilterDuplicates marks a candidate as duplicate iff its normalized start
// instant exactly equals the normalized start of some existing entry. No
// tolerance window; "...Z" and "...+00:00" spellings of the same instant
// compare equal.
func FilterDuplicates(candidates []toggl.TimeEntryRequest, existing []toggl.TimeEntry) (Classification, error) {
	out := Classification{
		Unique:     make([]toggl.TimeEntryRequest, 0, len(candidates)),
		Duplicates: make([]toggl.TimeEntryRequest, 0),
	}

	existingStarts := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		instant, err := timeutil.NormalizeInstant(entry.Start)
		if err != nil {
			return Classification{}, fmt.Errorf("existing entry %d: %w", entry.ID, err)
		}
		existingStarts[timeutil.InstantKey(instant)] = struct{}{}
	}

	for _, candidate := range candidates {
		instant, err := timeutil.NormalizeInstant(candidate.Start)
		if err != nil {
			return Classification{}, fmt.Errorf("candidate entry %q: %w", candidate.Description, err)
		}
		if _, found := existingStarts[timeutil.InstantKey(instant)]; found {
			out.Duplicates = append(out.Duplicates, candidate)
			continue
		}
		out.Unique = append(out.Unique, candidate)
	}

	return out, nil
}
