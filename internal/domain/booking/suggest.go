package booking

import (
	"squash-courts/backend/internal/domain/schedule"
)

const DefaultSuggestionCount = 3

// SuggestAlternatives lists up to maxResults free contiguous ranges of the
// given duration, earliest first. Only approved bookings and active recurring
// bookings block a suggestion; pending requests are not treated as taken.
func (d *Detector) SuggestAlternatives(date string, court schedule.Court, duration, maxResults int, snap Snapshot) []string {
	if maxResults <= 0 {
		maxResults = DefaultSuggestionCount
	}
	out := []string{}
	if duration < 1 || duration > d.grid.Len() {
		return out
	}

	for i := 0; i+duration-1 <= d.grid.Last(); i++ {
		sp := schedule.Span{Start: i, End: i + duration - 1}
		if d.spanConflicts(date, court, sp, snap, approvedOnly) {
			continue
		}
		out = append(out, d.grid.RangeLabel(sp))
		if len(out) >= maxResults {
			break
		}
	}
	return out
}
