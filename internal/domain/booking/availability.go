package booking

import (
	"squash-courts/backend/internal/domain/schedule"
)

// AvailableSlots projects the (slot x court) matrix for a date. A cell is
// available when a one-slot reservation starting there would not overlap
// anything; longer requests must check contiguity themselves.
func (d *Detector) AvailableSlots(date string, snap Snapshot) []SlotAvailability {
	out := make([]SlotAvailability, 0, d.grid.Len()*len(schedule.Courts))
	for i, label := range d.grid.Labels() {
		sp := schedule.Span{Start: i, End: i}
		for _, court := range schedule.Courts {
			out = append(out, SlotAvailability{
				Time:      label,
				Court:     court,
				Available: !d.spanConflicts(date, court, sp, snap, CheckOptions{}),
			})
		}
	}
	return out
}
