package booking

import (
	"squash-courts/backend/internal/domain/schedule"
)

// CheckOptions narrows which bookings count as blocking.
type CheckOptions struct {
	// Statuses limits the blocking bookings to these statuses. Empty means
	// every status except canceled.
	Statuses []Status
	// ExcludeID ignores one booking, typically the one being re-validated.
	ExcludeID string
}

func (o CheckOptions) blocks(b Booking) bool {
	if b.Status == StatusCanceled {
		return false
	}
	if o.ExcludeID != "" && b.ID == o.ExcludeID {
		return false
	}
	if len(o.Statuses) == 0 {
		return true
	}
	for _, s := range o.Statuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

var approvedOnly = CheckOptions{Statuses: []Status{StatusApproved}}

// Detector answers overlap questions over a snapshot. It holds no state of
// its own besides the grid and catalog it resolves times against.
type Detector struct {
	grid    *schedule.Grid
	catalog schedule.Catalog
}

func NewDetector(grid *schedule.Grid, catalog schedule.Catalog) *Detector {
	if grid == nil {
		grid = schedule.DefaultGrid
	}
	if catalog == nil {
		catalog = schedule.DefaultCatalog
	}
	return &Detector{grid: grid, catalog: catalog}
}

func (d *Detector) Grid() *schedule.Grid {
	return d.grid
}

func (d *Detector) Catalog() schedule.Catalog {
	return d.catalog
}

// bookingSpan places a stored booking on the grid. Records whose start is
// off the grid cannot be placed and are reported as not ok.
func (d *Detector) bookingSpan(start string, t schedule.ReservationType) (schedule.Span, bool) {
	i, ok := d.grid.IndexOf(start)
	if !ok {
		return schedule.Span{}, false
	}
	return schedule.Span{Start: i, End: i + d.catalog.Duration(t) - 1}, true
}

func (d *Detector) recurringSpan(rb RecurringBooking) (schedule.Span, bool) {
	i, ok := d.grid.IndexOf(rb.StartTime)
	if !ok {
		return schedule.Span{}, false
	}
	n := rb.Duration
	if n < 1 {
		n = 1
	}
	return schedule.Span{Start: i, End: i + n - 1}, true
}

// HasConflict reports whether the candidate overlaps a blocking one-time
// booking on the same date and court, or an active recurring booking on the
// same weekday and court.
func (d *Detector) HasConflict(c Candidate, snap Snapshot, opts CheckOptions) bool {
	sp, ok := d.bookingSpan(c.StartTime, c.ReservationType)
	if !ok {
		return false
	}
	return d.spanConflicts(c.Date, c.Court, sp, snap, opts)
}

func (d *Detector) spanConflicts(date string, court schedule.Court, sp schedule.Span, snap Snapshot, opts CheckOptions) bool {
	for _, b := range snap.Bookings {
		if b.Date != date || b.Court != court || !opts.blocks(b) {
			continue
		}
		other, ok := d.bookingSpan(b.StartTime, b.ReservationType)
		if ok && sp.Overlaps(other) {
			return true
		}
	}

	day, ok := schedule.WeekdayOf(date)
	if !ok {
		return false
	}
	for _, rb := range snap.Recurring {
		if rb.DayOfWeek != day || rb.Held() || rb.Court != court {
			continue
		}
		other, ok := d.recurringSpan(rb)
		if ok && sp.Overlaps(other) {
			return true
		}
	}
	return false
}

// HasRecurringConflict checks a standing reservation against other active
// recurring bookings of the same weekday and against every non-canceled
// one-time booking whose date falls on that weekday.
func (d *Detector) HasRecurringConflict(rb RecurringBooking, snap Snapshot, excludeID string) bool {
	sp, ok := d.recurringSpan(rb)
	if !ok {
		return false
	}

	for _, other := range snap.Recurring {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if other.DayOfWeek != rb.DayOfWeek || other.Held() || other.Court != rb.Court {
			continue
		}
		osp, ok := d.recurringSpan(other)
		if ok && sp.Overlaps(osp) {
			return true
		}
	}

	for _, b := range snap.Bookings {
		if b.Status == StatusCanceled || b.Court != rb.Court {
			continue
		}
		if day, ok := schedule.WeekdayOf(b.Date); !ok || day != rb.DayOfWeek {
			continue
		}
		bsp, ok := d.bookingSpan(b.StartTime, b.ReservationType)
		if ok && sp.Overlaps(bsp) {
			return true
		}
	}
	return false
}

// RecurringWithConflicts flags every recurring booking that overlaps a
// non-canceled one-time booking on a matching weekday.
func (d *Detector) RecurringWithConflicts(snap Snapshot) []RecurringOverview {
	out := make([]RecurringOverview, 0, len(snap.Recurring))
	for _, rb := range snap.Recurring {
		ov := RecurringOverview{RecurringBooking: rb, Price: schedule.RecurringPrice(rb.Duration)}
		sp, ok := d.recurringSpan(rb)
		if ok {
			for _, b := range snap.Bookings {
				if b.Status == StatusCanceled || b.Court != rb.Court {
					continue
				}
				if day, ok := schedule.WeekdayOf(b.Date); !ok || day != rb.DayOfWeek {
					continue
				}
				if bsp, ok := d.bookingSpan(b.StartTime, b.ReservationType); ok && sp.Overlaps(bsp) {
					ov.HasConflict = true
					break
				}
			}
		}
		out = append(out, ov)
	}
	return out
}
