package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"squash-courts/backend/internal/domain/booking"
	"squash-courts/backend/internal/domain/schedule"
)

const friday = "2024-01-05"

func oneTime(id, start string, rt schedule.ReservationType, st booking.Status) booking.Booking {
	return booking.Booking{
		ID:              id,
		Court:           1,
		Date:            friday,
		StartTime:       start,
		ReservationType: rt,
		Status:          st,
	}
}

func weekly(id string, day schedule.Weekday, start string, duration int) booking.RecurringBooking {
	return booking.RecurringBooking{
		ID:        id,
		Court:     1,
		DayOfWeek: day,
		StartTime: start,
		Duration:  duration,
		Status:    booking.RecurringActive,
	}
}

func candidate(start string, rt schedule.ReservationType) booking.Candidate {
	return booking.Candidate{Court: 1, Date: friday, StartTime: start, ReservationType: rt}
}

func TestHasConflict_EmptyState(t *testing.T) {
	d := booking.NewDetector(nil, nil)

	for _, label := range schedule.DefaultGrid.Labels() {
		assert.False(t, d.HasConflict(candidate(label, schedule.OneHour), booking.Snapshot{}, booking.CheckOptions{}), label)
	}
}

func TestHasConflict_IsSymmetric(t *testing.T) {
	d := booking.NewDetector(nil, nil)

	pairs := []struct {
		aStart string
		aType  schedule.ReservationType
		bStart string
		bType  schedule.ReservationType
		want   bool
	}{
		{"1:00 PM", schedule.TwoHours, "2:00 PM", schedule.OneHour, true},
		{"1:00 PM", schedule.TwoHours, "3:00 PM", schedule.OneHour, false},
		{"10:00 PM", schedule.VIPFour, "1:00 AM", schedule.OneHour, true},
		{"10:00 PM", schedule.ThreeHours, "1:00 AM", schedule.OneHour, false},
	}

	for _, p := range pairs {
		a := oneTime("a", p.aStart, p.aType, booking.StatusApproved)
		b := oneTime("b", p.bStart, p.bType, booking.StatusApproved)

		ab := d.HasConflict(a.Candidate(), booking.Snapshot{Bookings: []booking.Booking{b}}, booking.CheckOptions{})
		ba := d.HasConflict(b.Candidate(), booking.Snapshot{Bookings: []booking.Booking{a}}, booking.CheckOptions{})

		assert.Equal(t, p.want, ab, "%s vs %s", p.aStart, p.bStart)
		assert.Equal(t, ab, ba, "%s vs %s", p.aStart, p.bStart)
	}
}

func TestHasConflict_CanceledNeverBlocks(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	snap := booking.Snapshot{Bookings: []booking.Booking{
		oneTime("x", "3:00 PM", schedule.ThreeHours, booking.StatusCanceled),
	}}

	assert.False(t, d.HasConflict(candidate("4:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
	assert.False(t, d.HasConflict(candidate("4:00 PM", schedule.OneHour), snap,
		booking.CheckOptions{Statuses: []booking.Status{booking.StatusCanceled}}))
}

func TestHasConflict_OtherCourtOrDateIgnored(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	other := oneTime("x", "1:00 PM", schedule.OneHour, booking.StatusApproved)
	other.Court = 2
	nextWeek := oneTime("y", "1:00 PM", schedule.OneHour, booking.StatusApproved)
	nextWeek.Date = "2024-01-12"

	snap := booking.Snapshot{Bookings: []booking.Booking{other, nextWeek}}
	assert.False(t, d.HasConflict(candidate("1:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
}

func TestHasConflict_StatusFilterAndExclude(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	self := oneTime("self", "6:00 PM", schedule.OneHour, booking.StatusPending)
	peer := oneTime("peer", "6:00 PM", schedule.OneHour, booking.StatusPending)
	snap := booking.Snapshot{Bookings: []booking.Booking{self, peer}}

	approvedOnly := booking.CheckOptions{Statuses: []booking.Status{booking.StatusApproved}}
	assert.False(t, d.HasConflict(self.Candidate(), snap, approvedOnly))

	both := booking.CheckOptions{Statuses: []booking.Status{booking.StatusApproved, booking.StatusPending}, ExcludeID: "self"}
	assert.True(t, d.HasConflict(self.Candidate(), snap, both))

	alone := booking.Snapshot{Bookings: []booking.Booking{self}}
	assert.False(t, d.HasConflict(self.Candidate(), alone, both))
}

func TestHasConflict_RecurringOnMatchingWeekday(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	snap := booking.Snapshot{Recurring: []booking.RecurringBooking{
		weekly("r1", schedule.Friday, "7:00 PM", 2),
	}}

	assert.True(t, d.HasConflict(candidate("8:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
	assert.True(t, d.HasConflict(candidate("6:00 PM", schedule.TwoHours), snap, booking.CheckOptions{}))
	assert.False(t, d.HasConflict(candidate("9:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))

	saturday := candidate("8:00 PM", schedule.OneHour)
	saturday.Date = "2024-01-06"
	assert.False(t, d.HasConflict(saturday, snap, booking.CheckOptions{}))
}

func TestHasConflict_HeldRecurringDoesNotBlock(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	held := weekly("r1", schedule.Friday, "7:00 PM", 2)
	held.Status = booking.RecurringHeld

	snap := booking.Snapshot{Recurring: []booking.RecurringBooking{held}}
	assert.False(t, d.HasConflict(candidate("7:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
}

func TestHasConflict_LegacyRecords(t *testing.T) {
	d := booking.NewDetector(nil, nil)

	// Unknown types occupy one slot; off-grid starts are ignored.
	snap := booking.Snapshot{Bookings: []booking.Booking{
		oneTime("legacy", "2:00 PM", "halfday", booking.StatusApproved),
		oneTime("odd", "12:30 PM", schedule.VIPFour, booking.StatusApproved),
	}}

	assert.True(t, d.HasConflict(candidate("2:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
	assert.False(t, d.HasConflict(candidate("3:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
	assert.False(t, d.HasConflict(candidate("1:00 PM", schedule.OneHour), snap, booking.CheckOptions{}))
}

func TestHasRecurringConflict(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	snap := booking.Snapshot{
		Bookings: []booking.Booking{
			oneTime("b1", "9:00 PM", schedule.OneHour, booking.StatusPending),
			oneTime("b2", "11:00 PM", schedule.OneHour, booking.StatusCanceled),
		},
		Recurring: []booking.RecurringBooking{
			weekly("r1", schedule.Monday, "7:00 PM", 2),
		},
	}

	tests := []struct {
		name      string
		rb        booking.RecurringBooking
		excludeID string
		want      bool
	}{
		{name: "overlaps recurring", rb: weekly("", schedule.Monday, "8:00 PM", 1), want: true},
		{name: "adjacent to recurring", rb: weekly("", schedule.Monday, "9:00 PM", 1), want: false},
		{name: "excluded self", rb: weekly("r1", schedule.Monday, "8:00 PM", 1), excludeID: "r1", want: false},
		{name: "overlaps one-time on that weekday", rb: weekly("", schedule.Friday, "8:00 PM", 2), want: true},
		{name: "canceled one-time ignored", rb: weekly("", schedule.Friday, "11:00 PM", 1), want: false},
		{name: "other weekday", rb: weekly("", schedule.Tuesday, "9:00 PM", 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.HasRecurringConflict(tt.rb, snap, tt.excludeID))
		})
	}
}

func TestRecurringWithConflicts(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	clash := weekly("r1", schedule.Friday, "1:00 PM", 3)
	quiet := weekly("r2", schedule.Saturday, "1:00 PM", 5)
	snap := booking.Snapshot{
		Bookings:  []booking.Booking{oneTime("b1", "3:00 PM", schedule.OneHour, booking.StatusApproved)},
		Recurring: []booking.RecurringBooking{clash, quiet},
	}

	got := d.RecurringWithConflicts(snap)

	if assert.Len(t, got, 2) {
		assert.True(t, got[0].HasConflict)
		assert.Equal(t, 450, got[0].Price)
		assert.False(t, got[1].HasConflict)
		assert.Equal(t, 750, got[1].Price)
	}
}

func TestAvailableSlots(t *testing.T) {
	d := booking.NewDetector(nil, nil)
	snap := booking.Snapshot{
		Bookings: []booking.Booking{
			oneTime("b1", "1:00 PM", schedule.TwoHours, booking.StatusPending),
		},
		Recurring: []booking.RecurringBooking{
			{ID: "r1", Court: 2, DayOfWeek: schedule.Friday, StartTime: "4:00 AM", Duration: 1},
		},
	}

	got := d.AvailableSlots(friday, snap)

	assert.Len(t, got, schedule.DefaultGrid.Len()*len(schedule.Courts))
	assert.Equal(t, booking.SlotAvailability{Time: "1:00 PM", Court: 1, Available: false}, got[0])
	assert.Equal(t, booking.SlotAvailability{Time: "1:00 PM", Court: 2, Available: true}, got[1])
	assert.Equal(t, booking.SlotAvailability{Time: "2:00 PM", Court: 1, Available: false}, got[2])
	assert.Equal(t, booking.SlotAvailability{Time: "3:00 PM", Court: 1, Available: true}, got[4])
	assert.Equal(t, booking.SlotAvailability{Time: "4:00 AM", Court: 2, Available: false}, got[len(got)-1])
}
