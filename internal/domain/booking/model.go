package booking

import (
	"strings"
	"time"

	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/utils"
)

const (
	bookingsCollection  = "bookings"
	recurringCollection = "recurring_bookings"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusCanceled Status = "canceled"
)

type RecurringStatus string

const (
	RecurringActive RecurringStatus = "active"
	RecurringHeld   RecurringStatus = "held"
)

// Booking is a one-time court reservation, stored in the bookings collection.
type Booking struct {
	ID              string                   `firestore:"-" json:"id"`
	FullName        string                   `firestore:"fullName" json:"fullName"`
	PhoneNumber     string                   `firestore:"phoneNumber" json:"phoneNumber"`
	Court           schedule.Court           `firestore:"court" json:"court"`
	Date            string                   `firestore:"date" json:"date"` // YYYY-MM-DD
	StartTime       string                   `firestore:"startTime" json:"startTime"`
	EndTime         string                   `firestore:"endTime" json:"endTime"`
	ReservationType schedule.ReservationType `firestore:"reservationType" json:"reservationType"`
	Status          Status                   `firestore:"status" json:"status"`
	Price           int                      `firestore:"price" json:"price"`
	CreatedAt       time.Time                `firestore:"createdAt" json:"createdAt"`
	UserID          string                   `firestore:"userId,omitempty" json:"userId,omitempty"`
	UserPhone       string                   `firestore:"userPhone,omitempty" json:"userPhone,omitempty"`
}

// RecurringBooking is a standing weekly reservation. Duration is explicit and
// counted in grid slots.
type RecurringBooking struct {
	ID          string           `firestore:"-" json:"id"`
	Court       schedule.Court   `firestore:"court" json:"court"`
	DayOfWeek   schedule.Weekday `firestore:"dayOfWeek" json:"dayOfWeek"`
	StartTime   string           `firestore:"startTime" json:"startTime"`
	Duration    int              `firestore:"duration" json:"duration"`
	FullName    string           `firestore:"fullName" json:"fullName"`
	PhoneNumber string           `firestore:"phoneNumber" json:"phoneNumber"`
	Status      RecurringStatus  `firestore:"status,omitempty" json:"status,omitempty"`
}

// Held reports whether the standing reservation is paused. An empty status
// means active.
func (rb RecurringBooking) Held() bool {
	return rb.Status == RecurringHeld
}

// Candidate is a one-time booking that has not been stored yet.
type Candidate struct {
	Court           schedule.Court
	Date            string
	StartTime       string
	ReservationType schedule.ReservationType
}

func (b Booking) Candidate() Candidate {
	return Candidate{
		Court:           b.Court,
		Date:            b.Date,
		StartTime:       b.StartTime,
		ReservationType: b.ReservationType,
	}
}

// Snapshot is the read model of both collections at one point in time. It is
// replaced as a whole by the feed and must not be mutated.
type Snapshot struct {
	Bookings  []Booking
	Recurring []RecurringBooking
}

func (s Snapshot) FindBooking(id string) (Booking, bool) {
	for _, b := range s.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// withFresh returns a copy of s where the bookings of one date and court are
// replaced by a fresh read from the store.
func (s Snapshot) withFresh(date string, court schedule.Court, fresh []Booking) Snapshot {
	out := Snapshot{Recurring: s.Recurring}
	out.Bookings = make([]Booking, 0, len(s.Bookings)+len(fresh))
	for _, b := range s.Bookings {
		if b.Date == date && b.Court == court {
			continue
		}
		out.Bookings = append(out.Bookings, b)
	}
	out.Bookings = append(out.Bookings, fresh...)
	return out
}

// SlotAvailability is one cell of the availability matrix.
type SlotAvailability struct {
	Time      string         `json:"time"`
	Court     schedule.Court `json:"court"`
	Available bool           `json:"available"`
}

// RecurringOverview is a recurring booking flagged when it overlaps a
// one-time booking on a matching weekday.
type RecurringOverview struct {
	RecurringBooking
	HasConflict bool `json:"hasConflict"`
	Price       int  `json:"price"`
}

// BookingRequest is the public submission payload.
type BookingRequest struct {
	FullName        string `json:"fullName" validate:"required,max=100"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,min=6,max=20"`
	Court           int    `json:"court" validate:"required,oneof=1 2"`
	Date            string `json:"date" validate:"required,isodate"`
	StartTime       string `json:"startTime" validate:"required"`
	ReservationType string `json:"reservationType" validate:"required"`

	// Set from the verified token, never from the request body.
	UserID    string `json:"-"`
	UserPhone string `json:"-"`
}

func (in *BookingRequest) Trim() {
	in.FullName = utils.NormalizeName(in.FullName)
	in.PhoneNumber = utils.NormalizePhone(in.PhoneNumber)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.ReservationType = strings.TrimSpace(in.ReservationType)
}

type CreateRecurringInput struct {
	Court       int    `json:"court" validate:"required,oneof=1 2"`
	DayOfWeek   string `json:"dayOfWeek" validate:"required,weekday"`
	StartTime   string `json:"startTime" validate:"required"`
	Duration    int    `json:"duration" validate:"required,min=1"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=20"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active held"`
}

func (in *CreateRecurringInput) Trim() {
	in.DayOfWeek = strings.TrimSpace(in.DayOfWeek)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.FullName = utils.NormalizeName(in.FullName)
	in.PhoneNumber = utils.NormalizePhone(in.PhoneNumber)
	in.Status = strings.TrimSpace(in.Status)
}

type UpdateRecurringInput struct {
	Court       *int    `json:"court,omitempty" validate:"omitempty,oneof=1 2"`
	DayOfWeek   *string `json:"dayOfWeek,omitempty" validate:"omitempty,weekday"`
	StartTime   *string `json:"startTime,omitempty"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,min=1"`
	FullName    *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active held"`
}

// reschedules reports whether the update touches the slot range.
func (in UpdateRecurringInput) reschedules() bool {
	return in.Court != nil || in.DayOfWeek != nil || in.StartTime != nil || in.Duration != nil
}
