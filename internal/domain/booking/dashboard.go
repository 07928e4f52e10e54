package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/utils"
)

// Owner identifies a signed-in customer. A booking is theirs when it carries
// their uid, or when its contact or account phone matches their phone.
type Owner struct {
	UID   string
	Phone string
}

func (o Owner) owns(b Booking) bool {
	if o.UID != "" && b.UserID == o.UID {
		return true
	}
	phone := utils.NormalizePhone(o.Phone)
	if phone == "" {
		return false
	}
	return utils.NormalizePhone(b.PhoneNumber) == phone || utils.NormalizePhone(b.UserPhone) == phone
}

// MyBookings lists the owner's bookings, newest first.
func (s *Service) MyBookings(owner Owner) []Booking {
	out := []Booking{}
	for _, b := range s.source.Current().Bookings {
		if owner.owns(b) {
			out = append(out, b)
		}
	}
	newestFirst(out)
	return out
}

// CancelOwnBooking removes a booking on behalf of its owner.
func (s *Service) CancelOwnBooking(ctx context.Context, owner Owner, id string) error {
	if id == "" {
		return fmt.Errorf("%w: booking id is required", ErrBadRequest)
	}
	b, err := s.findBooking(ctx, id, s.source.Current())
	if err != nil {
		return err
	}
	if !owner.owns(b) {
		return ErrForbidden
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return wrapStore(err, "delete booking")
	}
	log.Info().Str("bookingId", id).Str("uid", owner.UID).Msg("booking canceled by owner")
	return nil
}

// BookingFilter narrows the admin booking list. Zero values match anything.
// Query matches the name case-insensitively or a substring of the phone.
type BookingFilter struct {
	Status Status
	Date   string
	Court  schedule.Court
	Query  string
}

func (f BookingFilter) match(b Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Date != "" && b.Date != f.Date {
		return false
	}
	if f.Court != 0 && b.Court != f.Court {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		return strings.Contains(strings.ToLower(b.FullName), strings.ToLower(q)) ||
			strings.Contains(b.PhoneNumber, q)
	}
	return true
}

// BookingList is a filtered page of bookings with the sum of their prices.
type BookingList struct {
	Bookings []Booking `json:"bookings"`
	Total    int       `json:"total"`
}

func (s *Service) ListBookings(f BookingFilter) BookingList {
	out := BookingList{Bookings: []Booking{}}
	for _, b := range s.source.Current().Bookings {
		if !f.match(b) {
			continue
		}
		out.Bookings = append(out.Bookings, b)
		out.Total += b.Price
	}
	newestFirst(out.Bookings)
	return out
}

// IncomeSummary is the revenue of approved bookings by booking date.
type IncomeSummary struct {
	Total       int `json:"total"`
	Today       int `json:"today"`
	LastWeek    int `json:"lastWeek"`
	MonthToDate int `json:"monthToDate"`
}

// Income sums approved bookings. "Today" is taken in the club's time zone;
// the week window covers the seven days before today and today itself.
func (s *Service) Income() IncomeSummary {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := today.AddDate(0, 0, -7)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var out IncomeSummary
	for _, b := range s.source.Current().Bookings {
		if b.Status != StatusApproved {
			continue
		}
		out.Total += b.Price

		day, err := time.Parse(schedule.DateLayout, b.Date)
		if err != nil || day.After(today) {
			continue
		}
		if day.Equal(today) {
			out.Today += b.Price
		}
		if !day.Before(weekAgo) {
			out.LastWeek += b.Price
		}
		if !day.Before(monthStart) {
			out.MonthToDate += b.Price
		}
	}
	return out
}

func newestFirst(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
