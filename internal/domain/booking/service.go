package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/otel"
)

const otelScopeName = "booking"

type Service struct {
	detector        *Detector
	source          SnapshotSource
	store           Store
	otel            otel.Otel
	now             func() time.Time
	loc             *time.Location
	suggestionCount int
}

type Option func(*Service)

func WithDetector(d *Detector) Option {
	return func(s *Service) { s.detector = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the club's time zone, used to decide what "today" is for
// the income summary.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithOtel(o otel.Otel) Option {
	return func(s *Service) { s.otel = o }
}

func WithSuggestionCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suggestionCount = n
		}
	}
}

func NewService(source SnapshotSource, store Store, opts ...Option) *Service {
	s := &Service{
		detector:        NewDetector(nil, nil),
		source:          source,
		store:           store,
		otel:            otel.Noop(),
		now:             time.Now,
		loc:             time.UTC,
		suggestionCount: DefaultSuggestionCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Detector() *Detector {
	return s.detector
}

// Snapshot returns the current read model, for dashboard listings.
func (s *Service) Snapshot() Snapshot {
	return s.source.Current()
}

func (s *Service) AvailableSlots(date string) ([]SlotAvailability, error) {
	date, err := schedule.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return s.detector.AvailableSlots(date, s.source.Current()), nil
}

func (s *Service) SuggestAlternatives(date string, court schedule.Court, duration, maxResults int) []string {
	return s.detector.SuggestAlternatives(date, court, duration, maxResults, s.source.Current())
}

// SubmitBooking creates a pending booking unless its range is taken, either
// in the live snapshot or by a peer that lands concurrently.
func (s *Service) SubmitBooking(ctx context.Context, in BookingRequest) (out *Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".SubmitBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	b, sp, err := s.buildBooking(in)
	if err != nil {
		return nil, err
	}
	scope.SetAttribute("booking.date", b.Date)
	scope.SetAttribute("booking.court", int(b.Court))

	sub := s.newSubmission(b, sp, scope)
	out, err = sub.Run(ctx)
	if err != nil {
		log.Info().
			Err(err).
			Str("date", b.Date).
			Int("court", int(b.Court)).
			Str("startTime", b.StartTime).
			Msg("booking rejected")
		return nil, err
	}

	log.Info().Str("bookingId", out.ID).Str("date", out.Date).Int("court", int(out.Court)).Msg("booking created")
	return out, nil
}

func (s *Service) buildBooking(in BookingRequest) (Booking, schedule.Span, error) {
	in.Trim()
	if in.FullName == "" || in.PhoneNumber == "" {
		return Booking{}, schedule.Span{}, fmt.Errorf("%w: fullName and phoneNumber are required", ErrBadRequest)
	}
	court, err := schedule.ParseCourt(in.Court)
	if err != nil {
		return Booking{}, schedule.Span{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	date, err := schedule.ParseDate(in.Date)
	if err != nil {
		return Booking{}, schedule.Span{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	rt, err := schedule.ParseReservationType(in.ReservationType)
	if err != nil {
		return Booking{}, schedule.Span{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	res, ok := s.detector.catalog.Lookup(rt)
	if !ok {
		return Booking{}, schedule.Span{}, fmt.Errorf("%w: %s is not offered", ErrBadRequest, rt)
	}
	sp, err := s.detector.grid.Span(in.StartTime, res.Duration)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownSlot) {
			return Booking{}, schedule.Span{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return Booking{}, schedule.Span{}, err
	}

	return Booking{
		FullName:        in.FullName,
		PhoneNumber:     in.PhoneNumber,
		Court:           court,
		Date:            date,
		StartTime:       in.StartTime,
		EndTime:         s.detector.grid.EndTime(sp),
		ReservationType: rt,
		Price:           res.Price,
		UserID:          in.UserID,
		UserPhone:       in.UserPhone,
	}, sp, nil
}

// SetBookingStatus applies an administrative status change to an existing
// booking. Approval is re-validated against pending and approved peers;
// cancel is written as is.
func (s *Service) SetBookingStatus(ctx context.Context, id string, status Status) (err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".SetBookingStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id == "" {
		return fmt.Errorf("%w: booking id is required", ErrBadRequest)
	}
	switch status {
	case StatusApproved, StatusCanceled, StatusPending:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrBadRequest, status)
	}

	snap := s.source.Current()
	target, err := s.findBooking(ctx, id, snap)
	if err != nil {
		return err
	}
	if status == StatusApproved {
		if err := s.checkApproval(target, snap); err != nil {
			return err
		}
	}

	if err := s.store.UpdateBooking(ctx, id, map[string]any{"status": string(status)}); err != nil {
		return wrapStore(err, "update booking status")
	}

	log.Info().Str("bookingId", id).Str("status", string(status)).Msg("booking status updated")
	return nil
}

// findBooking looks id up in the snapshot first. The feed may not have
// caught up with a booking created moments ago, so a miss goes to the store.
func (s *Service) findBooking(ctx context.Context, id string, snap Snapshot) (Booking, error) {
	if b, ok := snap.FindBooking(id); ok {
		return b, nil
	}
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, wrapStore(err, "get booking")
	}
	b.ID = id
	return *b, nil
}

func (s *Service) checkApproval(target Booking, snap Snapshot) error {
	opts := CheckOptions{Statuses: []Status{StatusApproved, StatusPending}, ExcludeID: target.ID}
	if s.detector.HasConflict(target.Candidate(), snap, opts) {
		duration := s.detector.catalog.Duration(target.ReservationType)
		return &ConflictError{
			Kind:        ErrCannotApprove,
			Suggestions: s.detector.SuggestAlternatives(target.Date, target.Court, duration, s.suggestionCount, snap),
		}
	}
	return nil
}

func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: booking id is required", ErrBadRequest)
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return wrapStore(err, "delete booking")
	}
	log.Info().Str("bookingId", id).Msg("booking deleted")
	return nil
}

func wrapStore(err error, op string) error {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
