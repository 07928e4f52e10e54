package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/otel"
)

type SubmissionState int

const (
	PreChecking SubmissionState = iota
	Writing
	Verifying
	Compensating
	Committed
	Rejected
)

func (s SubmissionState) String() string {
	switch s {
	case PreChecking:
		return "pre-checking"
	case Writing:
		return "writing"
	case Verifying:
		return "verifying"
	case Compensating:
		return "compensating"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s SubmissionState) terminal() bool {
	return s == Committed || s == Rejected
}

// Submission drives one booking through pre-check, optimistic create,
// read-back verification and, when a concurrent peer is found, a
// compensating delete. It is not safe for concurrent use; each request gets
// its own Submission.
type Submission struct {
	detector *Detector
	source   SnapshotSource
	store    Store
	scope    otel.Scope
	now      func() time.Time
	maxAlt   int

	booking Booking
	span    schedule.Span
	state   SubmissionState
	trace   []SubmissionState
	fresh   []Booking
	err     error
}

func (s *Service) newSubmission(b Booking, sp schedule.Span, scope otel.Scope) *Submission {
	return &Submission{
		detector: s.detector,
		source:   s.source,
		store:    s.store,
		scope:    scope,
		now:      s.now,
		maxAlt:   s.suggestionCount,
		booking:  b,
		span:     sp,
		state:    PreChecking,
		trace:    []SubmissionState{PreChecking},
	}
}

func (sub *Submission) State() SubmissionState {
	return sub.state
}

// Trace lists every state the submission has entered, in order.
func (sub *Submission) Trace() []SubmissionState {
	out := make([]SubmissionState, len(sub.trace))
	copy(out, sub.trace)
	return out
}

// Run steps the submission until it reaches Committed or Rejected.
func (sub *Submission) Run(ctx context.Context) (*Booking, error) {
	for !sub.state.terminal() {
		sub.step(ctx)
	}
	if sub.state == Rejected {
		return nil, sub.err
	}
	b := sub.booking
	return &b, nil
}

func (sub *Submission) step(ctx context.Context) {
	var next SubmissionState
	switch sub.state {
	case PreChecking:
		next = sub.preCheck()
	case Writing:
		next = sub.write(ctx)
	case Verifying:
		next = sub.verify(ctx)
	case Compensating:
		next = sub.compensate(ctx)
	default:
		return
	}
	sub.enter(next)
}

func (sub *Submission) enter(next SubmissionState) {
	log.Debug().
		Str("bookingId", sub.booking.ID).
		Str("date", sub.booking.Date).
		Int("court", int(sub.booking.Court)).
		Stringer("from", sub.state).
		Stringer("to", next).
		Msg("booking submission transition")
	if sub.scope != nil {
		sub.scope.AddEvent("submission." + next.String())
	}
	sub.state = next
	sub.trace = append(sub.trace, next)
}

func (sub *Submission) preCheck() SubmissionState {
	snap := sub.source.Current()
	if sub.detector.HasConflict(sub.booking.Candidate(), snap, CheckOptions{}) {
		sub.err = sub.conflict(snap, false)
		return Rejected
	}
	return Writing
}

func (sub *Submission) write(ctx context.Context) SubmissionState {
	sub.booking.Status = StatusPending
	sub.booking.CreatedAt = sub.now().UTC()

	id, err := sub.store.CreateBooking(ctx, sub.booking)
	if err != nil {
		sub.err = wrapStore(err, "create booking")
		return Rejected
	}
	sub.booking.ID = id
	return Verifying
}

// verify re-reads the date and court from the store. A read failure does not
// roll the booking back; only a detected overlap does.
func (sub *Submission) verify(ctx context.Context) SubmissionState {
	fresh, err := sub.store.ListBookingsByDateCourt(ctx, sub.booking.Date, sub.booking.Court)
	if err != nil {
		log.Warn().Err(err).Str("bookingId", sub.booking.ID).Msg("post-write verification failed, keeping booking")
		return Committed
	}
	sub.fresh = fresh

	for _, peer := range fresh {
		if peer.ID == sub.booking.ID || peer.Status == StatusCanceled {
			continue
		}
		if peer.Date != sub.booking.Date || peer.Court != sub.booking.Court {
			continue
		}
		psp, ok := sub.detector.bookingSpan(peer.StartTime, peer.ReservationType)
		if ok && sub.span.Overlaps(psp) {
			log.Warn().
				Str("bookingId", sub.booking.ID).
				Str("peerId", peer.ID).
				Str("date", sub.booking.Date).
				Int("court", int(sub.booking.Court)).
				Msg("concurrent booking detected after write")
			return Compensating
		}
	}
	return Committed
}

// compensate deletes the booking this submission created. The conflict is
// reported whether or not the delete succeeds.
func (sub *Submission) compensate(ctx context.Context) SubmissionState {
	if err := sub.store.DeleteBooking(ctx, sub.booking.ID); err != nil {
		log.Error().Err(err).Str("bookingId", sub.booking.ID).Msg("compensating delete failed")
	}

	snap := sub.source.Current()
	if sub.fresh != nil {
		peers := make([]Booking, 0, len(sub.fresh))
		for _, b := range sub.fresh {
			if b.ID != sub.booking.ID {
				peers = append(peers, b)
			}
		}
		snap = snap.withFresh(sub.booking.Date, sub.booking.Court, peers)
	}
	sub.err = sub.conflict(snap, true)
	return Rejected
}

func (sub *Submission) conflict(snap Snapshot, afterWrite bool) error {
	duration := sub.detector.catalog.Duration(sub.booking.ReservationType)
	return &ConflictError{
		Kind:        ErrSlotConflict,
		Suggestions: sub.detector.SuggestAlternatives(sub.booking.Date, sub.booking.Court, duration, sub.maxAlt, snap),
		AfterWrite:  afterWrite,
	}
}
