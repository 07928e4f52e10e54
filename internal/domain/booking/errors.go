package booking

import (
	"errors"
	"strings"

	"squash-courts/backend/internal/domain/schedule"
)

var (
	ErrBadRequest        = errors.New("bad request")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("booking belongs to another user")
	ErrStoreUnavailable  = errors.New("booking store unavailable")
	ErrSlotConflict      = errors.New("this time is already booked for this court")
	ErrCannotApprove     = errors.New("cannot approve booking: time overlaps with an existing booking")
	ErrRecurringConflict = errors.New("this time slot conflicts with an existing booking")
	ErrInvalidTimeRange  = schedule.ErrInvalidTimeRange
)

// ConflictError is returned when a requested range is taken. Suggestions are
// computed when the conflict is detected.
type ConflictError struct {
	Kind        error
	Suggestions []string
	// AfterWrite is set when the conflict was found by the post-write check
	// and the booking was rolled back.
	AfterWrite bool
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.AfterWrite {
		b.WriteString(" (detected after submission)")
	}
	if e.Kind == ErrRecurringConflict {
		return b.String()
	}
	if e.NoAlternatives() {
		b.WriteString(". No alternative slots available on this date.")
	} else {
		b.WriteString(". Available alternatives: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *ConflictError) Unwrap() error {
	return e.Kind
}

func (e *ConflictError) NoAlternatives() bool {
	return len(e.Suggestions) == 0
}

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, schedule.ErrInvalidTimeRange)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsErrForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsErrStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsErrConflict matches every kind of slot conflict.
func IsErrConflict(err error) bool {
	return errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrCannotApprove) || errors.Is(err, ErrRecurringConflict)
}

// Suggestions extracts alternative slots from a conflict error.
func Suggestions(err error) []string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Suggestions
	}
	return nil
}
