package schedule

import "errors"

var (
	ErrUnknownSlot         = errors.New("time is not on the booking grid")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrUnknownReservation  = errors.New("unknown reservation type")
	ErrUnknownWeekday      = errors.New("unknown day of week")
	ErrInvalidCourt        = errors.New("invalid court")
	ErrInvalidCalendarDate = errors.New("invalid date, expected YYYY-MM-DD")
)

func IsErrInvalidTimeRange(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange)
}
