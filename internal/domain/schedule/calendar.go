package schedule

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range weekdays {
		if d == w {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayOf returns the weekday of an ISO calendar date. The date is read as
// a plain calendar day, independent of the server's time zone.
func WeekdayOf(date string) (Weekday, bool) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", false
	}
	return weekdays[t.Weekday()], true
}

func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCalendarDate, s)
	}
	return s, nil
}

type Court int

var Courts = []Court{1, 2}

func ParseCourt(n int) (Court, error) {
	for _, c := range Courts {
		if int(c) == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidCourt, n)
}
