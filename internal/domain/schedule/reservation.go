package schedule

import (
	"fmt"
	"strings"
)

type ReservationType string

const (
	OneHour    ReservationType = "1hour"
	TwoHours   ReservationType = "2hours"
	ThreeHours ReservationType = "3hours"
	VIPFour    ReservationType = "vip4hours"
)

// Reservation describes one entry of the reservation catalog. Duration is
// counted in grid slots.
type Reservation struct {
	Label    string `json:"label"`
	Duration int    `json:"duration"`
	Price    int    `json:"price"`
}

type Catalog map[ReservationType]Reservation

var DefaultCatalog = Catalog{
	OneHour:    {Label: "1 Hour", Duration: 1, Price: 150},
	TwoHours:   {Label: "2 Hours", Duration: 2, Price: 300},
	ThreeHours: {Label: "3 Hours", Duration: 3, Price: 450},
	VIPFour:    {Label: "VIP 4 Hours", Duration: 4, Price: 600},
}

func ParseReservationType(s string) (ReservationType, error) {
	t := ReservationType(strings.TrimSpace(s))
	if _, ok := DefaultCatalog[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReservation, s)
	}
	return t, nil
}

func (c Catalog) Lookup(t ReservationType) (Reservation, bool) {
	r, ok := c[t]
	return r, ok
}

// Duration returns the slot count of t. Unknown types occupy a single slot so
// that legacy records still block the hour they start in.
func (c Catalog) Duration(t ReservationType) int {
	if r, ok := c[t]; ok && r.Duration > 0 {
		return r.Duration
	}
	return 1
}

func (c Catalog) Price(t ReservationType) int {
	return c[t].Price
}

// RecurringPrice is the weekly price shown for a standing reservation of the
// given number of slots.
func RecurringPrice(duration int) int {
	switch duration {
	case 1:
		return 150
	case 2:
		return 300
	case 3:
		return 450
	case 4:
		return 600
	default:
		return duration * 150
	}
}
