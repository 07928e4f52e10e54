package booking

//go:generate go run go.uber.org/mock/mockgen -source=./store.go -destination=./mocks/store_mock.go -package=mocks

import (
	"context"

	"squash-courts/backend/internal/domain/schedule"
)

// Store is the write side of the bookings and recurring_bookings
// collections, plus the fresh read used to verify a submission.
type Store interface {
	CreateBooking(ctx context.Context, b Booking) (string, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	UpdateBooking(ctx context.Context, id string, updates map[string]any) error
	DeleteBooking(ctx context.Context, id string) error
	ListBookingsByDateCourt(ctx context.Context, date string, court schedule.Court) ([]Booking, error)

	CreateRecurring(ctx context.Context, rb RecurringBooking) (string, error)
	UpdateRecurring(ctx context.Context, id string, updates map[string]any) error
	DeleteRecurring(ctx context.Context, id string) error
}

// SnapshotSource exposes the live read model.
type SnapshotSource interface {
	Current() Snapshot
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}
