package booking

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"squash-courts/backend/internal/domain/schedule"
)

var errFakeDown = errors.New("fake store down")

// fakeStore is an in-memory Store. Failure knobs let tests hit the error
// branches of the workflows.
type fakeStore struct {
	mu        sync.Mutex
	bookings  map[string]Booking
	recurring map[string]RecurringBooking

	failCreate bool
	failList   bool
	failDelete bool
	deletes    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:  map[string]Booking{},
		recurring: map[string]RecurringBooking{},
	}
}

func (f *fakeStore) CreateBooking(_ context.Context, b Booking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return "", errFakeDown
	}
	b.ID = uuid.NewString()
	f.bookings[b.ID] = b
	return b.ID, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if st, ok := updates["status"].(string); ok {
		b.Status = Status(st)
	}
	f.bookings[id] = b
	return nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.failDelete {
		return errFakeDown
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) ListBookingsByDateCourt(_ context.Context, date string, court schedule.Court) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errFakeDown
	}
	out := []Booking{}
	for _, b := range f.bookings {
		if b.Date == date && b.Court == court {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRecurring(_ context.Context, rb RecurringBooking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rb.ID = uuid.NewString()
	f.recurring[rb.ID] = rb
	return rb.ID, nil
}

func (f *fakeStore) UpdateRecurring(_ context.Context, id string, _ map[string]any) error {
	return nil
}

func (f *fakeStore) DeleteRecurring(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recurring, id)
	return nil
}

// all returns the stored bookings sorted by creation time.
func (f *fakeStore) all() []Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// staticSource serves a fixed snapshot, standing in for a stale local cache.
type staticSource struct {
	snap Snapshot
}

func (s staticSource) Current() Snapshot { return s.snap }

func (s staticSource) Subscribe(func(Snapshot)) func() { return func() {} }
