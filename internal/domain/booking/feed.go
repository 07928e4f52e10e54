package booking

import (
	"sync"
)

// Feed holds the latest snapshot of both collections. Each collection is
// replaced wholesale when the store pushes a change; readers always get a
// complete, immutable snapshot.
type Feed struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

func NewFeed() *Feed {
	return &Feed{subs: map[int]func(Snapshot){}}
}

func (f *Feed) Current() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap
}

func (f *Feed) Subscribe(fn func(Snapshot)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *Feed) ReplaceBookings(bookings []Booking) {
	cp := make([]Booking, len(bookings))
	copy(cp, bookings)

	f.mu.Lock()
	f.snap = Snapshot{Bookings: cp, Recurring: f.snap.Recurring}
	f.mu.Unlock()
	f.notify()
}

func (f *Feed) ReplaceRecurring(recurring []RecurringBooking) {
	cp := make([]RecurringBooking, len(recurring))
	copy(cp, recurring)

	f.mu.Lock()
	f.snap = Snapshot{Bookings: f.snap.Bookings, Recurring: cp}
	f.mu.Unlock()
	f.notify()
}

func (f *Feed) notify() {
	f.mu.RLock()
	snap := f.snap
	subs := make([]func(Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
