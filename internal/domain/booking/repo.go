package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"squash-courts/backend/internal/domain/schedule"
)

// Repo is the Firestore implementation of Store.
type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) bookings() *firestore.CollectionRef {
	return r.fs.Collection(bookingsCollection)
}

func (r *Repo) recurring() *firestore.CollectionRef {
	return r.fs.Collection(recurringCollection)
}

func (r *Repo) CreateBooking(ctx context.Context, b Booking) (string, error) {
	ref := r.bookings().NewDoc()
	if _, err := ref.Create(ctx, b); err != nil {
		return "", fmt.Errorf("%w: create booking: %v", ErrStoreUnavailable, err)
	}
	return ref.ID, nil
}

func (r *Repo) GetBooking(ctx context.Context, id string) (*Booking, error) {
	doc, err := r.bookings().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get booking: %v", ErrStoreUnavailable, err)
	}
	b, err := decodeBooking(doc)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking patches an existing document; a missing id is ErrNotFound
// rather than a new document.
func (r *Repo) UpdateBooking(ctx context.Context, id string, updates map[string]any) error {
	_, err := r.bookings().Doc(id).Update(ctx, toUpdates(updates))
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: update booking: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	if _, err := r.bookings().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete booking: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ListBookingsByDateCourt is a fresh server read, bypassing the live feed.
func (r *Repo) ListBookingsByDateCourt(ctx context.Context, date string, court schedule.Court) ([]Booking, error) {
	iter := r.bookings().
		Where("date", "==", date).
		Where("court", "==", int(court)).
		Documents(ctx)
	defer iter.Stop()

	out := []Booking{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list bookings: %v", ErrStoreUnavailable, err)
		}
		b, err := decodeBooking(doc)
		if err != nil {
			log.Warn().Err(err).Str("bookingId", doc.Ref.ID).Msg("skipping unreadable booking")
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Repo) CreateRecurring(ctx context.Context, rb RecurringBooking) (string, error) {
	ref := r.recurring().NewDoc()
	if _, err := ref.Create(ctx, rb); err != nil {
		return "", fmt.Errorf("%w: create recurring booking: %v", ErrStoreUnavailable, err)
	}
	return ref.ID, nil
}

func (r *Repo) UpdateRecurring(ctx context.Context, id string, updates map[string]any) error {
	_, err := r.recurring().Doc(id).Update(ctx, toUpdates(updates))
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: recurring booking %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: update recurring booking: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func toUpdates(updates map[string]any) []firestore.Update {
	out := make([]firestore.Update, 0, len(updates))
	for k, v := range updates {
		out = append(out, firestore.Update{Path: k, Value: v})
	}
	return out
}

func (r *Repo) DeleteRecurring(ctx context.Context, id string) error {
	if _, err := r.recurring().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete recurring booking: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Watch streams both collections into the feed until ctx is done. Each
// snapshot from Firestore replaces the corresponding half of the feed.
func (r *Repo) Watch(ctx context.Context, feed *Feed) {
	go r.watchBookings(ctx, feed)
	go r.watchRecurring(ctx, feed)
}

func (r *Repo) watchBookings(ctx context.Context, feed *Feed) {
	it := r.bookings().OrderBy("createdAt", firestore.Desc).Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("bookings listener stopped")
				retryWatch(ctx, func() { r.watchBookings(ctx, feed) })
			}
			return
		}
		docs, err := qs.Documents.GetAll()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read bookings snapshot")
			continue
		}
		out := make([]Booking, 0, len(docs))
		for _, doc := range docs {
			b, err := decodeBooking(doc)
			if err != nil {
				log.Warn().Err(err).Str("bookingId", doc.Ref.ID).Msg("skipping unreadable booking")
				continue
			}
			out = append(out, b)
		}
		feed.ReplaceBookings(out)
		log.Debug().Int("count", len(out)).Msg("bookings snapshot applied")
	}
}

func (r *Repo) watchRecurring(ctx context.Context, feed *Feed) {
	it := r.recurring().Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("recurring bookings listener stopped")
				retryWatch(ctx, func() { r.watchRecurring(ctx, feed) })
			}
			return
		}
		docs, err := qs.Documents.GetAll()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read recurring bookings snapshot")
			continue
		}
		out := make([]RecurringBooking, 0, len(docs))
		for _, doc := range docs {
			rb, err := decodeRecurring(doc)
			if err != nil {
				log.Warn().Err(err).Str("recurringId", doc.Ref.ID).Msg("skipping unreadable recurring booking")
				continue
			}
			out = append(out, rb)
		}
		feed.ReplaceRecurring(out)
		log.Debug().Int("count", len(out)).Msg("recurring bookings snapshot applied")
	}
}

func retryWatch(ctx context.Context, restart func()) {
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		go restart()
	}
}

func decodeBooking(doc *firestore.DocumentSnapshot) (Booking, error) {
	b, err := bookingFromData(doc.Ref.ID, doc.Data())
	if err != nil {
		return Booking{}, fmt.Errorf("failed to parse booking: %w", err)
	}
	return b, nil
}

func decodeRecurring(doc *firestore.DocumentSnapshot) (RecurringBooking, error) {
	var rb RecurringBooking
	if err := doc.DataTo(&rb); err != nil {
		return RecurringBooking{}, fmt.Errorf("failed to parse recurring booking: %w", err)
	}
	rb.ID = doc.Ref.ID
	rb.DayOfWeek = schedule.Weekday(strings.ToLower(string(rb.DayOfWeek)))
	return rb, nil
}
