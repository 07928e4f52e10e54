package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store persists catalog items.
type Store interface {
	List(ctx context.Context, k Kind) ([]Item, error)
	Get(ctx context.Context, k Kind, id string) (Item, error)
	Create(ctx context.Context, k Kind, item Item) (string, error)
	Update(ctx context.Context, k Kind, id string, updates map[string]any) error
	Delete(ctx context.Context, k Kind, id string) error
}

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col(k Kind) *firestore.CollectionRef {
	return r.fs.Collection(kinds[k].collection)
}

func (r *Repo) List(ctx context.Context, k Kind) ([]Item, error) {
	info := kinds[k]
	q := r.col(k).Query
	if info.orderBy != "" {
		q = q.OrderBy(info.orderBy, info.dir)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []Item{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrStoreUnavailable, k, err)
		}
		item := info.newItem()
		if err := doc.DataTo(item); err != nil {
			log.Warn().Err(err).Str("kind", string(k)).Str("id", doc.Ref.ID).Msg("skipping unreadable catalog item")
			continue
		}
		item.setID(doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, k Kind, id string) (Item, error) {
	doc, err := r.col(k).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, k, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, k, err)
	}

	item := kinds[k].newItem()
	if err := doc.DataTo(item); err != nil {
		return nil, fmt.Errorf("failed to parse %s %s: %w", k, id, err)
	}
	item.setID(doc.Ref.ID)
	return item, nil
}

func (r *Repo) Create(ctx context.Context, k Kind, item Item) (string, error) {
	ref := r.col(k).NewDoc()
	if _, err := ref.Create(ctx, item); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrStoreUnavailable, k, err)
	}
	return ref.ID, nil
}

// Update merges updates into an existing document.
func (r *Repo) Update(ctx context.Context, k Kind, id string, updates map[string]any) error {
	fields := make([]firestore.Update, 0, len(updates))
	for path, v := range updates {
		fields = append(fields, firestore.Update{Path: path, Value: v})
	}

	_, err := r.col(k).Doc(id).Update(ctx, fields)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, k, id)
	}
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrStoreUnavailable, k, err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, k Kind, id string) error {
	if _, err := r.col(k).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, k, err)
	}
	return nil
}
