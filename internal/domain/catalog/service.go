package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/cache"
	"squash-courts/backend/internal/validate"
)

const listCacheTTL = 5 * time.Minute

type Service struct {
	store Store
	cache cache.Cache
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

func listKey(k Kind) string {
	return cache.BuildKey("catalog", string(k))
}

// List returns every item of kind k. Public pages hit this on every load,
// so results are cached until the next write.
func (s *Service) List(ctx context.Context, k Kind) ([]Item, error) {
	info, ok := kinds[k]
	if !ok {
		return nil, ErrUnknownKind
	}

	var cached []json.RawMessage
	if err := s.cache.Get(ctx, listKey(k), &cached); err == nil {
		out := make([]Item, 0, len(cached))
		for _, raw := range cached {
			item := info.newItem()
			if err := json.Unmarshal(raw, item); err != nil {
				cached = nil
				break
			}
			out = append(out, item)
		}
		if cached != nil {
			return out, nil
		}
	} else if !cache.IsMiss(err) {
		log.Warn().Err(err).Str("kind", string(k)).Msg("catalog cache read failed")
	}

	items, err := s.store.List(ctx, k)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, listKey(k), items, listCacheTTL); err != nil {
		log.Warn().Err(err).Str("kind", string(k)).Msg("catalog cache write failed")
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, k Kind, id string) (Item, error) {
	if _, ok := kinds[k]; !ok {
		return nil, ErrUnknownKind
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	return s.store.Get(ctx, k, id)
}

func (s *Service) Create(ctx context.Context, k Kind, item Item) (Item, error) {
	if _, ok := kinds[k]; !ok {
		return nil, ErrUnknownKind
	}
	item.normalize()
	if err := validate.Struct(item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	id, err := s.store.Create(ctx, k, item)
	if err != nil {
		return nil, err
	}
	item.setID(id)
	s.invalidate(ctx, k)

	log.Info().Str("kind", string(k)).Str("id", id).Msg("catalog item created")
	return item, nil
}

// Update merges a partial document. Only fields known for the kind may be
// set, and the merged result must still validate.
func (s *Service) Update(ctx context.Context, k Kind, id string, updates map[string]any) error {
	info, ok := kinds[k]
	if !ok {
		return ErrUnknownKind
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: update request cannot be empty", ErrBadRequest)
	}
	for field := range updates {
		if !slices.Contains(info.fields, field) {
			return fmt.Errorf("%w: unknown field %q for %s", ErrBadRequest, field, k)
		}
	}

	current, err := s.store.Get(ctx, k, id)
	if err != nil {
		return err
	}
	merged, err := mergeInto(current, updates, info.newItem)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	merged.normalize()
	if err := validate.Struct(merged); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	keys := make([]string, 0, len(updates))
	for field := range updates {
		keys = append(keys, field)
	}
	patch, err := pick(merged, keys)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	if err := s.store.Update(ctx, k, id, patch); err != nil {
		return err
	}
	s.invalidate(ctx, k)
	return nil
}

func (s *Service) Delete(ctx context.Context, k Kind, id string) error {
	if _, ok := kinds[k]; !ok {
		return ErrUnknownKind
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	if err := s.store.Delete(ctx, k, id); err != nil {
		return err
	}
	s.invalidate(ctx, k)

	log.Info().Str("kind", string(k)).Str("id", id).Msg("catalog item deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, k Kind) {
	if err := s.cache.Delete(ctx, listKey(k)); err != nil && !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("kind", string(k)).Msg("catalog cache invalidation failed")
	}
}
