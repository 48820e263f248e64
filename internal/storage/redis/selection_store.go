package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/internal/service"
	"villagevoice/pkg/e"

	goredis "github.com/redis/go-redis/v9"
)

var _ service.SelectionStore = (*SelectionStore)(nil)

// SelectionStore remembers the last picked location per form draft. A new
// pick overwrites the previous one.
type SelectionStore struct {
	client *goredis.Client
	prefix string
}

func NewSelectionStore(r *Redis) *SelectionStore {
	return &SelectionStore{
		client: r.Client,
		prefix: "selection:",
	}
}

func (s *SelectionStore) Put(ctx context.Context, draftID string, loc domain.Location, ttl time.Duration) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+draftID, b, ttl).Err()
}

func (s *SelectionStore) Get(ctx context.Context, draftID string) (*domain.Location, error) {
	const op = "redis.SelectionStore.Get"

	data, err := s.client.Get(ctx, s.prefix+draftID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		return nil, e.WrapError(ctx, op, err)
	}

	var loc domain.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &loc, nil
}
