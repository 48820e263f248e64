package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/internal/service"
	"villagevoice/pkg/e"

	goredis "github.com/redis/go-redis/v9"
)

var _ service.ComplaintCache = (*ComplaintCache)(nil)

// ComplaintCache holds tracked complaints keyed by their public id.
type ComplaintCache struct {
	client *goredis.Client
	prefix string
}

func NewComplaintCache(r *Redis) *ComplaintCache {
	return &ComplaintCache{
		client: r.Client,
		prefix: "complaint:",
	}
}

func (c *ComplaintCache) Get(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	const op = "redis.ComplaintCache.Get"

	data, err := c.client.Get(ctx, c.prefix+complaintID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, e.WrapError(ctx, op, err)
	}

	var complaint domain.Complaint
	if err := json.Unmarshal(data, &complaint); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &complaint, nil
}

func (c *ComplaintCache) Set(ctx context.Context, complaint *domain.Complaint, ttl time.Duration) error {
	b, err := json.Marshal(complaint)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+complaint.ComplaintID, b, ttl).Err()
}

// SetIfAbsent stores the record only when no entry exists for its id.
func (c *ComplaintCache) SetIfAbsent(ctx context.Context, complaint *domain.Complaint, ttl time.Duration) error {
	b, err := json.Marshal(complaint)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, c.prefix+complaint.ComplaintID, b, ttl).Err()
}

func (c *ComplaintCache) Invalidate(ctx context.Context, complaintID string) error {
	return c.client.Del(ctx, c.prefix+complaintID).Err()
}
