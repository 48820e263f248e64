package redis

import (
	"context"
	"errors"
	"time"

	"villagevoice/pkg/e"

	goredis "github.com/redis/go-redis/v9"
)

// AddressCache stores reverse geocoding results.
type AddressCache struct {
	client *goredis.Client
	prefix string
}

func NewAddressCache(r *Redis) *AddressCache {
	return &AddressCache{
		client: r.Client,
		prefix: "geocode:",
	}
}

func (c *AddressCache) Get(ctx context.Context, key string) (string, bool, error) {
	addr, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, e.WrapError(ctx, "redis.AddressCache.Get", err)
	}
	return addr, true, nil
}

func (c *AddressCache) Set(ctx context.Context, key, address string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, address, ttl).Err()
}
