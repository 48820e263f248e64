package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Reverser interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

type AddressCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, address string, ttl time.Duration) error
}

// Cached puts an AddressCache in front of a Reverser. Cache failures are
// logged and otherwise ignored.
type Cached struct {
	next   Reverser
	cache  AddressCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(next Reverser, cache AddressCache, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger}
}

// CacheKey rounds to six decimals, roughly 0.1 m.
func CacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

func (c *Cached) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	key := CacheKey(lat, lng)

	addr, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("geocode cache get failed", slog.String("key", key), slog.Any("error", err))
	} else if ok {
		return addr, nil
	}

	addr, err = c.next.Reverse(ctx, lat, lng)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, addr, c.ttl); err != nil {
		c.logger.Warn("geocode cache set failed", slog.String("key", key), slog.Any("error", err))
	}
	return addr, nil
}
