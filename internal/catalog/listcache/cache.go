// Package listcache provides a small read-through Redis cache for catalog
// list endpoints. Entries are JSON encoded and invalidated on every write.
package listcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a Redis client. A nil *Cache is valid and falls through to
// the loader, so callers need no special casing when Redis is absent.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// New constructs a Cache.
func New(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Invalidate drops the given keys. Failures are logged, never propagated:
// a stale list is served until the TTL expires.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil && c.logger != nil {
		c.logger.Warn("listcache invalidate", slog.Any("error", err))
	}
}

// GetList returns the cached value for key, loading and storing it on a
// miss. Concurrent misses for the same key share a single load.
func GetList[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil {
		return load(ctx)
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached []T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry, fall through and rebuild.
		c.Invalidate(ctx, key)
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.Warn("listcache get", slog.String("key", key), slog.Any("error", err))
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if body, err := json.Marshal(items); err == nil {
			if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil && c.logger != nil {
				c.logger.Warn("listcache set", slog.String("key", key), slog.Any("error", err))
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}
