// AngelaMos | 2026
// cache.go

package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const featuredCacheKey = "property:featured"

// FeaturedCache holds the rendered featured list between listing writes.
type FeaturedCache interface {
	Get(ctx context.Context) ([]Response, bool, error)
	Set(ctx context.Context, listings []Response) error
	Invalidate(ctx context.Context) error
}

type redisFeaturedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFeaturedCache(rdb *redis.Client, ttl time.Duration) FeaturedCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisFeaturedCache{rdb: rdb, ttl: ttl}
}

func (c *redisFeaturedCache) Get(ctx context.Context) ([]Response, bool, error) {
	raw, err := c.rdb.Get(ctx, featuredCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read featured cache: %w", err)
	}

	var listings []Response
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("decode featured cache: %w", err)
	}
	return listings, true, nil
}

func (c *redisFeaturedCache) Set(ctx context.Context, listings []Response) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode featured cache: %w", err)
	}

	if err := c.rdb.Set(ctx, featuredCacheKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write featured cache: %w", err)
	}
	return nil
}

func (c *redisFeaturedCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, featuredCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate featured cache: %w", err)
	}
	return nil
}
