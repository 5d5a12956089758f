package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	FacetsKey = "catalog:facets"
	FacetsTTL = 5 * time.Minute
)

// CachedStore serves Facets from Redis and delegates everything else.
// Search results are never cached.
type CachedStore struct {
	Store
	rdb redis.Cmdable
	ttl time.Duration
	log *logrus.Logger
}

// NewCachedStore wraps s. A nil rdb disables caching.
func NewCachedStore(s Store, rdb redis.Cmdable, log *logrus.Logger) *CachedStore {
	return &CachedStore{Store: s, rdb: rdb, ttl: FacetsTTL, log: log}
}

func (c *CachedStore) Facets(ctx context.Context) (*Facets, error) {
	if c.rdb == nil {
		return c.Store.Facets(ctx)
	}

	raw, err := c.rdb.Get(ctx, FacetsKey).Bytes()
	switch {
	case err == nil:
		var f Facets
		if jerr := json.Unmarshal(raw, &f); jerr == nil {
			return &f, nil
		}
		c.log.Warn("[facets] discarding undecodable cache entry")
	case err != redis.Nil:
		c.log.WithError(err).Warn("[facets] cache read failed")
	}

	f, err := c.Store.Facets(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(f); err == nil {
		if err := c.rdb.Set(ctx, FacetsKey, b, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("[facets] cache write failed")
		}
	}
	return f, nil
}

// InvalidateFacets drops the cached facets so the next read recomputes them.
func InvalidateFacets(ctx context.Context, rdb redis.Cmdable) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, FacetsKey).Err()
}
