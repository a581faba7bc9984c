package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hypewatch/internal/adapters/redis"
	"hypewatch/internal/collector"
	"hypewatch/internal/domain/sentiment"
	pkgerrors "hypewatch/pkg/errors"
)

// Compile-time check
var _ collector.AggregateCache = (*AggregateCache)(nil)

// AggregateCache keeps the latest aggregate per coin per source in Redis
type AggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAggregateCache creates a cache with the given entry TTL
func NewAggregateCache(client *redis.Client, ttl time.Duration) *AggregateCache {
	return &AggregateCache{client: client, ttl: ttl}
}

func cacheKey(coinSymbol, source string) string {
	return fmt.Sprintf("sentiment:latest:%s:%s", coinSymbol, source)
}

// StoreLatest overwrites the cached aggregate for a coin/source pair
func (c *AggregateCache) StoreLatest(ctx context.Context, agg sentiment.AggregateSentiment) error {
	return c.client.Set(ctx, cacheKey(agg.CoinSymbol, agg.Source), agg, c.ttl)
}

// GetLatest reads the cached aggregate for a coin/source pair. A cache miss
// returns ErrNotFound.
func (c *AggregateCache) GetLatest(ctx context.Context, coinSymbol, source string) (*sentiment.AggregateSentiment, error) {
	var agg sentiment.AggregateSentiment
	err := c.client.Get(ctx, cacheKey(coinSymbol, source), &agg)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.Wrapf(pkgerrors.ErrNotFound, "no cached aggregate for %s/%s", coinSymbol, source)
		}
		return nil, err
	}
	return &agg, nil
}
