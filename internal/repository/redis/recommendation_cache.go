package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myGreenCart/domain"

	"github.com/redis/go-redis/v9"
)

const (
	trendingKey         = "reco:trending"
	coPurchaseKeyPrefix = "reco:copurchase:"

	// trending entries carry their own day; the key only needs to outlive it
	trendingKeyTTL = 48 * time.Hour
)

// RecommendationCache stores the trending and co-purchase cache entries as
// JSON. Concurrent writers overwrite each other; the last write wins.
type RecommendationCache struct {
	client        *redis.Client
	coPurchaseTTL time.Duration
}

// NewRecommendationCache expires co-purchase keys after coPurchaseTTL. A
// non-positive TTL keeps them forever.
func NewRecommendationCache(client *redis.Client, coPurchaseTTL time.Duration) *RecommendationCache {
	return &RecommendationCache{
		client:        client,
		coPurchaseTTL: coPurchaseTTL,
	}
}

func coPurchaseKey(productID uint64) string {
	return fmt.Sprintf("%s%d", coPurchaseKeyPrefix, productID)
}

func (c *RecommendationCache) GetTrending(ctx context.Context) (*domain.TrendingCacheEntry, error) {
	var entry domain.TrendingCacheEntry
	found, err := c.getJSON(ctx, trendingKey, &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (c *RecommendationCache) SetTrending(ctx context.Context, entry domain.TrendingCacheEntry) error {
	return c.setJSON(ctx, trendingKey, entry, trendingKeyTTL)
}

func (c *RecommendationCache) GetCoPurchase(ctx context.Context, sourceProductID uint64) (*domain.CoPurchaseCacheEntry, error) {
	var entry domain.CoPurchaseCacheEntry
	found, err := c.getJSON(ctx, coPurchaseKey(sourceProductID), &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (c *RecommendationCache) SetCoPurchase(ctx context.Context, entry domain.CoPurchaseCacheEntry) error {
	ttl := c.coPurchaseTTL
	if ttl < 0 {
		ttl = 0
	}
	return c.setJSON(ctx, coPurchaseKey(entry.SourceProductID), entry, ttl)
}

func (c *RecommendationCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *RecommendationCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s in Redis: %w", key, err)
	}
	return nil
}
