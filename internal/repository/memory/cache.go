package memory

import (
	"context"
	"sync"

	"myGreenCart/domain"
)

// RecommendationCache is the in-process cache used when Redis is disabled.
// Entries are copied in and out so callers cannot mutate stored slices.
type RecommendationCache struct {
	mu         sync.RWMutex
	trending   *domain.TrendingCacheEntry
	coPurchase map[uint64]domain.CoPurchaseCacheEntry
}

func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{
		coPurchase: make(map[uint64]domain.CoPurchaseCacheEntry),
	}
}

func (c *RecommendationCache) GetTrending(context.Context) (*domain.TrendingCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.trending == nil {
		return nil, nil
	}
	e := *c.trending
	e.Items = append([]domain.ScoredProduct(nil), c.trending.Items...)
	return &e, nil
}

func (c *RecommendationCache) SetTrending(_ context.Context, entry domain.TrendingCacheEntry) error {
	entry.Items = append([]domain.ScoredProduct(nil), entry.Items...)

	c.mu.Lock()
	c.trending = &entry
	c.mu.Unlock()
	return nil
}

func (c *RecommendationCache) GetCoPurchase(_ context.Context, sourceProductID uint64) (*domain.CoPurchaseCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.coPurchase[sourceProductID]
	if !ok {
		return nil, nil
	}
	e.Recommendations = append([]domain.ScoredProduct(nil), e.Recommendations...)
	return &e, nil
}

func (c *RecommendationCache) SetCoPurchase(_ context.Context, entry domain.CoPurchaseCacheEntry) error {
	entry.Recommendations = append([]domain.ScoredProduct(nil), entry.Recommendations...)

	c.mu.Lock()
	c.coPurchase[entry.SourceProductID] = entry
	c.mu.Unlock()
	return nil
}
