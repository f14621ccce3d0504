package memory

import (
	"context"
	"testing"
	"time"

	"myGreenCart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationCache_Trending(t *testing.T) {
	c := NewRecommendationCache()
	ctx := context.Background()

	got, err := c.GetTrending(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	items := []domain.ScoredProduct{{ProductID: 1, Score: 3}}
	require.NoError(t, c.SetTrending(ctx, domain.TrendingCacheEntry{Day: "2026-10-15", Items: items}))
	items[0].ProductID = 99

	got, err = c.GetTrending(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.Items[0].ProductID)

	// last write wins
	require.NoError(t, c.SetTrending(ctx, domain.TrendingCacheEntry{Day: "2026-10-16"}))
	got, _ = c.GetTrending(ctx)
	assert.Equal(t, "2026-10-16", got.Day)
}

func TestRecommendationCache_CoPurchase(t *testing.T) {
	c := NewRecommendationCache()
	ctx := context.Background()

	miss, err := c.GetCoPurchase(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, miss)

	now := time.Now()
	require.NoError(t, c.SetCoPurchase(ctx, domain.CoPurchaseCacheEntry{
		SourceProductID: 7,
		Recommendations: []domain.ScoredProduct{{ProductID: 8, Score: 1.7}},
		ComputedAt:      now,
	}))

	hit, err := c.GetCoPurchase(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 1.7, hit.Recommendations[0].Score)
	assert.True(t, hit.ValidAt(now.Add(time.Hour), 24*time.Hour))
}
