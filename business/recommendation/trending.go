package recommendation

import (
	"context"
	"fmt"
	"time"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"
)

const (
	day              = 24 * time.Hour
	trendingLookback = 21 * day
)

// trendingDecay maps event age to weight. Older than 21 days is excluded.
func trendingDecay(age time.Duration) (float64, bool) {
	switch {
	case age <= 7*day:
		return 1.0, true
	case age <= 14*day:
		return 0.8, true
	case age <= trendingLookback:
		return 0.5, true
	default:
		return 0, false
	}
}

// trendingCandidates returns today's global top-K minus in-cart products.
func (s *RecommendationService) trendingCandidates(ctx context.Context, _ RecommendRequest, cart cartItems, k int) ([]domain.CandidateScore, error) {
	items, err := s.trendingItems(ctx, k)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredProduct, 0, len(items))
	for _, it := range items {
		if cart.set.has(it.ProductID) {
			continue
		}
		out = append(out, it)
		if len(out) == k {
			break
		}
	}
	return toCandidates(out, domain.SourceTrending), nil
}

// trendingItems serves the cached day entry or computes and stores today's.
// The stored list is not filtered by any cart and holds at least DefaultK
// items, so a small k does not shrink it for later callers.
func (s *RecommendationService) trendingItems(ctx context.Context, k int) ([]domain.ScoredProduct, error) {
	today := s.today()
	depth := max(k, s.cfg.DefaultK)

	cached, err := s.trending.GetTrending(ctx)
	if err != nil {
		logger.Warn("reco_trending_cache_read_failed", "error", err)
	} else if cached.ValidFor(today) && cached.Depth >= depth {
		return cached.Items, nil
	}

	now := s.now()
	events, err := s.purchases.Query(ctx, PurchaseFilter{Since: now.Add(-trendingLookback)})
	if err != nil {
		return nil, fmt.Errorf("load recent purchases: %w", err)
	}

	scores := NewScoreMap()
	for _, ev := range events {
		w, ok := trendingDecay(now.Sub(ev.OccurredAt))
		if !ok {
			continue
		}
		scores.Add(ev.ProductID, w)
	}

	entry := domain.TrendingCacheEntry{
		Day:        today,
		Items:      scores.Top(depth),
		Depth:      depth,
		ComputedAt: now,
	}
	if err := s.trending.SetTrending(ctx, entry); err != nil {
		logger.Warn("reco_trending_cache_write_failed", "error", err)
	}

	return entry.Items, nil
}
