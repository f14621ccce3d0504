package recommendation

import (
	"context"
	"fmt"
	"time"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"
)

// Weights of the 1st, 2nd and 3rd purchase dates following an occurrence of the source product.
var coPurchaseDateWeights = [...]float64{1.0, 0.7, 0.4}

// coPurchaseCandidates sums the cached "bought after" scores of every product
// in the cart.
func (s *RecommendationService) coPurchaseCandidates(ctx context.Context, _ RecommendRequest, cart cartItems, k int) ([]domain.CandidateScore, error) {
	agg := NewScoreMap()
	for _, src := range cart.ids {
		entry, err := s.coPurchaseEntry(ctx, src)
		if err != nil {
			return nil, err
		}
		for _, rec := range entry.Recommendations {
			if cart.set.has(rec.ProductID) {
				continue
			}
			agg.Add(rec.ProductID, rec.Score)
		}
	}

	return toCandidates(agg.Top(k), domain.SourceCoPurchase), nil
}

// coPurchaseEntry returns the cached entry for src or computes and stores a new one.
func (s *RecommendationService) coPurchaseEntry(ctx context.Context, src uint64) (*domain.CoPurchaseCacheEntry, error) {
	now := s.now()

	cached, err := s.coPurchase.GetCoPurchase(ctx, src)
	if err != nil {
		logger.Warn("reco_copurchase_cache_read_failed", "product_id", src, "error", err)
	} else if cached.ValidAt(now, s.cfg.CoPurchaseTTL) {
		return cached, nil
	}

	scores, err := s.computeCoPurchase(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("compute co-purchase for product %d: %w", src, err)
	}

	entry := domain.CoPurchaseCacheEntry{
		SourceProductID: src,
		Recommendations: scores.Ranked(),
		ComputedAt:      now,
	}
	if err := s.coPurchase.SetCoPurchase(ctx, entry); err != nil {
		logger.Warn("reco_copurchase_cache_write_failed", "product_id", src, "error", err)
	}

	return &entry, nil
}

// computeCoPurchase scores products bought on the first three distinct
// calendar dates at or after each purchase of src, across every cart that
// ever bought src.
func (s *RecommendationService) computeCoPurchase(ctx context.Context, src uint64) (*ScoreMap, error) {
	occurrences, err := s.purchases.Query(ctx, PurchaseFilter{ProductID: &src})
	if err != nil {
		return nil, fmt.Errorf("load purchases of product: %w", err)
	}

	cartIDs := make([]uint64, 0)
	seen := make(productSet)
	for _, ev := range occurrences {
		if seen.has(ev.CartID) {
			continue
		}
		seen[ev.CartID] = struct{}{}
		cartIDs = append(cartIDs, ev.CartID)
	}

	scores := NewScoreMap()
	for _, cartID := range cartIDs {
		timeline, err := s.purchases.Query(ctx, PurchaseFilter{CartID: &cartID})
		if err != nil {
			return nil, fmt.Errorf("load cart %d timeline: %w", cartID, err)
		}
		for _, ev := range timeline {
			if ev.ProductID != src {
				continue
			}
			s.awardFollowingDates(scores, timeline, ev.OccurredAt, src)
		}
	}

	return scores, nil
}

// awardFollowingDates walks a chronological timeline from "at" and gives each
// product the weight of the date tier it was bought in. A product counts once
// per tier per occurrence.
func (s *RecommendationService) awardFollowingDates(scores *ScoreMap, timeline []domain.PurchaseEvent, at time.Time, src uint64) {
	tier := -1
	lastDay := ""
	awarded := make(map[string]productSet)

	for _, ev := range timeline {
		if ev.OccurredAt.Before(at) || ev.ProductID == src {
			continue
		}
		day := ev.OccurredAt.In(s.cfg.Location).Format(dayLayout)
		if day != lastDay {
			tier++
			lastDay = day
			if tier >= len(coPurchaseDateWeights) {
				return
			}
			awarded[day] = make(productSet)
		}
		if awarded[day].has(ev.ProductID) {
			continue
		}
		awarded[day][ev.ProductID] = struct{}{}
		scores.Add(ev.ProductID, coPurchaseDateWeights[tier])
	}
}
