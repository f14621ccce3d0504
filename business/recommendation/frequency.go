package recommendation

import (
	"context"
	"fmt"

	"myGreenCart/domain"
)

// frequencyCandidates merges the top-K by purchase count with the top-K by
// summed quantity. Count results come first and win on duplicates.
func (s *RecommendationService) frequencyCandidates(ctx context.Context, req RecommendRequest, cart cartItems, k int) ([]domain.CandidateScore, error) {
	cartID := req.CartID
	history, err := s.purchases.Query(ctx, PurchaseFilter{CartID: &cartID})
	if err != nil {
		return nil, fmt.Errorf("load cart history: %w", err)
	}

	byCount := NewScoreMap()
	byQuantity := NewScoreMap()
	for _, ev := range history {
		if cart.set.has(ev.ProductID) {
			continue
		}
		byCount.Add(ev.ProductID, 1)
		byQuantity.Add(ev.ProductID, float64(ev.Quantity))
	}

	seen := make(productSet)
	merged := make([]domain.ScoredProduct, 0, 2*k)
	for _, list := range [][]domain.ScoredProduct{byCount.Top(k), byQuantity.Top(k)} {
		for _, it := range list {
			if seen.has(it.ProductID) {
				continue
			}
			seen[it.ProductID] = struct{}{}
			merged = append(merged, it)
		}
	}

	return toCandidates(merged, domain.SourceFrequency), nil
}
