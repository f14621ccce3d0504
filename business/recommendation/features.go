package recommendation

import (
	"context"
	"fmt"
	"time"

	"myGreenCart/domain"
)

// FeatureExtractor builds FeatureVectors. The recommend path and the training
// recorder both go through it so stored examples and live candidates are
// encoded identically.
type FeatureExtractor struct {
	purchases  PurchaseHistoryStore
	rejections RejectionStore
	favorites  FavoritesStore

	recentWindow       time.Duration
	rejectionRetention time.Duration
	now                func() time.Time
}

func NewFeatureExtractor(purchases PurchaseHistoryStore, rejections RejectionStore, favorites FavoritesStore, cfg Config) *FeatureExtractor {
	cfg = cfg.withDefaults()
	return &FeatureExtractor{
		purchases:          purchases,
		rejections:         rejections,
		favorites:          favorites,
		recentWindow:       cfg.RecentWindow,
		rejectionRetention: cfg.RejectionRetention,
		now:                time.Now,
	}
}

type purchaseStats struct {
	times  int
	recent bool
}

// Extract returns one vector per product id. storeCounts comes from the
// availability lookup already done for the same products; a missing count is 0.
func (e *FeatureExtractor) Extract(
	ctx context.Context,
	cartID uint64,
	userID uint,
	productIDs []uint64,
	storeCounts map[uint64]int,
) (map[uint64]domain.FeatureVector, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	now := e.now()

	rejections, err := e.rejections.Query(ctx, cartID, productIDs, now.Add(-e.rejectionRetention))
	if err != nil {
		return nil, fmt.Errorf("load rejections: %w", err)
	}
	byUser := make(map[uint64]int)
	byCart := make(map[uint64]int)
	for _, r := range rejections {
		byCart[r.ProductID]++
		if r.RejectedBy == userID {
			byUser[r.ProductID]++
		}
	}

	history, err := e.purchases.Query(ctx, PurchaseFilter{CartID: &cartID})
	if err != nil {
		return nil, fmt.Errorf("load cart history: %w", err)
	}
	recentSince := now.Add(-e.recentWindow)
	stats := make(map[uint64]*purchaseStats)
	for _, ev := range history {
		st, ok := stats[ev.ProductID]
		if !ok {
			st = &purchaseStats{}
			stats[ev.ProductID] = st
		}
		st.times++
		if !ev.OccurredAt.Before(recentSince) {
			st.recent = true
		}
	}

	favorites, err := e.favorites.ProductIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	out := make(map[uint64]domain.FeatureVector, len(productIDs))
	for _, pid := range productIDs {
		fv := domain.FeatureVector{
			Bias:                1,
			StoreCount:          float64(storeCounts[pid]),
			TimesRejectedByUser: float64(byUser[pid]),
			TimesRejectedByCart: float64(byCart[pid]),
		}
		if _, ok := favorites[pid]; ok {
			fv.IsFavorite = 1
		}
		if st, ok := stats[pid]; ok {
			fv.PurchasedBefore = 1
			fv.TimesPurchased = float64(st.times)
			fv.RecentlyPurchased = boolToFloat(st.recent)
		}
		out[pid] = fv
	}

	return out, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
