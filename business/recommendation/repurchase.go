package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"myGreenCart/domain"
)

// A product is due when days since its last purchase falls inside
// [dueWindowLow*avg, dueWindowHigh*avg] of its average repurchase interval.
const (
	dueWindowLow  = 0.8
	dueWindowHigh = 1.5
)

// repurchaseCandidates recommends products this cart buys on a rhythm and is
// due to buy again. Score is the number of past purchases.
func (s *RecommendationService) repurchaseCandidates(ctx context.Context, req RecommendRequest, cart cartItems, k int) ([]domain.CandidateScore, error) {
	cartID := req.CartID
	history, err := s.purchases.Query(ctx, PurchaseFilter{CartID: &cartID})
	if err != nil {
		return nil, fmt.Errorf("load cart history: %w", err)
	}

	order := make([]uint64, 0)
	byProduct := make(map[uint64][]time.Time)
	for _, ev := range history {
		if _, ok := byProduct[ev.ProductID]; !ok {
			order = append(order, ev.ProductID)
		}
		byProduct[ev.ProductID] = append(byProduct[ev.ProductID], ev.OccurredAt)
	}

	now := s.now()
	scores := NewScoreMap()
	for _, pid := range order {
		if cart.set.has(pid) {
			continue
		}
		dates := byProduct[pid]
		avg, ok := averageIntervalDays(dates)
		if !ok {
			continue
		}
		since := daysBetween(dates[len(dates)-1], now)
		if since >= dueWindowLow*avg && since <= dueWindowHigh*avg {
			scores.Add(pid, float64(len(dates)))
		}
	}

	return toCandidates(scores.Top(k), domain.SourceRepurchase), nil
}

// averageIntervalDays sorts dates in place and returns the mean gap in days.
// It needs at least two dates.
func averageIntervalDays(dates []time.Time) (float64, bool) {
	if len(dates) < 2 {
		return 0, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	total := 0.0
	for i := 1; i < len(dates); i++ {
		total += daysBetween(dates[i-1], dates[i])
	}
	return total / float64(len(dates)-1), true
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
