package recommendation

import (
	"context"
	"testing"
	"time"

	"myGreenCart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepurchase_DueProducts(t *testing.T) {
	f := newFixture()
	f.purchases.events = []domain.PurchaseEvent{
		// every 10 days, last 9 days ago: due
		purchase(1, 20, 1, daysAgo(29)),
		purchase(1, 20, 1, daysAgo(19)),
		purchase(1, 20, 1, daysAgo(9)),
		// every 2 days, last 48 days ago: overdue
		purchase(1, 21, 1, daysAgo(50)),
		purchase(1, 21, 1, daysAgo(48)),
		// single purchase: no interval
		purchase(1, 22, 1, daysAgo(3)),
		// other cart
		purchase(2, 23, 1, daysAgo(20)),
		purchase(2, 23, 1, daysAgo(10)),
	}
	svc := f.service()

	got, err := svc.repurchaseCandidates(context.Background(), RecommendRequest{CartID: 1}, cartItems{set: productSet{}}, 10)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, uint64(20), got[0].ProductID)
	assert.Equal(t, 3.0, got[0].Score)
	assert.Equal(t, domain.SourceRepurchase, got[0].Source)
}

func TestRepurchase_SkipsInCartAndTooEarly(t *testing.T) {
	f := newFixture()
	f.purchases.events = []domain.PurchaseEvent{
		purchase(1, 20, 1, daysAgo(20)),
		purchase(1, 20, 1, daysAgo(10)),
		// every 10 days, last 2 days ago: too early
		purchase(1, 24, 1, daysAgo(12)),
		purchase(1, 24, 1, daysAgo(2)),
	}
	svc := f.service()

	cart := cartItems{ids: []uint64{20}, set: newProductSet([]uint64{20})}
	got, err := svc.repurchaseCandidates(context.Background(), RecommendRequest{CartID: 1}, cart, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAverageIntervalDays(t *testing.T) {
	_, ok := averageIntervalDays(nil)
	assert.False(t, ok)

	avg, ok := averageIntervalDays([]time.Time{daysAgo(0), daysAgo(6), daysAgo(2)})
	require.True(t, ok)
	assert.InDelta(t, 3.0, avg, 1e-9)
}
