package recommendation

import (
	"sort"

	"myGreenCart/domain"
)

// ScoreMap accumulates scores per product and remembers the order in which
// products were first added. Ranking is by score descending with ties going
// to the earlier insertion.
type ScoreMap struct {
	order  []uint64
	scores map[uint64]float64
}

func NewScoreMap() *ScoreMap {
	return &ScoreMap{scores: make(map[uint64]float64)}
}

func (m *ScoreMap) Add(productID uint64, delta float64) {
	if _, ok := m.scores[productID]; !ok {
		m.order = append(m.order, productID)
	}
	m.scores[productID] += delta
}

func (m *ScoreMap) Score(productID uint64) (float64, bool) {
	v, ok := m.scores[productID]
	return v, ok
}

func (m *ScoreMap) Len() int {
	return len(m.order)
}

// Ranked returns every entry sorted by score descending, stable on insertion order.
func (m *ScoreMap) Ranked() []domain.ScoredProduct {
	out := make([]domain.ScoredProduct, 0, len(m.order))
	for _, pid := range m.order {
		out = append(out, domain.ScoredProduct{ProductID: pid, Score: m.scores[pid]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Top returns at most k ranked entries.
func (m *ScoreMap) Top(k int) []domain.ScoredProduct {
	ranked := m.Ranked()
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func toCandidates(items []domain.ScoredProduct, source string) []domain.CandidateScore {
	out := make([]domain.CandidateScore, 0, len(items))
	for _, it := range items {
		out = append(out, domain.CandidateScore{
			ProductID: it.ProductID,
			Score:     it.Score,
			Source:    source,
		})
	}
	return out
}

type productSet map[uint64]struct{}

func newProductSet(ids []uint64) productSet {
	s := make(productSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s productSet) has(id uint64) bool {
	_, ok := s[id]
	return ok
}

// cartItems is the cart content in insertion order plus a lookup set.
type cartItems struct {
	ids []uint64
	set productSet
}
