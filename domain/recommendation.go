package domain

import "time"

// Source algorithms of a CandidateScore.
const (
	SourceCoPurchase = "co_purchase"
	SourceRepurchase = "repurchase_interval"
	SourceTrending   = "trending"
	SourceFrequency  = "frequency"
)

// CandidateScore is produced per request by one signal generator. Never persisted.
type CandidateScore struct {
	ProductID uint64  `json:"product_id"`
	Score     float64 `json:"score"`
	Source    string  `json:"source"`
}

// ScoredProduct is a (product, score) pair kept inside cache entries.
type ScoredProduct struct {
	ProductID uint64  `json:"product_id"`
	Score     float64 `json:"score"`
}

// TrendingCacheEntry holds the global top-K for one calendar day.
type TrendingCacheEntry struct {
	Day        string          `json:"day"` // YYYY-MM-DD in the service time zone
	Items      []ScoredProduct `json:"items"`
	Depth      int             `json:"depth"`
	ComputedAt time.Time       `json:"computed_at"`
}

// ValidFor reports whether the entry was computed on the same calendar day as day.
func (e *TrendingCacheEntry) ValidFor(day string) bool {
	return e != nil && e.Day != "" && e.Day == day
}

// CoPurchaseCacheEntry holds the "bought after" scores of one source product.
type CoPurchaseCacheEntry struct {
	SourceProductID uint64          `json:"source_product_id"`
	Recommendations []ScoredProduct `json:"recommendations"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// ValidAt reports whether the entry is still inside ttl at now. A non-positive ttl never expires.
func (e *CoPurchaseCacheEntry) ValidAt(now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Before(e.ComputedAt.Add(ttl))
}

// Recommendation is one item returned to the caller.
type Recommendation struct {
	ProductID   uint64  `json:"product_id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Probability float64 `json:"probability"`
}
