package recommendation

import "time"

type Config struct {
	// DefaultK is the per-generator result depth when the caller passes k <= 0.
	DefaultK int

	// feature extraction windows
	RecentWindow       time.Duration
	RejectionRetention time.Duration

	// co-purchase cache entries older than this are recomputed
	CoPurchaseTTL time.Duration

	// batch training
	LearningRate float64
	Iterations   int

	// per-action online updates
	OnlineUpdates      bool
	OnlineLearningRate float64

	// calendar days (trending cache, co-purchase date tiers) are taken in this zone
	Location *time.Location

	// trailing country names stripped from cart addresses
	CountrySuffixes []string

	// concurrent store availability lookups per request
	LookupConcurrency int
}

const (
	defaultK                  = 10
	defaultRecentWindow       = 30 * 24 * time.Hour
	defaultRejectionRetention = 7 * 24 * time.Hour
	defaultCoPurchaseTTL      = 7 * 24 * time.Hour
	defaultLearningRate       = 0.01
	defaultIterations         = 1000
	defaultOnlineLearningRate = 0.01
	defaultLookupConcurrency  = 8
)

func DefaultConfig() Config {
	return Config{
		DefaultK:           defaultK,
		RecentWindow:       defaultRecentWindow,
		RejectionRetention: defaultRejectionRetention,
		CoPurchaseTTL:      defaultCoPurchaseTTL,
		LearningRate:       defaultLearningRate,
		Iterations:         defaultIterations,
		OnlineUpdates:      true,
		OnlineLearningRate: defaultOnlineLearningRate,
		Location:           time.Local,
		LookupConcurrency:  defaultLookupConcurrency,
	}
}

// withDefaults fills zero fields so a partially built Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultK <= 0 {
		c.DefaultK = d.DefaultK
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = d.RecentWindow
	}
	if c.RejectionRetention <= 0 {
		c.RejectionRetention = d.RejectionRetention
	}
	if c.CoPurchaseTTL <= 0 {
		c.CoPurchaseTTL = d.CoPurchaseTTL
	}
	if c.LearningRate <= 0 {
		c.LearningRate = d.LearningRate
	}
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.OnlineLearningRate <= 0 {
		c.OnlineLearningRate = d.OnlineLearningRate
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.LookupConcurrency <= 0 {
		c.LookupConcurrency = d.LookupConcurrency
	}
	return c
}
