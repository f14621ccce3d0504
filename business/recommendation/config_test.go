package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WithDefaults(t *testing.T) {
	// OnlineUpdates is an explicit switch and is not defaulted
	got := Config{OnlineUpdates: true}.withDefaults()
	assert.Equal(t, DefaultConfig(), got)
	assert.Equal(t, defaultCoPurchaseTTL, Config{}.withDefaults().CoPurchaseTTL)

	custom := Config{DefaultK: 3, CoPurchaseTTL: time.Hour, Location: time.UTC}.withDefaults()
	assert.Equal(t, 3, custom.DefaultK)
	assert.Equal(t, time.Hour, custom.CoPurchaseTTL)
	assert.Equal(t, time.UTC, custom.Location)
	assert.Equal(t, defaultRejectionRetention, custom.RejectionRetention)
}
