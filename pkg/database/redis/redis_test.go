package redis

import (
	"testing"

	"myGreenCart/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(config.RedisConfig{Enabled: false, RedisHost: "localhost", RedisPort: "6379"})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Nil(t, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	// port 1 is never a redis server
	client, err := NewRedisClient(config.RedisConfig{Enabled: true, RedisHost: "127.0.0.1", RedisPort: "1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDisabled)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Nil(t, client)
}

func TestCloseRedisClient_Nil(t *testing.T) {
	assert.NoError(t, CloseRedisClient(nil))
}
