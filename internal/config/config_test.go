package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "fantasy_golf", cfg.Mongo.Database)
	assert.Equal(t, 30*time.Second, cfg.Realtime.HeartbeatInterval)
	assert.Equal(t, float64(2), cfg.Realtime.LivenessMultiplier)
	assert.Equal(t, 5*time.Second, cfg.Realtime.FeedRestartBackoff)
	assert.Equal(t, 256, cfg.Realtime.SendBufferSize)
	assert.Equal(t, 2*time.Minute, cfg.Realtime.ChangeCacheWindow)
	assert.Nil(t, cfg.Realtime.InsignificantFields)
}

func TestLoad_RequiresMongoAndSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI is required")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_RealtimeOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RT_HEARTBEAT_INTERVAL", "10s")
	t.Setenv("RT_LIVENESS_MULTIPLIER", "3")
	t.Setenv("RT_INSIGNIFICANT_FIELDS", "syncedAt, importHash")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Realtime.HeartbeatInterval)
	assert.Equal(t, float64(3), cfg.Realtime.LivenessMultiplier)
	assert.Equal(t, []string{"syncedAt", "importHash"}, cfg.Realtime.InsignificantFields)
}

func TestValidate_RealtimeBounds(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RT_LIVENESS_MULTIPLIER", "0.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RT_LIVENESS_MULTIPLIER")
}
