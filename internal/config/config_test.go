package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8082", cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "redis", cfg.RealtimeTransport)
	assert.Equal(t, 15*time.Second, cfg.PingInterval)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")

	cfg := Load()
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
}

func TestDurationEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestIntEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	cfg := Load()
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}
