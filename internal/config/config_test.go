package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "WEATHER_PROVIDER", "ACCUWEATHER_API_KEY", "VISUAL_CROSSING_API_KEY",
		"CACHE_BACKEND", "WARM_INTERVAL", "HTTP_TIMEOUT", "FALLBACK_CACHE_TTL_SECONDS", "WARM_LOCATIONS", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "accuweather", cfg.WeatherProvider)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.WarmInterval)
	assert.Equal(t, 600*time.Second, cfg.WeatherCacheTTL)
	assert.Equal(t, time.Minute, cfg.FallbackCacheTTL)
	assert.Empty(t, cfg.WarmLocations)
	assert.True(t, cfg.MetricsEnabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "OpenMeteo")
	t.Setenv("ACCUWEATHER_API_KEY", "")
	t.Setenv("VISUAL_CROSSING_API_KEY", "vc-key")
	t.Setenv("FALLBACK_CACHE_TTL_SECONDS", "300")
	t.Setenv("WARM_LOCATIONS", "Delhi, India; ;Pune")
	t.Setenv("WARM_CROPS", "Wheat;Rice")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openmeteo", cfg.WeatherProvider)
	assert.Equal(t, "vc-key", cfg.AccuWeatherAPIKey)
	assert.Equal(t, time.Minute, cfg.FallbackCacheTTL, "fallback ttl is capped")
	assert.Equal(t, []string{"Delhi, India", "Pune"}, cfg.WarmLocations)
	assert.Equal(t, []string{"Wheat", "Rice"}, cfg.WarmCrops)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.MetricsEnabled)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("WARM_INTERVAL", "soon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "WARM_INTERVAL")

	t.Setenv("WARM_INTERVAL", "")
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "CACHE_BACKEND")
}
