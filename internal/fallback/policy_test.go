package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/observability"
	"github.com/i474232898/farm-dashboard/internal/upstream"
)

func mockFor(key string) MockBuilder[string] {
	return func() string { return "mock:" + key }
}

func TestGuardReturnsProducerValue(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory[string](nil)
	p := New[string]("test", c, 30*time.Second, zaptest.NewLogger(t), nil)

	got := p.Guard(ctx, "delhi", func(context.Context) (string, error) { return "real", nil }, mockFor("delhi"))
	assert.Equal(t, "real", got)

	_, ok := c.Get(ctx, "delhi")
	assert.False(t, ok, "Guard only caches mock values; successful values are cached by the flow")
}

func TestGuardSubstitutesMockOnError(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctx := context.Background()
	c := cache.NewMemory[string](clock)
	metrics := observability.NewMetrics()
	p := New[string]("weather", c, 30*time.Second, zaptest.NewLogger(t), metrics)

	got := p.Guard(ctx, "nowhere", func(context.Context) (string, error) {
		return "", &upstream.UpstreamError{Provider: "x", Status: 503, Message: "down"}
	}, mockFor("nowhere"))
	assert.Equal(t, "mock:nowhere", got)

	cached, ok := c.Get(ctx, "nowhere")
	require.True(t, ok)
	assert.Equal(t, "mock:nowhere", cached)

	now = now.Add(30 * time.Second)
	_, ok = c.Get(ctx, "nowhere")
	assert.False(t, ok, "mock must expire after the short TTL")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Fallbacks.WithLabelValues("weather")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamFailures.WithLabelValues("weather", "upstream")))
}

func TestNewCapsTTL(t *testing.T) {
	c := cache.NewMemory[string](nil)
	assert.Equal(t, MaxTTL, New[string]("t", c, 10*time.Minute, nil, nil).TTL())
	assert.Equal(t, MaxTTL, New[string]("t", c, 0, nil, nil).TTL())
	assert.Equal(t, 15*time.Second, New[string]("t", c, 15*time.Second, nil, nil).TTL())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "upstream", errorKind(&upstream.UpstreamError{}))
	assert.Equal(t, "malformed", errorKind(upstream.Malformed("p", "no %s", "records")))
	assert.Equal(t, "other", errorKind(errors.New("boom")))
}
