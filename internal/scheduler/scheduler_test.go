package scheduler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

type recorder struct {
	mu       sync.Mutex
	seen     []string
	inFlight int32
	peak     int32
}

func (r *recorder) enter(key string) {
	n := atomic.AddInt32(&r.inFlight, 1)
	for {
		p := atomic.LoadInt32(&r.peak)
		if n <= p || atomic.CompareAndSwapInt32(&r.peak, p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&r.inFlight, -1)

	r.mu.Lock()
	r.seen = append(r.seen, key)
	r.mu.Unlock()
}

func (r *recorder) GetWeather(_ context.Context, location string) weather.Snapshot {
	r.enter("w:" + location)
	return weather.Snapshot{Location: location, IsFallback: location == "Atlantis"}
}

func (r *recorder) GetMarketPrices(_ context.Context, crop string) market.Prices {
	r.enter("p:" + crop)
	return market.Prices{Crop: crop}
}

func TestWarmVisitsEveryEntryWithBoundedConcurrency(t *testing.T) {
	rec := &recorder{}
	locations := []string{"Delhi", "Pune", "Atlantis", "Nashik", "Indore", "Jaipur"}
	crops := []string{"Wheat", "Rice", "Onion"}
	s := New(locations, crops, time.Minute, rec, rec, zaptest.NewLogger(t))

	fallbacks := s.Warm(context.Background())
	assert.Equal(t, 1, fallbacks)

	sort.Strings(rec.seen)
	assert.Len(t, rec.seen, 9)
	assert.Contains(t, rec.seen, "w:Atlantis")
	assert.Contains(t, rec.seen, "p:Onion")
	assert.LessOrEqual(t, atomic.LoadInt32(&rec.peak), int32(warmConcurrency))
}

func TestStartWithNothingConfigured(t *testing.T) {
	s := New(nil, nil, time.Minute, nil, nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestStartRunsImmediately(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"Delhi"}, nil, time.Hour, rec, nil, zaptest.NewLogger(t))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.seen) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
