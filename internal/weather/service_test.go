package weather

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/upstream"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	queries []Query
	fetch   func(call int) (RawForecast, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(_ context.Context, q Query) (RawForecast, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.queries = append(p.queries, q)
	p.mu.Unlock()
	return p.fetch(call)
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, p Provider, clock *testClock) *Service {
	t.Helper()
	return NewService(p, cache.NewMemory[Snapshot](clock.Now), Options{
		TTL:         10 * time.Minute,
		FallbackTTL: time.Minute,
		Clock:       clock.Now,
		Logger:      zaptest.NewLogger(t),
	})
}

func fiveDayForecast(start time.Time, phrase string) RawForecast {
	raw := RawForecast{
		ResolvedName: "New Delhi, DL, IN",
		Current:      RawCurrent{TempC: 30.6, FeelsLikeC: 33.2, WindKph: 11.4, Humidity: 48, Phrase: "Mostly sunny"},
	}
	for i := 0; i < 5; i++ {
		raw.Days = append(raw.Days, RawDay{
			Date:     start.AddDate(0, 0, i).Format("2006-01-02"),
			TempMaxC: 35,
			TempMinC: 25,
			Phrase:   phrase,
		})
	}
	for i := -2; i < 12; i++ {
		raw.Hours = append(raw.Hours, RawHour{Time: start.Add(time.Duration(i) * time.Hour), TempC: 30, PrecipProbability: 10})
	}
	return raw
}

func TestGetWeatherFallsBackWhenProviderFails(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	p := &fakeProvider{fetch: func(int) (RawForecast, error) {
		return RawForecast{}, &upstream.UpstreamError{Provider: "fake", Status: 503, Message: "unavailable"}
	}}
	svc := newTestService(t, p, clock)

	snap := svc.GetWeather(context.Background(), "Nowhere")

	assert.True(t, snap.IsFallback)
	assert.Equal(t, "Nowhere", snap.Location)
	assert.Len(t, snap.Daily, DailyDays)
	assert.NotEmpty(t, snap.Hourly)
	assert.Equal(t, "Today", snap.Daily[0].Day)
}

func TestGetWeatherFallbackIsCachedBriefly(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	p := &fakeProvider{fetch: func(int) (RawForecast, error) {
		return RawForecast{}, &upstream.UpstreamError{Provider: "fake", Message: "dial tcp: timeout"}
	}}
	svc := newTestService(t, p, clock)
	ctx := context.Background()

	svc.GetWeather(ctx, "Nowhere")
	svc.GetWeather(ctx, "nowhere ")
	assert.Equal(t, 1, p.Calls(), "mock must be served from cache within the fallback TTL")

	clock.now = clock.now.Add(time.Minute)
	svc.GetWeather(ctx, "Nowhere")
	assert.Equal(t, 2, p.Calls(), "upstream must be retried once the fallback TTL passes")
}

func TestGetWeatherMalformedWithoutDays(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	p := &fakeProvider{fetch: func(int) (RawForecast, error) {
		return RawForecast{ResolvedName: "Somewhere"}, nil
	}}

	snap := newTestService(t, p, clock).GetWeather(context.Background(), "Somewhere")
	assert.True(t, snap.IsFallback)
}

func TestGetWeatherPadsToSevenDays(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	p := &fakeProvider{fetch: func(int) (RawForecast, error) {
		return fiveDayForecast(clock.now, "Thunderstorms"), nil
	}}

	snap := newTestService(t, p, clock).GetWeather(context.Background(), "Delhi")

	require.False(t, snap.IsFallback)
	require.Len(t, snap.Daily, DailyDays)
	last := snap.Daily[4]
	for _, d := range snap.Daily[5:] {
		assert.Equal(t, last.Condition, d.Condition)
		assert.Equal(t, last.TempMaxC, d.TempMaxC)
		assert.Equal(t, last.TempMinC, d.TempMinC)
		assert.Equal(t, last.Icon, d.Icon)
	}
	assert.Equal(t, "2025-03-15", snap.Daily[5].Date)
	assert.Equal(t, "Sun 16", snap.Daily[6].Day)
	assert.Equal(t, "New Delhi, DL, IN", snap.Location)
	assert.Equal(t, "fake", snap.Provider)
}

func TestGetWeatherHourlyStartsAtCurrentHour(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	p := &fakeProvider{fetch: func(int) (RawForecast, error) {
		return fiveDayForecast(start, "Sunny"), nil
	}}

	snap := newTestService(t, p, clock).GetWeather(context.Background(), "Delhi")

	require.Len(t, snap.Hourly, HourlyLimit)
	assert.Equal(t, "9 AM", snap.Hourly[0].Time)
	assert.Equal(t, "4 PM", snap.Hourly[7].Time)
}

func TestGetWeatherCachesByNormalizedKey(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	p := &fakeProvider{fetch: func(call int) (RawForecast, error) {
		phrase := "Sunny"
		if call > 1 {
			phrase = "Rain"
		}
		return fiveDayForecast(clock.now, phrase), nil
	}}
	svc := newTestService(t, p, clock)
	ctx := context.Background()

	first := svc.GetWeather(ctx, "Delhi, India")
	second := svc.GetWeather(ctx, " delhi,  INDIA ")
	assert.Equal(t, 1, p.Calls())
	assert.Equal(t, first, second)
	assert.Equal(t, "Delhi, India", p.queries[0].Text)

	clock.now = clock.now.Add(10 * time.Minute)
	third := svc.GetWeather(ctx, "Delhi, India")
	assert.Equal(t, 2, p.Calls())
	assert.Equal(t, "Rain", third.Daily[0].Condition)
}

func TestGetWeatherWithoutProvider(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)}
	snap := newTestService(t, nil, clock).GetWeather(context.Background(), "Pune")
	assert.True(t, snap.IsFallback)
}
