package weather

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/fallback"
	"github.com/i474232898/farm-dashboard/internal/normalize"
	"github.com/i474232898/farm-dashboard/internal/observability"
	"github.com/i474232898/farm-dashboard/internal/upstream"
)

// DefaultTTL is how long a successful fetch stays cached.
const DefaultTTL = 600 * time.Second

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	Clock       cache.Clock
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// Service is the weather flow: cache lookup, provider fetch, normalization
// and mock fallback. It holds no per-request state and is safe for concurrent
// use.
type Service struct {
	provider Provider
	cache    cache.Cache[Snapshot]
	guard    *fallback.Policy[Snapshot]
	ttl      time.Duration
	now      cache.Clock
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewService creates a new Service.
func NewService(provider Provider, c cache.Cache[Snapshot], opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FallbackTTL <= 0 {
		opts.FallbackTTL = fallback.MaxTTL
	}
	if opts.FallbackTTL > opts.TTL {
		opts.FallbackTTL = opts.TTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger.Named("weather")

	return &Service{
		provider: provider,
		cache:    c,
		guard:    fallback.New[Snapshot]("weather", c, opts.FallbackTTL, logger, opts.Metrics),
		ttl:      opts.TTL,
		now:      opts.Clock,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// GetWeather returns the canonical weather for location. It never fails: a
// provider error yields the mock Snapshot with IsFallback set.
func (s *Service) GetWeather(ctx context.Context, location string) Snapshot {
	key := normalize.LocationKey(location)

	if snap, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheResult("weather", true)
		return snap
	}
	s.metrics.CacheResult("weather", false)

	return s.guard.Guard(ctx, key, func(ctx context.Context) (Snapshot, error) {
		snap, err := s.fetch(ctx, location)
		if err != nil {
			return Snapshot{}, err
		}
		s.cache.Set(ctx, key, snap, s.ttl)
		return snap, nil
	}, func() Snapshot {
		return MockSnapshot(location, s.now())
	})
}

func (s *Service) fetch(ctx context.Context, location string) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, &upstream.UpstreamError{Provider: "none", Message: "no weather provider configured"}
	}

	raw, err := s.provider.Fetch(ctx, ParseQuery(location))
	if err != nil {
		return Snapshot{}, err
	}
	if len(raw.Days) == 0 {
		return Snapshot{}, upstream.Malformed(s.provider.Name(), "no daily forecast in response")
	}

	snap := Normalize(raw, location, s.provider.Name(), s.now())
	s.logger.Debug("weather fetched",
		zap.String("provider", snap.Provider),
		zap.String("location", snap.Location),
		zap.Int("days", len(raw.Days)),
		zap.Int("hours", len(snap.Hourly)))
	return snap, nil
}
