package market

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

// DefaultTTL is how long fetched prices stay cached.
const DefaultTTL = 600 * time.Second

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	Clock       cache.Clock
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// Service is the market price flow.
type Service struct {
	provider Provider
	cache    cache.Cache[Prices]
	guard    *fallback.Policy[Prices]
	ttl      time.Duration
	now      cache.Clock
	logger   *zap.Logger
	metrics  *observability.Metrics
}

func NewService(provider Provider, c cache.Cache[Prices], opts Options) *Service {
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
	logger := opts.Logger.Named("market")

	return &Service{
		provider: provider,
		cache:    c,
		guard:    fallback.New[Prices]("market", c, opts.FallbackTTL, logger, opts.Metrics),
		ttl:      opts.TTL,
		now:      opts.Clock,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// GetMarketPrices returns the latest prices for crop. It never fails; provider
// errors yield MockPrices.
func (s *Service) GetMarketPrices(ctx context.Context, crop string) Prices {
	// The upstream commodity filter is exact, so every casing that shares a
	// cache key must also share the upstream request.
	crop = normalize.CropName(crop)
	key := normalize.CropKey(crop)

	if p, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheResult("market", true)
		return p
	}
	s.metrics.CacheResult("market", false)

	return s.guard.Guard(ctx, key, func(ctx context.Context) (Prices, error) {
		p, err := s.fetch(ctx, crop)
		if err != nil {
			return Prices{}, err
		}
		s.cache.Set(ctx, key, p, s.ttl)
		return p, nil
	}, func() Prices {
		return MockPrices(crop, s.now())
	})
}

func (s *Service) fetch(ctx context.Context, crop string) (Prices, error) {
	if s.provider == nil {
		return Prices{}, &upstream.UpstreamError{Provider: "none", Message: "no market provider configured"}
	}

	rows, err := s.provider.Fetch(ctx, crop)
	if err != nil {
		return Prices{}, err
	}

	p := Prices{Crop: crop, Records: Normalize(crop, rows, s.now())}
	s.logger.Debug("market prices fetched", zap.String("crop", crop), zap.Int("records", len(p.Records)))
	return p, nil
}
