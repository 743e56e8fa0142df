// Package fallback turns provider failures into deterministic mock payloads
// so that dashboard flows always have something to render.
package fallback

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/observability"
	"github.com/i474232898/farm-dashboard/internal/upstream"
)

// MaxTTL caps how long a mock payload may be cached, so a recovered upstream
// is retried soon.
const MaxTTL = 60 * time.Second

// Producer fetches the real value for one request.
type Producer[T any] func(ctx context.Context) (T, error)

// MockBuilder builds the deterministic substitute for one request.
type MockBuilder[T any] func() T

// Policy wraps producers for one flow.
type Policy[T any] struct {
	flow    string
	cache   cache.Cache[T]
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New creates a Policy that caches mock values for ttl, capped at MaxTTL.
// metrics may be nil.
func New[T any](flow string, c cache.Cache[T], ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Policy[T] {
	if ttl <= 0 || ttl > MaxTTL {
		ttl = MaxTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy[T]{
		flow:    flow,
		cache:   c,
		ttl:     ttl,
		logger:  logger.Named("fallback").With(zap.String("flow", flow)),
		metrics: metrics,
	}
}

// TTL returns the effective cache lifetime of mock values.
func (p *Policy[T]) TTL() time.Duration { return p.ttl }

// Guard runs produce and returns its value. Any error is logged and replaced by
// the value of mock, which is cached under key with the short TTL. Guard never
// fails.
func (p *Policy[T]) Guard(ctx context.Context, key string, produce Producer[T], mock MockBuilder[T]) T {
	v, err := produce(ctx)
	if err == nil {
		return v
	}

	p.logger.Error("provider fetch failed; serving mock data",
		zap.String("key", key),
		zap.String("kind", errorKind(err)),
		zap.Error(err))
	if p.metrics != nil {
		p.metrics.UpstreamFailures.WithLabelValues(p.flow, errorKind(err)).Inc()
		p.metrics.Fallbacks.WithLabelValues(p.flow).Inc()
	}

	v = mock()
	p.cache.Set(ctx, key, v, p.ttl)
	return v
}

func errorKind(err error) string {
	var uerr *upstream.UpstreamError
	var merr *upstream.MalformedResponseError
	switch {
	case errors.As(err, &uerr):
		return "upstream"
	case errors.As(err, &merr):
		return "malformed"
	default:
		return "other"
	}
}
