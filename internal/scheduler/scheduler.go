// Package scheduler keeps the caches warm for the locations and crops the
// dashboard serves most.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

const (
	warmConcurrency = 4
	warmTimeout     = 30 * time.Second
)

// WeatherSource is the weather flow.
type WeatherSource interface {
	GetWeather(ctx context.Context, location string) weather.Snapshot
}

// PriceSource is the market price flow.
type PriceSource interface {
	GetMarketPrices(ctx context.Context, crop string) market.Prices
}

// Scheduler periodically refreshes the weather and price caches.
type Scheduler struct {
	scheduler *gocron.Scheduler
	weather   WeatherSource
	prices    PriceSource
	locations []string
	crops     []string
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(locations, crops []string, interval time.Duration, w WeatherSource, p PriceSource, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		weather:   w,
		prices:    p,
		locations: locations,
		crops:     crops,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}
}

// Start schedules the warm job and starts the underlying scheduler. The first
// run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 && len(s.crops) == 0 {
		s.logger.Info("no locations or crops configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		s.Warm(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm fetches every configured location and crop once. The flows never
// fail, so Warm reports only how many entries came back as fallbacks.
func (s *Scheduler) Warm(ctx context.Context) (fallbacks int) {
	start := time.Now()
	s.logger.Info("running cache warm job", zap.Int("locations", len(s.locations)), zap.Int("crops", len(s.crops)))

	results := make(chan bool, len(s.locations)+len(s.crops))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	if s.weather != nil {
		for _, loc := range s.locations {
			g.Go(func() error {
				results <- s.weather.GetWeather(ctx, loc).IsFallback
				return nil
			})
		}
	}
	if s.prices != nil {
		for _, crop := range s.crops {
			g.Go(func() error {
				results <- s.prices.GetMarketPrices(ctx, crop).IsFallback
				return nil
			})
		}
	}
	_ = g.Wait()
	close(results)

	for fb := range results {
		if fb {
			fallbacks++
		}
	}

	s.logger.Info("completed cache warm job", zap.Int("fallbacks", fallbacks), zap.Duration("took", time.Since(start)))
	return fallbacks
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
