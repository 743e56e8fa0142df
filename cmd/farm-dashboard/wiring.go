package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/advisor"
	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/config"
	"github.com/i474232898/farm-dashboard/internal/contact"
	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/observability"
	"github.com/i474232898/farm-dashboard/internal/weather"
	"github.com/i474232898/farm-dashboard/internal/weather/providers"
)

const contactMemoryLimit = 1000

// services is everything the commands need.
type services struct {
	weather *weather.Service
	market  *market.Service
	advisor *advisor.Advisor
	contact *contact.Service
	metrics *observability.Metrics

	closers []func() error
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("error during close", zap.Error(err))
		}
	}
}

// buildFlows wires the weather and market flows. The CLI lookups need only
// these.
func buildFlows(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*services, error) {
	s := &services{}
	if cfg.MetricsEnabled {
		s.metrics = observability.NewMetrics()
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	provider, err := providers.New(cfg.WeatherProvider, providers.Keys{
		AccuWeather:    cfg.AccuWeatherAPIKey,
		VisualCrossing: cfg.VisualCrossingKey,
		OpenWeather:    cfg.OpenWeatherAPIKey,
		WeatherAPI:     cfg.WeatherAPIKey,
		Geocoder:       cfg.GeocoderAPIKey,
	}, httpClient, logger)
	if err != nil {
		return nil, err
	}

	var (
		weatherCache cache.Cache[weather.Snapshot] = cache.NewMemory[weather.Snapshot](nil)
		marketCache  cache.Cache[market.Prices]    = cache.NewMemory[market.Prices](nil)
	)
	if cfg.CacheBackend == config.CacheRedis {
		client := cache.NewRedisClient(cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable; lookups will miss until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		weatherCache = cache.NewRedis[weather.Snapshot](client, "weather:", logger)
		marketCache = cache.NewRedis[market.Prices](client, "market:", logger)
		s.closers = append(s.closers, client.Close)
	}

	s.weather = weather.NewService(provider, weatherCache, weather.Options{
		TTL:         cfg.WeatherCacheTTL,
		FallbackTTL: cfg.FallbackCacheTTL,
		Logger:      logger,
		Metrics:     s.metrics,
	})
	s.market = market.NewService(market.NewDataGovProvider(httpClient, cfg.DataGovAPIKey, logger), marketCache, market.Options{
		TTL:         cfg.MarketCacheTTL,
		FallbackTTL: cfg.FallbackCacheTTL,
		Logger:      logger,
		Metrics:     s.metrics,
	})

	logger.Info("flows configured",
		zap.String("weather_provider", provider.Name()),
		zap.String("cache_backend", cfg.CacheBackend))
	return s, nil
}

// buildServices adds the advisor and contact services needed by the API.
func buildServices(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*services, error) {
	s, err := buildFlows(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var completer advisor.Completer
	if cfg.GeminiAPIKey != "" {
		c, err := advisor.NewGenAICompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		completer = c
	} else {
		logger.Warn("GEMINI_API_KEY not set; advisor endpoints will return 503")
	}
	s.advisor = advisor.New(completer, s.weather, s.market, logger)

	var store contact.Store = contact.NewMemoryStore(contactMemoryLimit)
	if cfg.DatabaseURL != "" {
		pg, err := contact.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, pg.Close)
		store = pg
	} else {
		logger.Warn("DATABASE_URL not set; contact messages are kept in memory")
	}
	s.contact = contact.NewService(store, logger)

	return s, nil
}
