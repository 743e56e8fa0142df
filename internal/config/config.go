package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/farm-dashboard/internal/fallback"
)

// Cache backends accepted in CACHE_BACKEND.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type AppConfig struct {
	Port        string
	LogLevel    string
	HTTPTimeout time.Duration

	// WeatherProvider selects one of the providers package names.
	WeatherProvider   string
	AccuWeatherAPIKey string
	VisualCrossingKey string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string
	DataGovAPIKey     string

	WeatherCacheTTL  time.Duration
	MarketCacheTTL   time.Duration
	FallbackCacheTTL time.Duration

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string

	GeminiAPIKey string
	GeminiModel  string

	// Warm-up job. Lists are separated by ";" since locations may contain
	// commas.
	WarmLocations []string
	WarmCrops     []string
	WarmInterval  time.Duration

	MetricsEnabled bool
}

// Load reads configuration from the environment, after loading .env if one
// exists.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            getenvDefault("PORT", "8080"),
		LogLevel:        getenvDefault("LOG_LEVEL", "info"),
		WeatherProvider: strings.ToLower(getenvDefault("WEATHER_PROVIDER", "accuweather")),

		VisualCrossingKey: os.Getenv("VISUAL_CROSSING_API_KEY"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		DataGovAPIKey:     os.Getenv("DATA_GOV_IN_API_KEY"),

		CacheBackend:  strings.ToLower(getenvDefault("CACHE_BACKEND", CacheMemory)),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		WarmLocations: getenvList("WARM_LOCATIONS"),
		WarmCrops:     getenvList("WARM_CROPS"),

		MetricsEnabled: getenvBool("METRICS_ENABLED", true),
	}

	// The AccuWeather key was historically shared with Visual Crossing.
	cfg.AccuWeatherAPIKey = getenvDefault("ACCUWEATHER_API_KEY", cfg.VisualCrossingKey)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	cfg.WeatherCacheTTL = time.Duration(getenvInt("WEATHER_CACHE_TTL_SECONDS", 600)) * time.Second
	cfg.MarketCacheTTL = time.Duration(getenvInt("MARKET_CACHE_TTL_SECONDS", 600)) * time.Second
	cfg.FallbackCacheTTL = time.Duration(getenvInt("FALLBACK_CACHE_TTL_SECONDS", 60)) * time.Second
	if cfg.FallbackCacheTTL > fallback.MaxTTL || cfg.FallbackCacheTTL <= 0 {
		cfg.FallbackCacheTTL = fallback.MaxTTL
	}

	switch cfg.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: want %q or %q", cfg.CacheBackend, CacheMemory, CacheRedis)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
