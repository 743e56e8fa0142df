// Package providers holds the weather.Provider implementations, one per
// supported third-party API. Exactly one is active per deployment.
package providers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/upstream"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

// Provider names accepted by New.
const (
	AccuWeather    = "accuweather"
	VisualCrossing = "visualcrossing"
	OpenWeather    = "openweather"
	WeatherAPI     = "weatherapi"
	OpenMeteo      = "openmeteo"
)

// Keys carries the API keys of every provider; only the selected one is used.
type Keys struct {
	AccuWeather    string
	VisualCrossing string
	OpenWeather    string
	WeatherAPI     string
	Geocoder       string
}

// New builds the provider selected by name.
func New(name string, keys Keys, httpClient *http.Client, logger *zap.Logger) (weather.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AccuWeather, "":
		return NewAccuWeatherProvider(httpClient, keys.AccuWeather, logger), nil
	case VisualCrossing:
		return NewVisualCrossingProvider(httpClient, keys.VisualCrossing, logger), nil
	case OpenWeather, "openweathermap":
		return NewOpenWeatherProvider(httpClient, keys.OpenWeather, logger), nil
	case WeatherAPI:
		return NewWeatherAPIProvider(httpClient, keys.WeatherAPI, logger), nil
	case OpenMeteo:
		return NewOpenMeteoProvider(httpClient, keys.Geocoder, logger), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}

func missingKey(provider, env string) error {
	return &upstream.UpstreamError{Provider: provider, Message: fmt.Sprintf("api key is not configured (%s)", env)}
}

// zoneFromOffset turns a UTC offset in seconds into a fixed zone.
func zoneFromOffset(seconds int) *time.Location {
	if seconds == 0 {
		return time.UTC
	}
	return time.FixedZone("", seconds)
}

// coordString formats a coordinate for query parameters.
func coordString(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
