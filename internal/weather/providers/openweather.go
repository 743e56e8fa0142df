package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/normalize"
	"github.com/i474232898/farm-dashboard/internal/upstream"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap:
// direct geocoding followed by a One Call request.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, logger *zap.Logger) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    OpenWeather,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		client:  upstream.NewClient(OpenWeather, client, upstream.DefaultBreaker, logger),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, missingKey(p.name, "OPENWEATHER_API_KEY")
	}

	lat, lon, name, err := p.geocode(ctx, q)
	if err != nil {
		return weather.RawForecast{}, err
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", coordString(lat))
	values.Set("lon", coordString(lon))
	values.Set("exclude", "minutely,alerts")
	u := fmt.Sprintf("%s/data/3.0/onecall?%s", p.baseURL, values.Encode())

	var payload struct {
		TimezoneOffset int `json:"timezone_offset"`
		Current        *struct {
			Temp      float64        `json:"temp"`
			FeelsLike float64        `json:"feels_like"`
			Humidity  float64        `json:"humidity"`
			WindSpeed float64        `json:"wind_speed"`
			Weather   []owmCondition `json:"weather"`
		} `json:"current"`
		Hourly []struct {
			Dt   int64   `json:"dt"`
			Temp float64 `json:"temp"`
			Pop  float64 `json:"pop"`
		} `json:"hourly"`
		Daily []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Summary string         `json:"summary"`
			Weather []owmCondition `json:"weather"`
		} `json:"daily"`
	}

	if err := p.client.GetJSON(ctx, u, &payload); err != nil {
		return weather.RawForecast{}, err
	}
	if payload.Current == nil || payload.Daily == nil {
		return weather.RawForecast{}, upstream.Malformed(p.name, "missing current or daily")
	}

	zone := zoneFromOffset(payload.TimezoneOffset)
	raw := weather.RawForecast{
		ResolvedName: name,
		Zone:         zone,
		Current: weather.RawCurrent{
			TempC:      payload.Current.Temp,
			FeelsLikeC: payload.Current.FeelsLike,
			// metric units report wind in m/s.
			WindKph:  payload.Current.WindSpeed * 3.6,
			Humidity: payload.Current.Humidity,
			Phrase:   conditionText(payload.Current.Weather),
		},
	}

	for _, d := range payload.Daily {
		raw.Days = append(raw.Days, weather.RawDay{
			Date:        time.Unix(d.Dt, 0).In(zone).Format(normalize.ISODate),
			TempMaxC:    d.Temp.Max,
			TempMinC:    d.Temp.Min,
			Phrase:      conditionText(d.Weather),
			Description: d.Summary,
		})
	}
	for _, h := range payload.Hourly {
		raw.Hours = append(raw.Hours, weather.RawHour{
			Time:              time.Unix(h.Dt, 0).UTC(),
			TempC:             h.Temp,
			PrecipProbability: h.Pop * 100,
		})
	}

	return raw, nil
}

func (p *OpenWeatherProvider) geocode(ctx context.Context, q weather.Query) (lat, lon float64, name string, err error) {
	if q.HasCoordinates() {
		return *q.Lat, *q.Lon, q.Text, nil
	}

	values := url.Values{}
	values.Set("q", q.Text)
	values.Set("limit", "1")
	values.Set("appid", p.apiKey)
	u := fmt.Sprintf("%s/geo/1.0/direct?%s", p.baseURL, values.Encode())

	var places []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := p.client.GetJSON(ctx, u, &places); err != nil {
		return 0, 0, "", err
	}
	if len(places) == 0 {
		return 0, 0, "", upstream.Malformed(p.name, "no location found for %q", q.Text)
	}

	pl := places[0]
	parts := []string{pl.Name}
	for _, s := range []string{pl.State, pl.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return pl.Lat, pl.Lon, strings.Join(parts, ", "), nil
}

// conditionText prefers the detailed description of the first condition.
func conditionText(items []owmCondition) string {
	if len(items) == 0 {
		return ""
	}
	if items[0].Description != "" {
		return capitalize(items[0].Description)
	}
	return items[0].Main
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
