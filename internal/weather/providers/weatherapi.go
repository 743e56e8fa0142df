package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/upstream"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com using the
// single forecast.json call.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *upstream.Client
	logger  *zap.Logger
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, logger *zap.Logger) *WeatherAPIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherAPIProvider{
		name:    WeatherAPI,
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		client:  upstream.NewClient(WeatherAPI, client, upstream.DefaultBreaker, logger),
		logger:  logger.Named("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, missingKey(p.name, "WEATHERAPI_API_KEY")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts free text or "lat,lon".
	if q.HasCoordinates() {
		values.Set("q", fmt.Sprintf("%s,%s", coordString(*q.Lat), coordString(*q.Lon)))
	} else {
		values.Set("q", q.Text)
	}
	values.Set("days", fmt.Sprint(weather.DailyDays))
	values.Set("aqi", "no")
	values.Set("alerts", "no")
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload struct {
		Location *struct {
			Name    string `json:"name"`
			Region  string `json:"region"`
			Country string `json:"country"`
			TzID    string `json:"tz_id"`
		} `json:"location"`
		Current *struct {
			TempC      float64             `json:"temp_c"`
			FeelsLikeC float64             `json:"feelslike_c"`
			WindKph    float64             `json:"wind_kph"`
			Humidity   float64             `json:"humidity"`
			Condition  weatherAPICondition `json:"condition"`
		} `json:"current"`
		Forecast *struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC  float64             `json:"maxtemp_c"`
					MinTempC  float64             `json:"mintemp_c"`
					Condition weatherAPICondition `json:"condition"`
				} `json:"day"`
				Hour []struct {
					TimeEpoch    int64   `json:"time_epoch"`
					TempC        float64 `json:"temp_c"`
					ChanceOfRain float64 `json:"chance_of_rain"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := p.client.GetJSON(ctx, u, &payload); err != nil {
		return weather.RawForecast{}, err
	}
	if payload.Location == nil || payload.Current == nil || payload.Forecast == nil {
		return weather.RawForecast{}, upstream.Malformed(p.name, "missing location, current or forecast")
	}

	zone := time.UTC
	if payload.Location.TzID != "" {
		if tz, err := time.LoadLocation(payload.Location.TzID); err == nil {
			zone = tz
		} else {
			p.logger.Debug("unknown time zone; using UTC", zap.String("tz", payload.Location.TzID), zap.Error(err))
		}
	}

	var parts []string
	for _, s := range []string{payload.Location.Name, payload.Location.Region, payload.Location.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}

	cur := payload.Current
	raw := weather.RawForecast{
		ResolvedName: strings.Join(parts, ", "),
		Zone:         zone,
		Current: weather.RawCurrent{
			TempC:      cur.TempC,
			FeelsLikeC: cur.FeelsLikeC,
			WindKph:    cur.WindKph,
			Humidity:   cur.Humidity,
			Phrase:     strings.TrimSpace(cur.Condition.Text),
		},
	}

	for _, d := range payload.Forecast.ForecastDay {
		raw.Days = append(raw.Days, weather.RawDay{
			Date:     d.Date,
			TempMaxC: d.Day.MaxTempC,
			TempMinC: d.Day.MinTempC,
			Phrase:   strings.TrimSpace(d.Day.Condition.Text),
		})
		for _, h := range d.Hour {
			raw.Hours = append(raw.Hours, weather.RawHour{
				Time:              time.Unix(h.TimeEpoch, 0).UTC(),
				TempC:             h.TempC,
				PrecipProbability: h.ChanceOfRain,
			})
		}
	}

	return raw, nil
}
