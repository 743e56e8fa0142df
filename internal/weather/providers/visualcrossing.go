package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/upstream"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

// VisualCrossingProvider implements weather.Provider for the Visual Crossing
// timeline API, which returns current, daily and hourly data in one call.
type VisualCrossingProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func NewVisualCrossingProvider(client *http.Client, apiKey string, logger *zap.Logger) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		name:    VisualCrossing,
		apiKey:  apiKey,
		baseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		client:  upstream.NewClient(VisualCrossing, client, upstream.DefaultBreaker, logger),
	}
}

func (p *VisualCrossingProvider) Name() string {
	return p.name
}

func (p *VisualCrossingProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, missingKey(p.name, "VISUAL_CROSSING_API_KEY")
	}

	location := q.Text
	if q.HasCoordinates() {
		location = fmt.Sprintf("%s,%s", coordString(*q.Lat), coordString(*q.Lon))
	}
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("unitGroup", "metric")
	values.Set("include", "current,days,hours")
	values.Set("contentType", "json")
	u := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(location), values.Encode())

	var payload struct {
		ResolvedAddress   string   `json:"resolvedAddress"`
		TzOffset          float64  `json:"tzoffset"`
		CurrentConditions *struct {
			Temp       float64 `json:"temp"`
			FeelsLike  float64 `json:"feelslike"`
			Humidity   float64 `json:"humidity"`
			WindSpeed  float64 `json:"windspeed"`
			Conditions string  `json:"conditions"`
		} `json:"currentConditions"`
		Days []struct {
			Datetime    string  `json:"datetime"`
			TempMax     float64 `json:"tempmax"`
			TempMin     float64 `json:"tempmin"`
			Conditions  string  `json:"conditions"`
			Description string  `json:"description"`
			Hours       []struct {
				DatetimeEpoch int64   `json:"datetimeEpoch"`
				Temp          float64 `json:"temp"`
				PrecipProb    float64 `json:"precipprob"`
			} `json:"hours"`
		} `json:"days"`
	}

	if err := p.client.GetJSON(ctx, u, &payload); err != nil {
		return weather.RawForecast{}, err
	}
	if payload.CurrentConditions == nil || payload.Days == nil {
		return weather.RawForecast{}, upstream.Malformed(p.name, "missing currentConditions or days")
	}

	cur := payload.CurrentConditions
	raw := weather.RawForecast{
		ResolvedName: payload.ResolvedAddress,
		Zone:         zoneFromOffset(int(math.Round(payload.TzOffset * 3600))),
		Current: weather.RawCurrent{
			TempC:      cur.Temp,
			FeelsLikeC: cur.FeelsLike,
			WindKph:    cur.WindSpeed,
			Humidity:   cur.Humidity,
			Phrase:     cur.Conditions,
		},
	}

	for i, d := range payload.Days {
		if i < weather.DailyDays {
			raw.Days = append(raw.Days, weather.RawDay{
				Date:        d.Datetime,
				TempMaxC:    d.TempMax,
				TempMinC:    d.TempMin,
				Phrase:      d.Conditions,
				Description: d.Description,
			})
		}
		// Hours of the first two days cover the next eight hours.
		if i < 2 {
			for _, h := range d.Hours {
				raw.Hours = append(raw.Hours, weather.RawHour{
					Time:              time.Unix(h.DatetimeEpoch, 0).UTC(),
					TempC:             h.Temp,
					PrecipProbability: h.PrecipProb,
				})
			}
		}
	}

	return raw, nil
}
