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

// AccuWeatherProvider implements weather.Provider for AccuWeather. A fetch is
// four sequential calls: location search, current conditions, 5-day daily
// forecast and 12-hour hourly forecast.
type AccuWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func NewAccuWeatherProvider(client *http.Client, apiKey string, logger *zap.Logger) *AccuWeatherProvider {
	return &AccuWeatherProvider{
		name:    AccuWeather,
		apiKey:  apiKey,
		baseURL: "http://dataservice.accuweather.com",
		client:  upstream.NewClient(AccuWeather, client, upstream.DefaultBreaker, logger),
	}
}

func (p *AccuWeatherProvider) Name() string {
	return p.name
}

type accuLocation struct {
	Key                string `json:"Key"`
	LocalizedName      string `json:"LocalizedName"`
	AdministrativeArea struct {
		ID string `json:"ID"`
	} `json:"AdministrativeArea"`
	Country struct {
		ID string `json:"ID"`
	} `json:"Country"`
	TimeZone struct {
		GmtOffset float64 `json:"GmtOffset"`
	} `json:"TimeZone"`
}

type accuMetric struct {
	Metric struct {
		Value float64 `json:"Value"`
	} `json:"Metric"`
}

func (p *AccuWeatherProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, missingKey(p.name, "ACCUWEATHER_API_KEY")
	}

	// 1) Resolve the location key.
	loc, err := p.resolve(ctx, q)
	if err != nil {
		return weather.RawForecast{}, err
	}

	name := loc.LocalizedName
	if loc.AdministrativeArea.ID != "" {
		name += ", " + loc.AdministrativeArea.ID
	}
	if loc.Country.ID != "" {
		name += ", " + loc.Country.ID
	}
	raw := weather.RawForecast{
		ResolvedName: name,
		Zone:         zoneFromOffset(int(math.Round(loc.TimeZone.GmtOffset * 3600))),
	}

	// 2) Current conditions.
	var current []struct {
		WeatherText         string     `json:"WeatherText"`
		Temperature         accuMetric `json:"Temperature"`
		RealFeelTemperature accuMetric `json:"RealFeelTemperature"`
		Wind                struct {
			Speed accuMetric `json:"Speed"`
		} `json:"Wind"`
		RelativeHumidity float64 `json:"RelativeHumidity"`
	}
	if err := p.client.GetJSON(ctx, p.url("/currentconditions/v1/"+loc.Key, url.Values{"details": {"true"}}), &current); err != nil {
		return weather.RawForecast{}, err
	}
	if len(current) == 0 {
		return weather.RawForecast{}, upstream.Malformed(p.name, "empty current conditions")
	}
	c := current[0]
	raw.Current = weather.RawCurrent{
		TempC:      c.Temperature.Metric.Value,
		FeelsLikeC: c.RealFeelTemperature.Metric.Value,
		WindKph:    c.Wind.Speed.Metric.Value,
		Humidity:   c.RelativeHumidity,
		Phrase:     c.WeatherText,
	}

	// 3) Daily forecast; the standard tier returns five days.
	var daily struct {
		DailyForecasts []struct {
			Date        string `json:"Date"`
			Temperature struct {
				Minimum struct {
					Value float64 `json:"Value"`
				} `json:"Minimum"`
				Maximum struct {
					Value float64 `json:"Value"`
				} `json:"Maximum"`
			} `json:"Temperature"`
			Day struct {
				IconPhrase string `json:"IconPhrase"`
				LongPhrase string `json:"LongPhrase"`
			} `json:"Day"`
		} `json:"DailyForecasts"`
	}
	if err := p.client.GetJSON(ctx, p.url("/forecasts/v1/daily/5day/"+loc.Key, url.Values{"metric": {"true"}}), &daily); err != nil {
		return weather.RawForecast{}, err
	}
	if daily.DailyForecasts == nil {
		return weather.RawForecast{}, upstream.Malformed(p.name, "missing DailyForecasts")
	}
	for _, d := range daily.DailyForecasts {
		raw.Days = append(raw.Days, weather.RawDay{
			Date:        d.Date,
			TempMaxC:    d.Temperature.Maximum.Value,
			TempMinC:    d.Temperature.Minimum.Value,
			Phrase:      d.Day.IconPhrase,
			Description: d.Day.LongPhrase,
		})
	}

	// 4) Hourly forecast.
	var hourly []struct {
		EpochDateTime int64 `json:"EpochDateTime"`
		Temperature   struct {
			Value float64 `json:"Value"`
		} `json:"Temperature"`
		PrecipitationProbability float64 `json:"PrecipitationProbability"`
	}
	if err := p.client.GetJSON(ctx, p.url("/forecasts/v1/hourly/12hour/"+loc.Key, url.Values{"metric": {"true"}}), &hourly); err != nil {
		return weather.RawForecast{}, err
	}
	for _, h := range hourly {
		raw.Hours = append(raw.Hours, weather.RawHour{
			Time:              time.Unix(h.EpochDateTime, 0).UTC(),
			TempC:             h.Temperature.Value,
			PrecipProbability: h.PrecipitationProbability,
		})
	}

	return raw, nil
}

func (p *AccuWeatherProvider) resolve(ctx context.Context, q weather.Query) (accuLocation, error) {
	if q.HasCoordinates() {
		var loc accuLocation
		params := url.Values{"q": {fmt.Sprintf("%s,%s", coordString(*q.Lat), coordString(*q.Lon))}}
		if err := p.client.GetJSON(ctx, p.url("/locations/v1/cities/geoposition/search", params), &loc); err != nil {
			return accuLocation{}, err
		}
		if loc.Key == "" {
			return accuLocation{}, upstream.Malformed(p.name, "no location for coordinates")
		}
		return loc, nil
	}

	var locs []accuLocation
	if err := p.client.GetJSON(ctx, p.url("/locations/v1/cities/search", url.Values{"q": {q.Text}}), &locs); err != nil {
		return accuLocation{}, err
	}
	if len(locs) == 0 || locs[0].Key == "" {
		return accuLocation{}, upstream.Malformed(p.name, "no location found for %q", q.Text)
	}
	return locs[0], nil
}

func (p *AccuWeatherProvider) url(path string, params url.Values) string {
	params.Set("apikey", p.apiKey)
	return fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
}
