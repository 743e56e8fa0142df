package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/normalize"
	"github.com/i474232898/farm-dashboard/internal/upstream"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

// GeocodeFunc resolves free text to coordinates.
type GeocodeFunc func(ctx context.Context, text string) (lat, lon float64, err error)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. The forecast
// API itself is keyless; free-text locations are resolved through Google
// geocoding first.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *upstream.Client
	geocode GeocodeFunc
}

func NewOpenMeteoProvider(client *http.Client, geocoderKey string, logger *zap.Logger) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    OpenMeteo,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  upstream.NewClient(OpenMeteo, client, upstream.DefaultBreaker, logger),
		geocode: googleGeocoder(geocoderKey),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawForecast, error) {
	var lat, lon float64
	if q.HasCoordinates() {
		lat, lon = *q.Lat, *q.Lon
	} else {
		var err error
		if lat, lon, err = p.geocode(ctx, q.Text); err != nil {
			return weather.RawForecast{}, err
		}
	}

	values := url.Values{}
	values.Set("latitude", coordString(lat))
	values.Set("longitude", coordString(lon))
	values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m")
	values.Set("hourly", "temperature_2m,precipitation_probability")
	values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")
	values.Set("forecast_days", fmt.Sprint(weather.DailyDays))
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload struct {
		UTCOffsetSeconds int `json:"utc_offset_seconds"`
		Current          *struct {
			Temperature  float64 `json:"temperature_2m"`
			Humidity     float64 `json:"relative_humidity_2m"`
			ApparentTemp float64 `json:"apparent_temperature"`
			WeatherCode  int     `json:"weather_code"`
			WindSpeed10m float64 `json:"wind_speed_10m"`
		} `json:"current"`
		Hourly struct {
			Time          []int64   `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			PrecipProbPct []float64 `json:"precipitation_probability"`
		} `json:"hourly"`
		Daily *struct {
			Time        []int64   `json:"time"`
			WeatherCode []int     `json:"weather_code"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}

	if err := p.client.GetJSON(ctx, u, &payload); err != nil {
		return weather.RawForecast{}, err
	}
	if payload.Current == nil || payload.Daily == nil {
		return weather.RawForecast{}, upstream.Malformed(p.name, "missing current or daily")
	}
	d := payload.Daily
	if len(d.WeatherCode) != len(d.Time) || len(d.TempMax) != len(d.Time) || len(d.TempMin) != len(d.Time) {
		return weather.RawForecast{}, upstream.Malformed(p.name, "daily arrays differ in length")
	}

	zone := zoneFromOffset(payload.UTCOffsetSeconds)
	raw := weather.RawForecast{
		ResolvedName: q.Text,
		Zone:         zone,
		Current: weather.RawCurrent{
			TempC:      payload.Current.Temperature,
			FeelsLikeC: payload.Current.ApparentTemp,
			WindKph:    payload.Current.WindSpeed10m,
			Humidity:   payload.Current.Humidity,
			Phrase:     openMeteoPhrase(payload.Current.WeatherCode),
		},
	}

	for i, ts := range d.Time {
		raw.Days = append(raw.Days, weather.RawDay{
			Date:     time.Unix(ts, 0).In(zone).Format(normalize.ISODate),
			TempMaxC: d.TempMax[i],
			TempMinC: d.TempMin[i],
			Phrase:   openMeteoPhrase(d.WeatherCode[i]),
		})
	}

	h := payload.Hourly
	for i, ts := range h.Time {
		if i >= len(h.Temperature) {
			break
		}
		hour := weather.RawHour{Time: time.Unix(ts, 0).UTC(), TempC: h.Temperature[i]}
		if i < len(h.PrecipProbPct) {
			hour.PrecipProbability = h.PrecipProbPct[i]
		}
		raw.Hours = append(raw.Hours, hour)
	}

	return raw, nil
}

// openMeteoPhrase maps WMO weather codes to a condition phrase.
func openMeteoPhrase(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1 || code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "Snow"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// setGeocoderKey guards the geocoder package's global key, which is set once per
// process.
var setGeocoderKey sync.Once

// googleGeocoder resolves "city[, state], country" through the Google
// Geocoding API. The call is not context-aware.
func googleGeocoder(apiKey string) GeocodeFunc {
	if apiKey != "" {
		setGeocoderKey.Do(func() { geocoder.ApiKey = apiKey })
	}
	return func(_ context.Context, text string) (float64, float64, error) {
		if apiKey == "" {
			return 0, 0, missingKey(OpenMeteo, "GEOCODER_API_KEY")
		}

		loc, err := geocodeAddress(addressFromText(text))
		if err != nil {
			return 0, 0, &upstream.UpstreamError{Provider: "google-geocoding", Message: err.Error(), Err: err}
		}
		return loc.Latitude, loc.Longitude, nil
	}
}

// geocodeAddress indexes the first result without checking the slice, so an
// empty result set panics inside the library.
func geocodeAddress(addr geocoder.Address) (loc geocoder.Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("no geocoding result: %v", r)
		}
	}()
	return geocoder.Geocoding(addr)
}

func addressFromText(text string) geocoder.Address {
	var parts []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var addr geocoder.Address
	switch len(parts) {
	case 0:
	case 1:
		addr.City = parts[0]
	case 2:
		addr.City, addr.Country = parts[0], parts[1]
	default:
		addr.City = parts[0]
		addr.State = strings.Join(parts[1:len(parts)-1], ", ")
		addr.Country = parts[len(parts)-1]
	}
	return addr
}
