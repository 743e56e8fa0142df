package weather

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Query is a parsed location request. Lat/Lon are set when the caller passed
// a "lat,lon" pair.
type Query struct {
	Text string
	Lat  *float64
	Lon  *float64
}

// ParseQuery trims location and detects a "lat,lon" coordinate pair.
func ParseQuery(location string) Query {
	q := Query{Text: strings.TrimSpace(location)}

	parts := strings.Split(q.Text, ",")
	if len(parts) != 2 {
		return q
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return q
	}
	q.Lat, q.Lon = &lat, &lon
	return q
}

// HasCoordinates reports whether the query is a coordinate pair.
func (q Query) HasCoordinates() bool { return q.Lat != nil && q.Lon != nil }

// RawCurrent is a provider's current-conditions record before normalization.
type RawCurrent struct {
	TempC      float64
	FeelsLikeC float64
	WindKph    float64
	Humidity   float64
	Phrase     string
}

// RawDay is a provider's daily record. Date may be in any format
// normalize.ParseDate understands.
type RawDay struct {
	Date        string
	TempMaxC    float64
	TempMinC    float64
	Phrase      string
	Description string
}

// RawHour is a provider's hourly record.
type RawHour struct {
	Time              time.Time
	TempC             float64
	PrecipProbability float64
}

// RawForecast is everything a Provider returns for one request.
type RawForecast struct {
	ResolvedName string
	// Zone is the location's local time zone; nil means UTC.
	Zone    *time.Location
	Current RawCurrent
	Days    []RawDay
	Hours   []RawHour
}

// Provider abstracts one third-party weather API. Implementations perform
// their HTTP calls sequentially and never retry; any failed step aborts the
// fetch with an upstream.UpstreamError or upstream.MalformedResponseError.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) (RawForecast, error)
}
