package weather

import (
	"time"

	"github.com/i474232898/farm-dashboard/internal/normalize"
)

// mockDays are the fixed daily values served when the provider fails.
var mockDays = []RawDay{
	{TempMaxC: 34, TempMinC: 27, Phrase: "Partly Cloudy"},
	{TempMaxC: 35, TempMinC: 27, Phrase: "Sunny"},
	{TempMaxC: 35, TempMinC: 26, Phrase: "Sunny"},
	{TempMaxC: 35, TempMinC: 26, Phrase: "Sunny"},
	{TempMaxC: 35, TempMinC: 26, Phrase: "Sunny"},
}

var mockHourly = []HourlyForecast{
	{Time: "10 AM", TempC: 31, PrecipProbability: 0},
	{Time: "1 PM", TempC: 33, PrecipProbability: 1},
	{Time: "4 PM", TempC: 33, PrecipProbability: 2},
	{Time: "7 PM", TempC: 32, PrecipProbability: 2},
	{Time: "10 PM", TempC: 30, PrecipProbability: 2},
	{Time: "1 AM", TempC: 28, PrecipProbability: 2},
	{Time: "4 AM", TempC: 27, PrecipProbability: 1},
	{Time: "7 AM", TempC: 28, PrecipProbability: 1},
}

// MockSnapshot is the deterministic substitute for a failed fetch. Values are
// fixed; only the day labels follow the calendar of now.
func MockSnapshot(location string, now time.Time) Snapshot {
	days := make([]DailyForecast, 0, len(mockDays))
	for i, d := range mockDays {
		d.Date = now.AddDate(0, 0, i).Format(normalize.ISODate)
		days = append(days, NormalizeDay(d, now))
	}

	hourly := make([]HourlyForecast, len(mockHourly))
	copy(hourly, mockHourly)

	return Snapshot{
		Location:    location,
		CurrentTime: "9:37 AM",
		LastUpdated: "Updated a few minutes ago (mock data)",
		Current: Current{
			TempC:        31,
			Condition:    "Haze",
			Icon:         normalize.IconSun,
			FeelsLikeC:   34,
			WindSpeedKph: 10,
			Humidity:     60,
		},
		Daily:      PadDaily(days, now),
		Hourly:     hourly,
		Provider:   "mock",
		IsFallback: true,
	}
}
