package weather

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-dashboard/internal/normalize"
)

var monday = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestNormalizeDaySwapsInvertedTemperatures(t *testing.T) {
	d := NormalizeDay(RawDay{Date: "11-03-2025", TempMaxC: 21.4, TempMinC: 33.6, Phrase: "Showers"}, monday)

	assert.Equal(t, 34, d.TempMaxC)
	assert.Equal(t, 21, d.TempMinC)
	assert.LessOrEqual(t, d.TempMinC, d.TempMaxC)
	assert.Equal(t, 28, d.TempC)
	assert.Equal(t, normalize.IconCloudRain, d.Icon)
	assert.Equal(t, "Tue 11", d.Day)
	assert.Equal(t, "2025-03-11", d.Date)
	assert.Equal(t, "Showers", d.Description)
}

func TestNormalizeDayUnparseableDateUsesToday(t *testing.T) {
	d := NormalizeDay(RawDay{Date: "soon", TempMaxC: 30, TempMinC: 20, Description: "Clear skies"}, monday)

	assert.Equal(t, "Today", d.Day)
	assert.Equal(t, "2025-03-10", d.Date)
	assert.Equal(t, "Clear skies", d.Condition)
	assert.Equal(t, normalize.IconSun, d.Icon)
}

func TestPadDailyTruncatesLongForecasts(t *testing.T) {
	days := make([]DailyForecast, 10)
	for i := range days {
		days[i] = DailyForecast{Date: monday.AddDate(0, 0, i).Format(normalize.ISODate)}
	}
	assert.Len(t, PadDaily(days, monday), DailyDays)
	assert.Empty(t, PadDaily(nil, monday))
}

func TestPadDailyWithoutParseableDate(t *testing.T) {
	out := PadDaily([]DailyForecast{{Day: "Today", Condition: "Sunny"}}, monday)
	require.Len(t, out, DailyDays)
	assert.Equal(t, "+2", out[1].Day)
	assert.Equal(t, "+7", out[6].Day)
	assert.Equal(t, "Sunny", out[6].Condition)
}

func TestNormalizeHoursUsesLocalZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 3, 10, 14, 45, 0, 0, ist)
	var hours []RawHour
	for i := 0; i < 4; i++ {
		hours = append(hours, RawHour{
			Time:              time.Date(2025, 3, 10, 13+i, 0, 0, 0, ist).UTC(),
			TempC:             29.5,
			PrecipProbability: 140,
		})
	}

	out := NormalizeHours(hours, now)
	require.Len(t, out, 3)
	assert.Equal(t, "2 PM", out[0].Time)
	assert.Equal(t, "4 PM", out[2].Time)
	assert.Equal(t, 30, out[0].TempC)
	assert.Equal(t, 100, out[0].PrecipProbability)
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery(" 28.6139, 77.2090 ")
	require.True(t, q.HasCoordinates())
	assert.InDelta(t, 28.6139, *q.Lat, 1e-9)
	assert.InDelta(t, 77.2090, *q.Lon, 1e-9)

	assert.False(t, ParseQuery("Delhi, India").HasCoordinates())
	assert.False(t, ParseQuery("95, 200").HasCoordinates())
	assert.Equal(t, "Pune", ParseQuery("  Pune ").Text)
}

func TestMockSnapshotIsDeterministic(t *testing.T) {
	a := MockSnapshot("Pune", monday)
	b := MockSnapshot("Pune", monday)
	assert.Equal(t, a, b)
	assert.True(t, a.IsFallback)
	assert.Len(t, a.Daily, DailyDays)
	assert.Len(t, a.Hourly, HourlyLimit)
	assert.Equal(t, normalize.IconCloudSun, a.Daily[0].Icon)
}

func TestSummary(t *testing.T) {
	s := Summary(MockSnapshot("Pune", monday), 5)
	lines := strings.Split(s, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Current: Haze, 31°C, humidity 60%, wind 10 km/h.", lines[0])
	assert.Equal(t, "Today (2025-03-10): Partly Cloudy, 27-34°C.", lines[1])
	assert.Equal(t, "Rain chance over the next hours: up to 2%.", lines[6])
}
