package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationKeyIgnoresCaseAndWhitespace(t *testing.T) {
	variants := []string{
		"Delhi, India",
		" delhi, india ",
		"DELHI,INDIA",
		"delhi ,   india",
		"\tDelhi,\nIndia",
	}
	want := LocationKey(variants[0])
	assert.Equal(t, "delhi,india", want)

	for _, v := range variants {
		got := LocationKey(v)
		assert.Equal(t, want, got, "variant %q", v)
		assert.Equal(t, got, LocationKey(got), "key derivation must be idempotent")
	}
}

func TestLocationKeyLatLon(t *testing.T) {
	assert.Equal(t, "28.61,77.20", LocationKey(" 28.61 , 77.20"))
	assert.Equal(t, "new delhi,in", LocationKey("New   Delhi, IN"))
}

func TestCropKey(t *testing.T) {
	assert.Equal(t, "basmati rice", CropKey("  Basmati   RICE "))
}

func TestCropName(t *testing.T) {
	for _, in := range []string{"wheat", "WHEAT", " Wheat ", "wHeAt"} {
		assert.Equal(t, "Wheat", CropName(in))
	}
	assert.Equal(t, "Basmati Rice", CropName("  basmati   RICE "))
	assert.Equal(t, "Paddy(Dhan)(Common)", CropName("paddy(dhan)(common)"))
	assert.Equal(t, CropKey("onion"), CropKey(CropName("onion")))
}

func TestParseDateSupportedFormats(t *testing.T) {
	for _, raw := range []string{"2025-03-10", "10-03-2025", "10-Mar-2025", "10-MAR-2025", "10/03/2025", "2025-03-10T06:00:00+05:30"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2025-03-10", got.Format(ISODate), raw)
	}
}

func TestParseDateUnrecognized(t *testing.T) {
	_, err := ParseDate("sometime next week")
	require.Error(t, err)

	var nerr *NormalizationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "date", nerr.Field)
}

func TestDateOrTodayFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-01", DateOrToday("??", now))
	assert.Equal(t, "2025-03-10", DateOrToday("10-03-2025", now))
}

func TestParsePrice(t *testing.T) {
	cases := map[string]int{
		"₹1,234.50 approx": 1234,
		"2400":             2400,
		"Rs 1,950/-":       0,
		"approx":           0,
		"":                 0,
		"-150":             0,
		"1.2.3":            0,
		"NaN":              0,
		"  3100 ":          3100,
		"99999999999999":   0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParsePrice(raw), "raw %q", raw)
	}
}

func TestIconFor(t *testing.T) {
	cases := []struct {
		phrase string
		want   Icon
	}{
		{"Thunderstorms", IconCloudRain},
		{"Mostly cloudy w/ showers", IconCloudRain},
		{"Partly sunny w/ t-storms", IconCloudRain},
		{"Intermittent clouds and sun", IconCloudSun},
		{"Partly Cloudy", IconCloudSun},
		{"Overcast", IconCloudy},
		{"Snow", IconCloudy},
		{"Partly sunny w/ flurries", IconCloudy},
		{"Sleet", IconCloudy},
		{"Cloudy", IconCloudy},
		{"Windy", IconWind},
		{"Hot", IconSun},
		{"CLEAR", IconSun},
		{"Haze", IconSun},
		{"", IconSun},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IconFor(tc.phrase), tc.phrase)
	}
}
