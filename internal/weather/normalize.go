package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/farm-dashboard/internal/normalize"
)

const (
	// DailyDays is the number of daily entries in every Snapshot.
	DailyDays = 7
	// HourlyLimit caps the hourly entries in a Snapshot.
	HourlyLimit = 8
)

// Normalize maps a provider payload into the canonical Snapshot. The caller
// guarantees raw.Days is non-empty.
func Normalize(raw RawForecast, query string, provider string, now time.Time) Snapshot {
	loc := raw.Zone
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	name := raw.ResolvedName
	if name == "" {
		name = query
	}

	days := make([]DailyForecast, 0, len(raw.Days))
	for _, d := range raw.Days {
		days = append(days, NormalizeDay(d, local))
	}

	return Snapshot{
		Location:    name,
		CurrentTime: local.Format("3:04 PM"),
		LastUpdated: "Updated just now",
		Current:     NormalizeCurrent(raw.Current),
		Daily:       PadDaily(days, local),
		Hourly:      NormalizeHours(raw.Hours, local),
		Provider:    provider,
	}
}

// NormalizeCurrent rounds the current-conditions record and picks its icon.
func NormalizeCurrent(c RawCurrent) Current {
	return Current{
		TempC:        round(c.TempC),
		Condition:    c.Phrase,
		Icon:         normalize.IconFor(c.Phrase),
		FeelsLikeC:   round(c.FeelsLikeC),
		WindSpeedKph: round(c.WindKph),
		Humidity:     clampPercent(c.Humidity),
	}
}

// NormalizeDay maps one provider day. An unparseable date is replaced by the
// date of now; inverted min/max temperatures are swapped.
func NormalizeDay(d RawDay, now time.Time) DailyForecast {
	date, err := normalize.ParseDate(d.Date)
	if err != nil {
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	hi, lo := d.TempMaxC, d.TempMinC
	if lo > hi {
		hi, lo = lo, hi
	}

	desc := d.Description
	if desc == "" {
		desc = d.Phrase
	}
	cond := d.Phrase
	if cond == "" {
		cond = desc
	}

	return DailyForecast{
		Day:         dayLabel(date, now),
		Date:        date.Format(normalize.ISODate),
		TempC:       round((hi + lo) / 2),
		Condition:   cond,
		Icon:        normalize.IconFor(cond),
		TempMaxC:    round(hi),
		TempMinC:    round(lo),
		Description: desc,
	}
}

// PadDaily returns exactly DailyDays entries: extra days are dropped and a
// short forecast is padded with copies of its last day, each dated one day
// after the previous entry.
func PadDaily(days []DailyForecast, now time.Time) []DailyForecast {
	if len(days) > DailyDays {
		days = days[:DailyDays]
	}
	out := make([]DailyForecast, len(days), DailyDays)
	copy(out, days)
	if len(out) == 0 {
		return out
	}

	for len(out) < DailyDays {
		next := out[len(out)-1]
		if d, err := time.Parse(normalize.ISODate, next.Date); err == nil {
			d = d.AddDate(0, 0, 1)
			next.Date = d.Format(normalize.ISODate)
			next.Day = dayLabel(d, now)
		} else {
			next.Day = fmt.Sprintf("+%d", len(out)+1)
		}
		out = append(out, next)
	}
	return out
}

// NormalizeHours keeps up to HourlyLimit entries starting at the current hour
// of now, in the zone of now.
func NormalizeHours(hours []RawHour, now time.Time) []HourlyForecast {
	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())

	out := make([]HourlyForecast, 0, HourlyLimit)
	for _, h := range hours {
		if len(out) == HourlyLimit {
			break
		}
		if h.Time.Before(start) {
			continue
		}
		out = append(out, HourlyForecast{
			Time:              h.Time.In(now.Location()).Format("3 PM"),
			TempC:             round(h.TempC),
			PrecipProbability: clampPercent(h.PrecipProbability),
		})
	}
	return out
}

// dayLabel renders "Today" for the date of now and "Mon 10" otherwise.
func dayLabel(date, now time.Time) string {
	if date.Year() == now.Year() && date.YearDay() == now.YearDay() {
		return "Today"
	}
	return fmt.Sprintf("%s %d", date.Format("Mon"), date.Day())
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func clampPercent(v float64) int {
	p := round(v)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
