package weather

import (
	"fmt"
	"strings"
)

// Summary renders the first n days of a Snapshot as one line per day, the
// form the advisory prompts expect.
func Summary(s Snapshot, n int) string {
	if n <= 0 || n > len(s.Daily) {
		n = len(s.Daily)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current: %s, %d°C, humidity %d%%, wind %d km/h.\n",
		s.Current.Condition, s.Current.TempC, s.Current.Humidity, s.Current.WindSpeedKph)
	for _, d := range s.Daily[:n] {
		fmt.Fprintf(&b, "%s (%s): %s, %d-%d°C.\n", d.Day, d.Date, d.Condition, d.TempMinC, d.TempMaxC)
	}
	if len(s.Hourly) > 0 {
		maxPrecip := 0
		for _, h := range s.Hourly {
			maxPrecip = max(maxPrecip, h.PrecipProbability)
		}
		fmt.Fprintf(&b, "Rain chance over the next hours: up to %d%%.\n", maxPrecip)
	}
	return strings.TrimRight(b.String(), "\n")
}
