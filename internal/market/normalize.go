package market

import (
	"sort"
	"strings"
	"time"

	"github.com/i474232898/farm-dashboard/internal/normalize"
)

// Normalize maps raw rows into PriceRecords ordered by date, newest first.
// A bad price becomes 0 and a bad date becomes today; neither drops the row.
func Normalize(crop string, rows []RawRecord, now time.Time) []PriceRecord {
	records := make([]PriceRecord, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Commodity)
		if name == "" {
			name = crop
		}
		records = append(records, PriceRecord{
			Crop:     name,
			PriceInr: normalize.ParsePrice(r.Price),
			Location: location(r.Market, r.State),
			Date:     normalize.DateOrToday(r.Date, now),
		})
	}

	// ISO dates sort lexically.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

func location(market, state string) string {
	var parts []string
	for _, s := range []string{market, state} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
