package market

import (
	"time"

	"github.com/i474232898/farm-dashboard/internal/normalize"
)

// MockPrices is served when the price provider fails.
func MockPrices(crop string, now time.Time) Prices {
	today := now.Format(normalize.ISODate)
	return Prices{
		Crop: crop,
		Records: []PriceRecord{
			{Crop: crop, PriceInr: 2400, Location: "Delhi (Mock Data)", Date: today},
			{Crop: crop, PriceInr: 2350, Location: "Mumbai (Mock Data)", Date: today},
		},
		IsFallback: true,
	}
}
