// Package market serves commodity prices from Indian agricultural markets
// with the same cache and fallback composition as the weather flow.
package market

import "context"

// PriceRecord is one market's modal price for a crop, in INR per quintal.
type PriceRecord struct {
	Crop     string `json:"crop"`
	PriceInr int    `json:"price"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// Prices is the payload returned for a crop. Records are ordered newest
// first.
type Prices struct {
	Crop       string        `json:"crop"`
	Records    []PriceRecord `json:"records"`
	IsFallback bool          `json:"isFallback"`
}

// RawRecord is a provider row before normalization.
type RawRecord struct {
	Commodity string
	Market    string
	State     string
	Date      string
	Price     string
}

// Provider abstracts a commodity price API.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, crop string) ([]RawRecord, error)
}
