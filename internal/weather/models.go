package weather

import "github.com/i474232898/farm-dashboard/internal/normalize"

// Icon is re-exported so API consumers only import this package.
type Icon = normalize.Icon

// Current holds the present conditions at the resolved location.
type Current struct {
	TempC        int    `json:"temp"`
	Condition    string `json:"condition"`
	Icon         Icon   `json:"icon"`
	FeelsLikeC   int    `json:"feelsLike"`
	WindSpeedKph int    `json:"windSpeed"`
	Humidity     int    `json:"humidity"`
}

// DailyForecast is one day of the canonical forecast. TempMinC <= TempMaxC.
type DailyForecast struct {
	Day         string `json:"day"`
	Date        string `json:"date"`
	TempC       int    `json:"temp"`
	Condition   string `json:"condition"`
	Icon        Icon   `json:"icon"`
	TempMaxC    int    `json:"temp_max"`
	TempMinC    int    `json:"temp_min"`
	Description string `json:"full_description"`
}

// HourlyForecast is one hour of the short-range forecast.
type HourlyForecast struct {
	Time              string `json:"time"`
	TempC             int    `json:"temp"`
	PrecipProbability int    `json:"precip"`
}

// Snapshot is the canonical weather payload served to the dashboard. Daily
// always holds DailyDays entries; Hourly holds at most HourlyLimit entries.
type Snapshot struct {
	Location    string           `json:"location"`
	CurrentTime string           `json:"currentTime"`
	LastUpdated string           `json:"lastUpdated"`
	Current     Current          `json:"current"`
	Daily       []DailyForecast  `json:"daily"`
	Hourly      []HourlyForecast `json:"hourly"`
	Provider    string           `json:"provider"`
	// IsFallback marks mock data served because the provider failed.
	IsFallback bool `json:"isFallback"`
}
