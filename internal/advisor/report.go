package advisor

import (
	"context"
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultPricePerQuintal is used when no market price is available.
	DefaultPricePerQuintal = 2500
	trendMonths            = 6
)

type FarmReportInput struct {
	CropType       string  `json:"cropType" validate:"required"`
	FarmSize       float64 `json:"farmSize" validate:"gt=0"`
	LastYearsYield float64 `json:"lastYearsYield" validate:"gte=0"`
}

type MonthlyYield struct {
	Month string  `json:"month"`
	Yield float64 `json:"yield"`
}

type FarmReport struct {
	TotalRevenue   float64        `json:"totalRevenue"`
	CropHealth     float64        `json:"cropHealth"`
	YieldTrend     []MonthlyYield `json:"yieldTrend"`
	RevenueSummary string         `json:"revenueSummary"`
	HealthSummary  string         `json:"healthSummary"`
	MarketPrice    int            `json:"marketPrice"`
}

// FarmReport estimates revenue, crop health and a six month yield trend. The
// price is the first market record for the crop, or DefaultPricePerQuintal.
// Revenue is computed here rather than trusted from the model.
func (a *Advisor) FarmReport(ctx context.Context, in FarmReportInput) (FarmReport, error) {
	if !a.Available() {
		return FarmReport{}, ErrUnavailable
	}

	price := a.marketPrice(ctx, in.CropType)
	prompt, err := render(farmReportPrompt, struct {
		CropType, FarmSize, LastYearsYield string
		Price                              int
	}{in.CropType, formatNumber(in.FarmSize), formatNumber(in.LastYearsYield), price})
	if err != nil {
		return FarmReport{}, err
	}

	var out FarmReport
	if err := a.complete(ctx, Request{Name: "farmReport", Prompt: prompt, Schema: farmReportSchema}, &out); err != nil {
		return FarmReport{}, err
	}

	out.MarketPrice = price
	out.TotalRevenue = math.Round(in.LastYearsYield * float64(price))
	out.CropHealth = math.Min(math.Max(out.CropHealth, 0), 100)
	if len(out.YieldTrend) > trendMonths {
		out.YieldTrend = out.YieldTrend[:trendMonths]
	}
	return out, nil
}

func (a *Advisor) marketPrice(ctx context.Context, crop string) int {
	if a.prices == nil {
		return DefaultPricePerQuintal
	}
	p := a.prices.GetMarketPrices(ctx, crop)
	if len(p.Records) == 0 || p.Records[0].PriceInr <= 0 {
		return DefaultPricePerQuintal
	}
	if p.IsFallback {
		a.logger.Warn("using fallback market price in report", zap.String("crop", crop))
	}
	return p.Records[0].PriceInr
}
