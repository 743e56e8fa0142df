package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

const (
	maxRecommendations = 3
	scheduleDays       = 7
	pestForecastDays   = 5
)

var riskLevels = []string{"Low", "Medium", "High"}

// WeatherSource supplies forecasts for the weather-aware flows.
type WeatherSource interface {
	GetWeather(ctx context.Context, location string) weather.Snapshot
}

// PriceSource supplies market prices for the farm report.
type PriceSource interface {
	GetMarketPrices(ctx context.Context, crop string) market.Prices
}

type CropAdviceInput struct {
	Location string  `json:"location" validate:"required"`
	SoilType string  `json:"soilType" validate:"required"`
	Budget   float64 `json:"budget" validate:"gt=0"`
	FarmSize float64 `json:"farmSize" validate:"gt=0"`
}

type CropRecommendation struct {
	Name            string `json:"name"`
	Reason          string `json:"reason"`
	EstimatedProfit string `json:"estimatedProfit"`
	SowingTime      string `json:"sowingTime"`
}

type CropAdvice struct {
	Recommendations []CropRecommendation `json:"recommendations"`
	Summary         string               `json:"summary"`
}

// FieldInput identifies a crop grown at a location.
type FieldInput struct {
	Location string `json:"location" validate:"required"`
	CropType string `json:"cropType" validate:"required"`
}

type PestRisk struct {
	Name               string `json:"name"`
	RiskLevel          string `json:"riskLevel"`
	Reason             string `json:"reason"`
	PreventativeAction string `json:"preventativeAction"`
}

type PestPrediction struct {
	Predictions []PestRisk `json:"predictions"`
	Summary     string     `json:"summary"`
}

type IrrigationDay struct {
	Day                    string `json:"day"`
	WateringRecommendation string `json:"wateringRecommendation"`
	Reason                 string `json:"reason"`
	EstimatedAmount        string `json:"estimatedAmount"`
}

type IrrigationSchedule struct {
	Schedule []IrrigationDay `json:"schedule"`
	Summary  string          `json:"summary"`
}

// Advisor runs the generative flows. A nil completer makes every flow return
// ErrUnavailable.
type Advisor struct {
	completer Completer
	weather   WeatherSource
	prices    PriceSource
	logger    *zap.Logger
}

// New creates an Advisor. Either source may be nil; prompts then go without
// forecasts or use the default price.
func New(completer Completer, forecasts WeatherSource, prices PriceSource, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{completer: completer, weather: forecasts, prices: prices, logger: logger.Named("advisor")}
}

// Available reports whether a completion service is configured.
func (a *Advisor) Available() bool {
	return a != nil && a.completer != nil
}

func (a *Advisor) CropAdvice(ctx context.Context, in CropAdviceInput) (CropAdvice, error) {
	prompt, err := render(cropAdvicePrompt, struct {
		Location, SoilType string
		Budget, FarmSize   string
	}{in.Location, in.SoilType, formatNumber(in.Budget), formatNumber(in.FarmSize)})
	if err != nil {
		return CropAdvice{}, err
	}

	var out CropAdvice
	if err := a.complete(ctx, Request{Name: "cropAdvice", Prompt: prompt, Schema: cropAdviceSchema}, &out); err != nil {
		return CropAdvice{}, err
	}
	if len(out.Recommendations) > maxRecommendations {
		out.Recommendations = out.Recommendations[:maxRecommendations]
	}
	return out, nil
}

func (a *Advisor) PestPrediction(ctx context.Context, in FieldInput) (PestPrediction, error) {
	if !a.Available() {
		return PestPrediction{}, ErrUnavailable
	}
	prompt, err := render(pestPredictionPrompt, a.fieldPromptData(ctx, in, pestForecastDays))
	if err != nil {
		return PestPrediction{}, err
	}

	var out PestPrediction
	if err := a.complete(ctx, Request{Name: "pestPrediction", Prompt: prompt, Schema: pestPredictionSchema}, &out); err != nil {
		return PestPrediction{}, err
	}
	for i, p := range out.Predictions {
		level, ok := canonical(p.RiskLevel, riskLevels)
		if !ok {
			return PestPrediction{}, &CompletionError{Flow: "pestPrediction", Reason: fmt.Sprintf("invalid risk level %q", p.RiskLevel)}
		}
		out.Predictions[i].RiskLevel = level
	}
	return out, nil
}

func (a *Advisor) IrrigationSchedule(ctx context.Context, in FieldInput) (IrrigationSchedule, error) {
	if !a.Available() {
		return IrrigationSchedule{}, ErrUnavailable
	}
	prompt, err := render(irrigationPrompt, a.fieldPromptData(ctx, in, scheduleDays))
	if err != nil {
		return IrrigationSchedule{}, err
	}

	var out IrrigationSchedule
	if err := a.complete(ctx, Request{Name: "irrigationSchedule", Prompt: prompt, Schema: irrigationSchema}, &out); err != nil {
		return IrrigationSchedule{}, err
	}
	if len(out.Schedule) > scheduleDays {
		out.Schedule = out.Schedule[:scheduleDays]
	}
	return out, nil
}

type fieldPrompt struct {
	Location, CropType, Forecast string
}

func (a *Advisor) fieldPromptData(ctx context.Context, in FieldInput, days int) fieldPrompt {
	forecast := "Not available."
	if a.weather != nil {
		snap := a.weather.GetWeather(ctx, in.Location)
		forecast = weather.Summary(snap, days)
		if snap.IsFallback {
			a.logger.Warn("using fallback weather in prompt", zap.String("location", in.Location))
		}
	}
	return fieldPrompt{Location: in.Location, CropType: in.CropType, Forecast: forecast}
}

func (a *Advisor) complete(ctx context.Context, req Request, out any) error {
	if !a.Available() {
		return ErrUnavailable
	}
	if err := a.completer.Complete(ctx, req, out); err != nil {
		a.logger.Error("completion failed", zap.String("flow", req.Name), zap.Error(err))
		var cerr *CompletionError
		if errors.As(err, &cerr) {
			return err
		}
		return &CompletionError{Flow: req.Name, Reason: "complete", Err: err}
	}
	return nil
}

// canonical returns the member of allowed equal to value ignoring case.
func canonical(value string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(value), a) {
			return a, true
		}
	}
	return "", false
}

// formatNumber drops a zero fraction so prompts read "₹25000", not "₹25000.00".
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
