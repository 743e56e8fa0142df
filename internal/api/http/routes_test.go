package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-dashboard/internal/advisor"
	"github.com/i474232898/farm-dashboard/internal/cache"
	"github.com/i474232898/farm-dashboard/internal/contact"
	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/normalize"
	"github.com/i474232898/farm-dashboard/internal/observability"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type stubWeather struct{ got string }

func (s *stubWeather) GetWeather(_ context.Context, location string) weather.Snapshot {
	s.got = location
	return weather.MockSnapshot(location, fixedNow)
}

type stubPrices struct{}

func (stubPrices) GetMarketPrices(_ context.Context, crop string) market.Prices {
	return market.MockPrices(crop, fixedNow)
}

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(_ context.Context, _ advisor.Request, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.reply), out)
}

func newTestApp(t *testing.T, completer advisor.Completer) (*fiber.App, *stubWeather) {
	t.Helper()
	w := &stubWeather{}
	var adv *advisor.Advisor
	if completer != nil {
		adv = advisor.New(completer, w, stubPrices{}, nil)
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Weather: w,
		Prices:  stubPrices{},
		Advisor: adv,
		Contact: contact.NewService(contact.NewMemoryStore(0), nil),
		Metrics: observability.NewMetrics().Handler(),
	})
	return app, w
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &payload)
	return resp, payload
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, nil)
	resp, body := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryValuesSurviveLaterRequests(t *testing.T) {
	ctx := context.Background()
	weatherCache := cache.NewMemory[weather.Snapshot](nil)
	priceCache := cache.NewMemory[market.Prices](nil)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Weather: weather.NewService(nil, weatherCache, weather.Options{TTL: time.Hour}),
		Prices:  market.NewService(nil, priceCache, market.Options{TTL: time.Hour}),
		Contact: contact.NewService(contact.NewMemoryStore(0), nil),
	})

	for _, loc := range []string{"aaaaa", "bbbbb", "ccccc"} {
		resp, _ := do(t, app, http.MethodGet, "/api/v1/weather?location="+loc, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	for _, crop := range []string{"wheat", "maize", "onion"} {
		resp, _ := do(t, app, http.MethodGet, "/api/v1/market/prices?crop="+crop, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	for _, loc := range []string{"aaaaa", "bbbbb", "ccccc"} {
		snap, ok := weatherCache.Get(ctx, loc)
		require.True(t, ok, "location %q unreachable", loc)
		assert.Equal(t, loc, snap.Location)
	}
	assert.Equal(t, 3, weatherCache.Len())

	for _, crop := range []string{"wheat", "maize", "onion"} {
		p, ok := priceCache.Get(ctx, crop)
		require.True(t, ok, "crop %q unreachable", crop)
		assert.Equal(t, normalize.CropName(crop), p.Crop)
	}
	assert.Equal(t, 3, priceCache.Len())
}

func TestWeatherRequiresLocation(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?location=%20%20", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["error"])
}

func TestWeatherReturnsSnapshot(t *testing.T) {
	app, w := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?location=New%20Delhi", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "New Delhi", w.got)
	assert.Equal(t, true, body["isFallback"])
	daily, ok := body["daily"].([]any)
	require.True(t, ok)
	assert.Len(t, daily, weather.DailyDays)
	first := daily[0].(map[string]any)
	assert.Contains(t, first, "temp_max")
	assert.Contains(t, first, "full_description")
}

func TestMarketPrices(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/market/prices", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/api/v1/market/prices?crop=Wheat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Wheat", body["crop"])
	records := body["records"].([]any)
	assert.Equal(t, float64(2400), records[0].(map[string]any)["price"])
}

func TestAdvisorUnavailable(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, _ := do(t, app, http.MethodPost, "/api/v1/advisor/crops", `{"location":"Jaipur","soilType":"Sandy","budget":1000,"farmSize":2}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAdvisorCrops(t *testing.T) {
	app, _ := newTestApp(t, stubCompleter{reply: `{"recommendations":[{"name":"Bajra"}],"summary":"dryland"}`})

	resp, body := do(t, app, http.MethodPost, "/api/v1/advisor/crops", `{"location":"Jaipur","soilType":"Sandy","budget":1000,"farmSize":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dryland", body["summary"])

	resp, _ = do(t, app, http.MethodPost, "/api/v1/advisor/crops", `{"location":"Jaipur"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdvisorCompletionFailureIsBadGateway(t *testing.T) {
	app, _ := newTestApp(t, stubCompleter{err: errors.New("deadline exceeded")})

	resp, _ := do(t, app, http.MethodPost, "/api/v1/advisor/irrigation", `{"location":"Nashik","cropType":"Grapes"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestAdvisorPests(t *testing.T) {
	app, w := newTestApp(t, stubCompleter{reply: `{"predictions":[{"name":"Thrips","riskLevel":"Medium"}],"summary":"s"}`})

	resp, body := do(t, app, http.MethodPost, "/api/v1/advisor/pests", `{"location":"Nashik","cropType":"Onion"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nashik", w.got)
	assert.Len(t, body["predictions"], 1)
}

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAAA="

func TestAdvisorFarmReportUsesMarketPrice(t *testing.T) {
	app, _ := newTestApp(t, stubCompleter{reply: `{"totalRevenue":1,"cropHealth":91,"yieldTrend":[{"month":"January","yield":20}],"revenueSummary":"r","healthSummary":"h"}`})

	resp, body := do(t, app, http.MethodPost, "/api/v1/advisor/report", `{"cropType":"Wheat","farmSize":5,"lastYearsYield":100}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2400), body["marketPrice"])
	assert.Equal(t, float64(240000), body["totalRevenue"])

	resp, _ = do(t, app, http.MethodPost, "/api/v1/advisor/report", `{"cropType":"Wheat","farmSize":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdvisorPhotoFlows(t *testing.T) {
	app, _ := newTestApp(t, stubCompleter{reply: `{"identification":{"weedName":"Parthenium","confidence":0.8},"controlMethods":[{"type":"manual","name":"Uproot"}]}`})

	resp, body := do(t, app, http.MethodPost, "/api/v1/advisor/weed", `{"photoDataUri":"`+pngDataURI+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	methods := body["controlMethods"].([]any)
	assert.Equal(t, "Manual", methods[0].(map[string]any)["type"])

	resp, body = do(t, app, http.MethodPost, "/api/v1/advisor/crop-problem", `{"photoDataUri":"data:image/png;base64,aGVsbG8sIG5vdCBhbiBpbWFnZQ=="}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "invalid image")

	resp, _ = do(t, app, http.MethodPost, "/api/v1/advisor/soil", `{"photoDataUri":"`+pngDataURI+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContact(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, body := do(t, app, http.MethodPost, "/api/v1/contact", `{"name":"Ravi","email":"ravi@example.in","subject":"Hi","message":"Hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["messageId"])

	resp, body = do(t, app, http.MethodPost, "/api/v1/contact", `{"name":"Ravi","email":"nope","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "email")
}
