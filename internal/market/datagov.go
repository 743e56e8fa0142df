package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/upstream"
)

const (
	dataGovName = "datagov"
	// dailyPriceResource is the "Current Daily Price of Various Commodities"
	// dataset.
	dailyPriceResource = "9ef84268-d588-465a-a308-a864a43d0070"
	dataGovLimit       = 10
)

// DataGovProvider implements Provider for api.data.gov.in.
type DataGovProvider struct {
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func NewDataGovProvider(client *http.Client, apiKey string, logger *zap.Logger) *DataGovProvider {
	return &DataGovProvider{
		apiKey:  apiKey,
		baseURL: "https://api.data.gov.in/resource",
		client:  upstream.NewClient(dataGovName, client, upstream.DefaultBreaker, logger),
	}
}

func (p *DataGovProvider) Name() string {
	return dataGovName
}

// flexString accepts a JSON string or number; the dataset is inconsistent
// about price columns.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (p *DataGovProvider) Fetch(ctx context.Context, crop string) ([]RawRecord, error) {
	if p.apiKey == "" {
		return nil, &upstream.UpstreamError{Provider: dataGovName, Message: "api key is not configured (DATA_GOV_IN_API_KEY)"}
	}

	values := url.Values{}
	values.Set("api-key", p.apiKey)
	values.Set("format", "json")
	values.Set("filters[commodity]", strings.TrimSpace(crop))
	values.Set("limit", fmt.Sprint(dataGovLimit))
	u := fmt.Sprintf("%s/%s?%s", p.baseURL, dailyPriceResource, values.Encode())

	var payload struct {
		Records *[]struct {
			Commodity   string     `json:"commodity"`
			Market      string     `json:"market"`
			State       string     `json:"state"`
			ArrivalDate string     `json:"arrival_date"`
			ModalPrice  flexString `json:"modal_price"`
		} `json:"records"`
	}
	if err := p.client.GetJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	if payload.Records == nil {
		return nil, upstream.Malformed(dataGovName, "missing records")
	}

	out := make([]RawRecord, 0, len(*payload.Records))
	for _, r := range *payload.Records {
		out = append(out, RawRecord{
			Commodity: r.Commodity,
			Market:    r.Market,
			State:     r.State,
			Date:      r.ArrivalDate,
			Price:     string(r.ModalPrice),
		})
	}
	return out, nil
}
