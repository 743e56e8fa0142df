package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// BreakerConfig controls when a provider's circuit opens.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// Interval is the cyclic period for clearing counts in the closed state.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultBreaker mirrors the settings used for every weather provider.
var DefaultBreaker = BreakerConfig{
	ConsecutiveFailures: 5,
	Interval:            time.Minute,
	Timeout:             2 * time.Minute,
}

// Client issues JSON GET requests to one provider. It never retries; a failed
// call is reported to the caller, which owns the fallback decision.
type Client struct {
	provider string
	http     *http.Client
	circuit  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewClient builds a Client for provider using the shared HTTP client.
func NewClient(provider string, httpClient *http.Client, cfg BreakerConfig, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("upstream").With(zap.String("provider", provider))
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultBreaker.ConsecutiveFailures
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		provider: provider,
		http:     httpClient,
		circuit:  cb,
		logger:   logger,
	}
}

// Provider returns the provider name used in errors and logs.
func (c *Client) Provider() string { return c.provider }

// GetJSON performs one GET against rawURL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &UpstreamError{Provider: c.provider, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, &UpstreamError{Provider: c.provider, Message: execErr.Error(), Err: execErr}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			msg := strings.TrimSpace(string(snippet))
			if msg == "" {
				msg = http.StatusText(resp.StatusCode)
			}
			return nil, &UpstreamError{Provider: c.provider, Status: resp.StatusCode, Message: msg}
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &UpstreamError{
				Provider: c.provider,
				Message:  err.Error(),
				Err:      fmt.Errorf("%w: %v", ErrCircuitOpen, err),
			}
		}
		return err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return &UpstreamError{Provider: c.provider, Message: "unexpected result type from circuit breaker"}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &MalformedResponseError{Provider: c.provider, Reason: "decode body", Err: err}
	}

	c.logger.Debug("upstream request succeeded", zap.String("host", req.URL.Host), zap.String("path", req.URL.Path))
	return nil
}
