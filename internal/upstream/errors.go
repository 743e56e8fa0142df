// Package upstream is the HTTP plumbing shared by every third-party data
// provider: single-shot JSON GETs behind a per-provider circuit breaker, with
// failures classified into UpstreamError and MalformedResponseError.
package upstream

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is wrapped by UpstreamError when the breaker rejects a call
// without reaching the network.
var ErrCircuitOpen = errors.New("circuit breaker open")

// UpstreamError reports a network failure or a non-2xx response. Status is 0
// when no response was received.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: upstream request failed: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Provider, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError reports a 2xx response whose body is not the shape
// the provider is expected to send.
type MalformedResponseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Provider, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Malformed is a shorthand used by providers when a decoded payload lacks the
// fields they need.
func Malformed(provider, format string, args ...any) error {
	return &MalformedResponseError{Provider: provider, Reason: fmt.Sprintf(format, args...)}
}
