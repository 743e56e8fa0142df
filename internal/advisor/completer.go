// Package advisor holds the generative flows of the dashboard: crop
// recommendations, pest risk, irrigation planning, farm reports and the
// photo diagnostics. Each flow renders a prompt, asks a Completer for JSON
// matching a schema and validates the result.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrUnavailable is returned by flows when no Completer is configured.
var ErrUnavailable = errors.New("advisor: completion service not configured")

// Request is one structured completion.
type Request struct {
	// Name identifies the flow in logs and errors.
	Name   string
	Prompt string
	Schema *genai.Schema
	// Images are sent inline after the prompt.
	Images []Image
}

// Completer produces a JSON document for req and decodes it into out.
type Completer interface {
	Complete(ctx context.Context, req Request, out any) error
}

// CompletionError reports a failed or unusable completion.
type CompletionError struct {
	Flow   string
	Reason string
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("advisor %s: %s: %v", e.Flow, e.Reason, e.Err)
	}
	return fmt.Sprintf("advisor %s: %s", e.Flow, e.Reason)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// GenAICompleter implements Completer with the Gemini API.
type GenAICompleter struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGenAICompleter creates a client for apiKey.
func NewGenAICompleter(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAICompleter{client: client, model: model, logger: logger.Named("genai")}, nil
}

func (c *GenAICompleter) Complete(ctx context.Context, req Request, out any) error {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents(req), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	})
	if err != nil {
		return &CompletionError{Flow: req.Name, Reason: "generate content", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return &CompletionError{Flow: req.Name, Reason: "empty response"}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &CompletionError{Flow: req.Name, Reason: "decode response", Err: err}
	}

	c.logger.Debug("completion finished", zap.String("flow", req.Name), zap.String("model", c.model), zap.Int("bytes", len(text)))
	return nil
}

func contents(req Request) []*genai.Content {
	if len(req.Images) == 0 {
		return genai.Text(req.Prompt)
	}
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
