// Package ai wraps the Gemini API behind a small text-generation interface
// so the recommendation and prefill pipelines can be tested without network
// access.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// TextGenerator produces model output for a prompt with a per-call model
// and sampling selection.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error)
	Close() error
}

// GenerationOptions are per-call sampling settings.
type GenerationOptions struct {
	Temperature float32
	TopP        float32
}

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini client from the configured API key.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GenerateText sends a prompt to the named model and returns the raw text
// reply.
func (c *GeminiClient) GenerateText(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error) {
	gm := c.client.GenerativeModel(model)
	if opts.Temperature > 0 {
		gm.SetTemperature(opts.Temperature)
	}
	if opts.TopP > 0 {
		gm.SetTopP(opts.TopP)
	}

	start := time.Now()
	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	common.LogUpstreamCall("gemini", time.Since(start), err, "")
	if err != nil {
		return "", common.NewUpstream("Gemini request failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", common.NewUpstream("Gemini returned no content", nil)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", common.NewUpstream("Gemini returned non-text content", nil)
	}

	common.LogDebug("Gemini response received",
		zap.String("model", model),
		zap.Int("length", len(text)),
	)
	return string(text), nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
