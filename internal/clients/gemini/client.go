// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
)

const (
	DefaultModel       = "gemini-2.0-flash"
	DefaultTemperature = 0.7
)

var _ interfaces.GeminiClient = (*Client)(nil)

// Client implements the GeminiClient interface
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float32) ClientOption {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:      genaiClient,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithSystem(ctx, "", prompt)
}

// GenerateWithSystem generates content with an optional system instruction
func (c *Client) GenerateWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("Generating content")

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in generated content")
	}
	return sb.String(), nil
}
