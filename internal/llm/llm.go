// Package llm provides the text-completion backend used by planning tools.
//
// The backend is deliberately opaque: the orchestrator only depends on the
// Completer interface, and backend failures surface to callers as tool
// failures, never as crashes. The production implementation wraps
// langchaingo's OpenAI-compatible client, which also covers local servers
// exposing the OpenAI API shape.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrInvalidConfig indicates invalid completion backend configuration.
var ErrInvalidConfig = errors.New("invalid llm config")

// Completer generates a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds completion backend configuration.
type Config struct {
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	APIKey      string  `koanf:"api_key"`
	Temperature float64 `koanf:"temperature"`
}

// NewDefaultConfig returns config suitable for a local OpenAI-compatible server.
func NewDefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:11434/v1",
		Model:       "llama3.1",
		Temperature: 0.2,
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be in [0, 2], got %v", ErrInvalidConfig, c.Temperature)
	}
	return nil
}

// Client is a Completer backed by langchaingo's OpenAI-compatible client.
type Client struct {
	llm    llms.Model
	config Config
}

// NewClient creates a completion client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	apiKey := config.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for local backends
		apiKey = "placeholder"
	}

	opts := []openai.Option{
		openai.WithModel(config.Model),
		openai.WithToken(apiKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &Client{llm: model, config: config}, nil
}

// Complete generates a completion for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(c.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}
	return out, nil
}
