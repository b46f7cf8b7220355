package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mikebijl/attrm/internal/constants"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM operations.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ChatComplete(ctx context.Context, messages []Message) (string, error)
}

// Provider represents an LLM provider type.
type Provider = constants.Provider

const (
	ProviderAnthropic  = constants.ProviderAnthropic
	ProviderOpenAI     = constants.ProviderOpenAI
	ProviderOpenRouter = constants.ProviderOpenRouter
	ProviderGemini     = constants.ProviderGemini
	ProviderOllama     = constants.ProviderOllama
)

const defaultMaxTokens = 1024

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider   Provider
	Model      string
	BaseURL    string
	APIKey     string
	MaxTokens  int
	HTTPClient *http.Client
}

// Option is a functional option for configuring LLM clients.
type Option func(*Config)

// WithModel sets the model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) { c.HTTPClient = client }
}

// DefaultConfig returns the provider's default model and endpoint.
func DefaultConfig(provider Provider, opts ...Option) Config {
	cfg := Config{Provider: provider, MaxTokens: defaultMaxTokens}
	if info, ok := constants.GetProviderInfo(provider); ok {
		cfg.Model = info.DefaultModel
		cfg.BaseURL = info.BaseURL
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewClient creates an LLM client from config.
func NewClient(cfg Config) (Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model specified for provider %q", cfg.Provider)
	}
	info, ok := constants.GetProviderInfo(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
	if info.NeedsAPIKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", info.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = info.BaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderOpenRouter:
		return NewOpenRouterClient(cfg), nil
	case ProviderOllama:
		return NewOllamaClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// APIError is returned when a provider answers with a non-success status.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// postJSON sends body as JSON to url and returns the raw response body.
// Non-2xx responses become an *APIError.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: provider, StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

// splitSystem separates system messages from the conversation, for APIs
// that take the system prompt as a separate field.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	var rest []Message
	for _, m := range messages {
		if m.Role == "system" {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
