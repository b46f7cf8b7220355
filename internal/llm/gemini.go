package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements the Client interface using Google's official Gemini Go SDK.
type GeminiClient struct {
	client     *genai.Client
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int32
	httpClient *http.Client
}

func NewGeminiClient(cfg Config) *GeminiClient {
	// The SDK client is created lazily because construction needs a context.
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		maxTokens:  int32(cfg.MaxTokens),
		httpClient: cfg.HTTPClient,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	clientConfig := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     c.apiKey,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	return nil
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.ChatComplete(ctx, []Message{{Role: "user", Content: prompt}})
}

func (c *GeminiClient) ChatComplete(ctx context.Context, messages []Message) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	system, conversation := splitSystem(messages)

	var contents []*genai.Content
	for _, m := range conversation {
		role := genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}

	if len(contents) == 0 {
		return "", fmt.Errorf("no user/assistant messages provided")
	}

	config := &genai.GenerateContentConfig{}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = c.maxTokens
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", &APIError{Provider: "Gemini", Message: err.Error()}
	}

	return strings.TrimSpace(result.Text()), nil
}
