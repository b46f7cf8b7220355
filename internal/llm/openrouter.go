package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// chatCompletionsClient speaks the OpenAI chat completions protocol, which
// both OpenAI and OpenRouter implement.
type chatCompletionsClient struct {
	provider  string
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	headers   map[string]string
	client    *http.Client
}

type chatCompletionsRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

func (c *chatCompletionsClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.ChatComplete(ctx, []Message{{Role: "user", Content: prompt}})
}

func (c *chatCompletionsClient) ChatComplete(ctx context.Context, messages []Message) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	for k, v := range c.headers {
		headers[k] = v
	}

	body, err := postJSON(ctx, c.client, c.provider, c.baseURL+"/chat/completions", headers, chatCompletionsRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	var result chatCompletionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if result.Error != nil {
		return "", &APIError{Provider: c.provider, Message: fmt.Sprintf("%s (code %v)", result.Error.Message, result.Error.Code)}
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

type OpenRouterClient struct {
	chatCompletionsClient
}

func NewOpenRouterClient(cfg Config) *OpenRouterClient {
	return &OpenRouterClient{chatCompletionsClient{
		provider:  "OpenRouter",
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		headers: map[string]string{
			"HTTP-Referer": "https://github.com/mikebijl/attrm",
			"X-Title":      "attrm",
		},
		client: cfg.HTTPClient,
	}}
}
