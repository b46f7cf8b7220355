package llm

import "strings"

type OpenAIClient struct {
	chatCompletionsClient
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{chatCompletionsClient{
		provider:  "OpenAI",
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    cfg.HTTPClient,
	}}
}
