package constants

import (
	"sort"
	"strings"
)

// Provider represents an LLM provider type
type Provider string

// LLM Providers
const (
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
	ProviderOllama     Provider = "ollama"
)

// DefaultProvider is used when no --provider flag is given.
const DefaultProvider = ProviderAnthropic

// ProviderInfo contains defaults and setup metadata for a provider
type ProviderInfo struct {
	Name         string
	Description  string
	DefaultModel string
	BaseURL      string
	APIKeyEnv    string // Environment variable that overrides the stored key
	APIKeyURL    string // Where to get the API key
	APIKeyPrefix string // Expected prefix for validation (e.g. "sk-ant-")
	NeedsAPIKey  bool
}

var providers = map[Provider]ProviderInfo{
	ProviderAnthropic: {
		Name:         "Anthropic",
		Description:  "Claude Sonnet 4.5, Haiku 4.5",
		DefaultModel: "claude-sonnet-4-5",
		BaseURL:      "https://api.anthropic.com/v1",
		APIKeyEnv:    "ANTHROPIC_API_KEY",
		APIKeyURL:    "https://console.anthropic.com/",
		APIKeyPrefix: "sk-ant-",
		NeedsAPIKey:  true,
	},
	ProviderOpenAI: {
		Name:         "OpenAI",
		Description:  "GPT-4.1, GPT-4o",
		DefaultModel: "gpt-4.1",
		BaseURL:      "https://api.openai.com/v1",
		APIKeyEnv:    "OPENAI_API_KEY",
		APIKeyURL:    "https://platform.openai.com/api-keys",
		APIKeyPrefix: "sk-",
		NeedsAPIKey:  true,
	},
	ProviderOpenRouter: {
		Name:         "OpenRouter",
		Description:  "Unified API for Claude, GPT, Gemini, Llama",
		DefaultModel: "anthropic/claude-sonnet-4.5",
		BaseURL:      "https://openrouter.ai/api/v1",
		APIKeyEnv:    "OPENROUTER_API_KEY",
		APIKeyURL:    "https://openrouter.ai/keys",
		APIKeyPrefix: "sk-or-",
		NeedsAPIKey:  true,
	},
	ProviderGemini: {
		Name:         "Gemini",
		Description:  "Google Gemini Flash and Pro",
		DefaultModel: "gemini-2.5-flash",
		APIKeyEnv:    "GEMINI_API_KEY",
		APIKeyURL:    "https://aistudio.google.com/apikey",
		NeedsAPIKey:  true,
	},
	ProviderOllama: {
		Name:         "Ollama",
		Description:  "Free, local, private models",
		DefaultModel: "llama3.2",
		BaseURL:      "http://localhost:11434",
		NeedsAPIKey:  false,
	},
}

// GetProviderInfo returns information about a provider
func GetProviderInfo(provider Provider) (ProviderInfo, bool) {
	info, ok := providers[provider]
	return info, ok
}

// ParseProvider resolves a case-insensitive provider name.
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	_, ok := providers[p]
	return p, ok
}

// AllProviders returns every supported provider, sorted by name.
func AllProviders() []Provider {
	all := make([]Provider, 0, len(providers))
	for p := range providers {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// ProviderNames returns the provider identifiers joined for help text.
func ProviderNames() string {
	names := make([]string, 0, len(providers))
	for _, p := range AllProviders() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
