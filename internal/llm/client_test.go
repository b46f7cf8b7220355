package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, path string, status int, response string, capture func(*http.Request, []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if capture != nil {
			capture(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

var testMessages = []Message{
	{Role: "system", Content: "Be brief."},
	{Role: "user", Content: "What happened?"},
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{Provider: ProviderAnthropic})
	assert.ErrorContains(t, err, "no model")

	_, err = NewClient(DefaultConfig(ProviderAnthropic))
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(Config{Provider: "bogus", Model: "m"})
	assert.ErrorContains(t, err, "unknown provider")

	client, err := NewClient(DefaultConfig(ProviderOllama))
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
}

func TestNewClient_Providers(t *testing.T) {
	cases := map[Provider]any{
		ProviderAnthropic:  &AnthropicClient{},
		ProviderOpenAI:     &OpenAIClient{},
		ProviderOpenRouter: &OpenRouterClient{},
		ProviderGemini:     &GeminiClient{},
	}
	for provider, want := range cases {
		client, err := NewClient(DefaultConfig(provider, WithAPIKey("k")))
		require.NoError(t, err, provider)
		assert.IsType(t, want, client, provider)
	}
}

func TestDefaultConfig_Options(t *testing.T) {
	cfg := DefaultConfig(ProviderAnthropic, WithModel("claude-haiku-4-5"), WithBaseURL("http://x"), WithAPIKey("k"))
	assert.Equal(t, "claude-haiku-4-5", cfg.Model)
	assert.Equal(t, "http://x", cfg.BaseURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, defaultMaxTokens, cfg.MaxTokens)

	assert.Equal(t, "claude-sonnet-4-5", DefaultConfig(ProviderAnthropic).Model)
}

func TestAnthropicClient_ChatComplete(t *testing.T) {
	var got anthropicRequest
	srv := newTestServer(t, "/messages", http.StatusOK,
		`{"content":[{"type":"text","text":"  They fixed the login page. "}]}`,
		func(r *http.Request, body []byte) {
			assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
			assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
			require.NoError(t, json.Unmarshal(body, &got))
		})

	client, err := NewClient(DefaultConfig(ProviderAnthropic, WithAPIKey("sk-ant-test"), WithBaseURL(srv.URL)))
	require.NoError(t, err)

	text, err := client.ChatComplete(context.Background(), testMessages)
	require.NoError(t, err)

	assert.Equal(t, "They fixed the login page.", text)
	assert.Equal(t, "Be brief.", got.System)
	assert.Equal(t, []Message{{Role: "user", Content: "What happened?"}}, got.Messages)
	assert.Equal(t, "claude-sonnet-4-5", got.Model)
	assert.Equal(t, 1024, got.MaxTokens)
}

func TestAnthropicClient_HTTPError(t *testing.T) {
	srv := newTestServer(t, "/messages", http.StatusUnauthorized,
		`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, nil)

	client, err := NewClient(DefaultConfig(ProviderAnthropic, WithAPIKey("bad"), WithBaseURL(srv.URL)))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hi")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestAnthropicClient_NoText(t *testing.T) {
	srv := newTestServer(t, "/messages", http.StatusOK, `{"content":[]}`, nil)

	client, err := NewClient(DefaultConfig(ProviderAnthropic, WithAPIKey("k"), WithBaseURL(srv.URL)))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestOpenAIClient_ChatComplete(t *testing.T) {
	var got chatCompletionsRequest
	srv := newTestServer(t, "/chat/completions", http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"They updated the docs.\n"}}]}`,
		func(r *http.Request, body []byte) {
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.Unmarshal(body, &got))
		})

	client, err := NewClient(DefaultConfig(ProviderOpenAI, WithAPIKey("sk-test"), WithBaseURL(srv.URL+"/")))
	require.NoError(t, err)

	text, err := client.ChatComplete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "They updated the docs.", text)
	assert.Equal(t, testMessages, got.Messages)
	assert.Equal(t, "gpt-4.1", got.Model)
}

func TestOpenRouterClient_ErrorBody(t *testing.T) {
	srv := newTestServer(t, "/chat/completions", http.StatusOK,
		`{"error":{"message":"rate limited","code":429}}`,
		func(r *http.Request, _ []byte) {
			assert.Equal(t, "attrm", r.Header.Get("X-Title"))
		})

	client, err := NewClient(DefaultConfig(ProviderOpenRouter, WithAPIKey("sk-or-x"), WithBaseURL(srv.URL)))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOllamaClient(t *testing.T) {
	chat := newTestServer(t, "/api/chat", http.StatusOK,
		`{"message":{"role":"assistant","content":" Reorganized the settings screen. "},"done":true}`, nil)
	client, err := NewClient(DefaultConfig(ProviderOllama, WithBaseURL(chat.URL)))
	require.NoError(t, err)

	text, err := client.ChatComplete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Reorganized the settings screen.", text)

	gen := newTestServer(t, "/api/generate", http.StatusOK, `{"response":"ok","done":true}`, nil)
	client, err = NewClient(DefaultConfig(ProviderOllama, WithBaseURL(gen.URL)))
	require.NoError(t, err)

	text, err = client.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: "system", Content: "a"},
		{Role: "user", Content: "q"},
		{Role: "system", Content: "b"},
	})
	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []Message{{Role: "user", Content: "q"}}, rest)
}

func geminiServer(t *testing.T, status int, response string, capture func(*http.Request, []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if capture != nil {
			capture(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiClient_ChatComplete(t *testing.T) {
	var apiKey string
	var got map[string]any
	srv := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"They fixed the login page.\n"}]}}]}`,
		func(r *http.Request, body []byte) {
			apiKey = r.Header.Get("x-goog-api-key")
			if apiKey == "" {
				apiKey = r.URL.Query().Get("key")
			}
			require.NoError(t, json.Unmarshal(body, &got))
		})

	client, err := NewClient(DefaultConfig(ProviderGemini,
		WithAPIKey("gemini-test"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client())))
	require.NoError(t, err)

	text, err := client.ChatComplete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "They fixed the login page.", text)
	assert.Equal(t, "gemini-test", apiKey)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, got, "systemInstruction")
	assert.Contains(t, string(raw), "Be brief.")
	assert.Contains(t, string(raw), "What happened?")
	assert.Contains(t, string(raw), "maxOutputTokens")
}

func TestGeminiClient_HTTPError(t *testing.T) {
	srv := geminiServer(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, nil)

	client, err := NewClient(DefaultConfig(ProviderGemini,
		WithAPIKey("bad"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client())))
	require.NoError(t, err)

	_, err = client.ChatComplete(context.Background(), testMessages)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Gemini", apiErr.Provider)
}
