package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finadvisor/internal/config"
)

type fakeChat struct {
	reqs []openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
	}}
}

func TestOpenAICompleter(t *testing.T) {
	chat := &fakeChat{resp: reply("  \"Groceries\"\n")}
	c := NewOpenAICompleter(chat, "llama-3.3-70b-versatile")

	got, err := c.Complete(context.Background(), "categorize WHOLE FOODS")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)

	require.Len(t, chat.reqs, 1)
	assert.Equal(t, "llama-3.3-70b-versatile", chat.reqs[0].Model)
	assert.Equal(t, "categorize WHOLE FOODS", chat.reqs[0].Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, chat.reqs[0].Messages[0].Role)
}

func TestOpenAICompleter_Errors(t *testing.T) {
	_, err := NewOpenAICompleter(&fakeChat{err: errors.New("rate limited")}, "m").Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "rate limited")

	_, err = NewOpenAICompleter(&fakeChat{}, "m").Complete(context.Background(), "p")
	assert.ErrorIs(t, err, errEmptyResponse)
}

func TestOpenAICompleter_OverHTTP(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply("Transportation"))
	}))
	defer srv.Close()

	client, err := NewChatClient(config.LLMConfig{Provider: "openai", BaseURL: srv.URL + "/"}, "test-key")
	require.NoError(t, err)

	got, err := NewOpenAICompleter(client, "gpt-4o-mini").Complete(context.Background(), "UBER *TRIP")
	require.NoError(t, err)
	assert.Equal(t, "Transportation", got)
	assert.Equal(t, "gpt-4o-mini", gotModel)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.groq.com/openai/v1", BaseURL(config.LLMConfig{Provider: "groq"}))
	assert.Equal(t, "http://localhost:11434/v1", BaseURL(config.LLMConfig{Provider: "ollama"}))
	assert.Equal(t, "http://gpu:11434/v1", BaseURL(config.LLMConfig{Provider: "ollama", BaseURL: "http://gpu:11434/v1/"}))
	assert.Empty(t, BaseURL(config.LLMConfig{Provider: "unknown"}))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3.1"}, "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)

	_, err = New(ctx, config.LLMConfig{Provider: "groq", APIKeyEnv: "GROQ_API_KEY"}, "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.ErrorContains(t, err, "GROQ_API_KEY")

	_, err = New(ctx, config.LLMConfig{Provider: "gemini"}, "")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err = New(ctx, config.LLMConfig{Provider: "gemini", Model: "gemini-2.5-flash"}, "test-key")
	require.NoError(t, err)
	assert.IsType(t, &GeminiCompleter{}, c)

	_, err = New(ctx, config.LLMConfig{Provider: "bedrock"}, "k")
	assert.ErrorContains(t, err, `unknown llm provider "bedrock"`)
}
