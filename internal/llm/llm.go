// Package llm wraps the language-model providers used for categorization and
// for the advisor agent. OpenAI, Groq, Ollama and Gemini all speak the
// OpenAI chat API; Gemini single-shot prompts also go through the native
// genai client.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/cleared-dev/finadvisor/internal/config"
)

// ErrNoAPIKey is returned when a hosted provider is selected without a key.
var ErrNoAPIKey = errors.New("no API key")

// Completer answers a single prompt with plain text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatClient is the tool-calling chat API. *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var defaultBaseURLs = map[string]string{
	"openai": "https://api.openai.com/v1",
	"groq":   "https://api.groq.com/openai/v1",
	"ollama": "http://localhost:11434/v1",
	"gemini": "https://generativelanguage.googleapis.com/v1beta/openai",
}

// BaseURL returns the configured base URL or the provider default.
func BaseURL(cfg config.LLMConfig) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return defaultBaseURLs[cfg.Provider]
}

// NewChatClient builds an OpenAI-compatible client for cfg.Provider.
// Ollama runs locally and needs no key.
func NewChatClient(cfg config.LLMConfig, apiKey string) (*openai.Client, error) {
	base := BaseURL(cfg)
	if base == "" {
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if apiKey == "" {
		if cfg.Provider != "ollama" {
			return nil, fmt.Errorf("%s: %w (set %s)", cfg.Provider, ErrNoAPIKey, cfg.APIKeyEnv)
		}
		apiKey = "ollama"
	}
	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = base
	return openai.NewClientWithConfig(oc), nil
}

// New returns the Completer for cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, apiKey string) (Completer, error) {
	if cfg.Provider == "gemini" {
		if apiKey == "" {
			return nil, fmt.Errorf("gemini: %w (set %s)", ErrNoAPIKey, cfg.APIKeyEnv)
		}
		return NewGeminiCompleter(ctx, apiKey, cfg.Model)
	}
	client, err := NewChatClient(cfg, apiKey)
	if err != nil {
		return nil, err
	}
	return NewOpenAICompleter(client, cfg.Model), nil
}

// cleanAnswer strips whitespace and wrapping quotes or backticks.
func cleanAnswer(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`.")
}
