package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var errEmptyResponse = errors.New("empty response from model")

// OpenAICompleter sends single-shot prompts through any OpenAI-compatible
// chat endpoint at temperature 0.
type OpenAICompleter struct {
	client ChatClient
	model  string
}

// NewOpenAICompleter creates a completer for model.
func NewOpenAICompleter(client ChatClient, model string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model}
}

// Complete returns the model's first choice, trimmed.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return cleanAnswer(resp.Choices[0].Message.Content), nil
}
