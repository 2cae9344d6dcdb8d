// Package advisor answers questions about the user's spending with a
// tool-calling chat model.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/cleared-dev/finadvisor/internal/llm"
	"github.com/cleared-dev/finadvisor/internal/logger"
)

const systemPrompt = `You are a helpful personal financial advisor. You have access to tools to analyze the user's transaction data and provide insights.

Answer the user's questions about their finances using the available tools. Be conversational, helpful, and provide actionable advice.
When analyzing spending, be specific with numbers and categories. When suggesting savings, be realistic and considerate.
Amounts are in the account currency; negative amounts are expenses and positive amounts are income.`

const finalPrompt = "Stop calling tools and give your final answer using the results above."

var errNoChoices = errors.New("model returned no choices")

// ToolCallFunc observes every tool call the agent makes.
type ToolCallFunc func(name, arguments, result string)

// Options configures an Agent.
type Options struct {
	Model        string
	Temperature  float32
	MaxToolSteps int
	OnToolCall   ToolCallFunc
}

// Agent keeps the conversation of one session in memory. It is safe for
// concurrent use; questions are answered one at a time.
type Agent struct {
	client ChatClient
	tools  *Toolbox
	opts   Options

	mu     sync.Mutex
	memory []openai.ChatCompletionMessage
}

// ChatClient is the chat API the agent drives.
type ChatClient = llm.ChatClient

// New creates an agent. MaxToolSteps below 1 is treated as 1.
func New(client ChatClient, tools *Toolbox, opts Options) *Agent {
	if opts.MaxToolSteps < 1 {
		opts.MaxToolSteps = 1
	}
	return &Agent{client: client, tools: tools, opts: opts}
}

// Ask answers question, calling tools as the model requests. After
// MaxToolSteps rounds of tool calls the model is asked for a final answer
// without tools.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	log := logger.FromContext(ctx)
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question}

	msgs := make([]openai.ChatCompletionMessage, 0, len(a.memory)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	msgs = append(msgs, a.memory...)
	msgs = append(msgs, user)

	defs := a.tools.Definitions()
	for step := 0; step < a.opts.MaxToolSteps; step++ {
		msg, err := a.complete(ctx, msgs, defs, nil)
		if err != nil {
			return "", err
		}
		msgs = append(msgs, msg)
		if len(msg.ToolCalls) == 0 {
			a.remember(user, msg.Content)
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			log.Debug().Str("tool", call.Function.Name).Str("args", call.Function.Arguments).Int("step", step+1).Msg("tool call")
			result := a.tools.Call(ctx, call.Function.Name, call.Function.Arguments)
			if a.opts.OnToolCall != nil {
				a.opts.OnToolCall(call.Function.Name, call.Function.Arguments, result)
			}
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	log.Debug().Int("max_tool_steps", a.opts.MaxToolSteps).Msg("tool budget exhausted, forcing answer")
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: finalPrompt})
	msg, err := a.complete(ctx, msgs, defs, "none")
	if err != nil {
		return "", err
	}
	a.remember(user, msg.Content)
	return msg.Content, nil
}

func (a *Agent) complete(ctx context.Context, msgs []openai.ChatCompletionMessage, defs []openai.Tool, toolChoice any) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.opts.Model,
		Messages:    msgs,
		Temperature: a.opts.Temperature,
		Tools:       defs,
	}
	if toolChoice != nil {
		req.ToolChoice = toolChoice
	}
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("asking advisor: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errNoChoices
	}
	return resp.Choices[0].Message, nil
}

func (a *Agent) remember(user openai.ChatCompletionMessage, answer string) {
	a.memory = append(a.memory, user, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: answer,
	})
}

// History returns the remembered questions and answers in order.
func (a *Agent) History() []openai.ChatCompletionMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]openai.ChatCompletionMessage, len(a.memory))
	copy(out, a.memory)
	return out
}

// Reset forgets the conversation.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = nil
}
