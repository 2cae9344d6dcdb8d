package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Handler runs a tool with its raw JSON arguments and returns text for the
// model.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a function the model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema of the arguments object
	Handler     Handler
}

// Toolbox holds named tools.
type Toolbox struct {
	tools map[string]Tool
}

// NewToolbox creates an empty toolbox.
func NewToolbox() *Toolbox {
	return &Toolbox{tools: make(map[string]Tool)}
}

// Register adds a tool. Panics on duplicate name.
func (tb *Toolbox) Register(t Tool) {
	if _, ok := tb.tools[t.Name]; ok {
		panic("duplicate tool: " + t.Name)
	}
	tb.tools[t.Name] = t
}

// Names returns the registered tool names, sorted.
func (tb *Toolbox) Names() []string {
	names := make([]string, 0, len(tb.tools))
	for name := range tb.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the tools in chat-API form, sorted by name.
func (tb *Toolbox) Definitions() []openai.Tool {
	var defs []openai.Tool
	for _, name := range tb.Names() {
		t := tb.tools[name]
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return defs
}

// Call runs the named tool. Failures are returned as text so the model can
// recover from a bad call.
func (tb *Toolbox) Call(ctx context.Context, name, arguments string) string {
	t, ok := tb.tools[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q. Available tools: %s", name, strings.Join(tb.Names(), ", "))
	}
	args := json.RawMessage(strings.TrimSpace(arguments))
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	out, err := t.Handler(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error running %s: %v", name, err)
	}
	return out
}
