package ollama

import (
	"context"

	"github.com/transito-ai/cli/internal/chat"
)

// Generator binds a Client to a fixed model for plain prompt completion.
type Generator struct {
	client *Client
	model  string
}

// NewGenerator creates a prompt-completion generator.
func NewGenerator(client *Client, model string) *Generator {
	return &Generator{client: client, model: model}
}

// Generate completes prompt with the bound model.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.Generate(ctx, &GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
	})
}

// ChatModel binds a Client to a fixed model and adapts it to the
// conversation controller's Model contract, translating the message tagged
// union to Ollama chat roles and tool-call payloads.
type ChatModel struct {
	client *Client
	model  string
}

// NewChatModel creates a chat model adapter.
func NewChatModel(client *Client, model string) *ChatModel {
	return &ChatModel{client: client, model: model}
}

// Chat sends messages (and the optional tool declaration) to the model and
// returns its tagged decision.
func (m *ChatModel) Chat(ctx context.Context, messages []chat.Message, tool *chat.ToolSpec) (*chat.Decision, error) {
	var argName string
	if tool != nil {
		argName = tool.ArgName
	}
	req := &ChatRequest{
		Model:    m.model,
		Messages: toChatMessages(messages, argName),
	}
	if tool != nil {
		req.Tools = []Tool{{
			Type: "function",
			Function: ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						tool.ArgName: map[string]interface{}{
							"type":        "string",
							"description": tool.ArgDesc,
						},
					},
					"required": []string{tool.ArgName},
				},
			},
		}}
	}

	resp, err := m.client.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	if tool != nil && len(resp.ToolCalls) > 0 {
		call := resp.ToolCalls[0]
		return &chat.Decision{
			Content: resp.Content,
			ToolCall: &chat.ToolCall{
				Name:  call.Function.Name,
				Query: stringArg(call.Function.Arguments, tool.ArgName),
			},
		}, nil
	}

	return &chat.Decision{Content: resp.Content}, nil
}

// toChatMessages maps the tagged message union onto Ollama chat roles.
// Prior tool calls are echoed back under the offered tool's argument name;
// without a tool declaration there is nothing to echo them against.
func toChatMessages(messages []chat.Message, argName string) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		msg := ChatMessage{Content: m.Content}
		switch m.Role {
		case chat.RoleUser:
			msg.Role = "user"
		case chat.RoleSystem:
			msg.Role = "system"
		case chat.RoleAssistantFinal:
			msg.Role = "assistant"
		case chat.RoleAssistantToolCall:
			msg.Role = "assistant"
			if m.ToolCall != nil && argName != "" {
				msg.ToolCalls = []ToolCall{{
					Function: ToolCallFunction{
						Name:      m.ToolCall.Name,
						Arguments: map[string]interface{}{argName: m.ToolCall.Query},
					},
				}}
			}
		case chat.RoleToolResult:
			msg.Role = "tool"
		}
		out = append(out, msg)
	}
	return out
}

// stringArg pulls the named argument as a string, falling back to the first
// string argument when the model picked a different parameter name.
func stringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	for _, v := range args {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
