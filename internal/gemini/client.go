package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/transito-ai/cli/internal/chat"
)

// Client wraps the Gemini API for generation and chat with function
// calling.
type Client struct {
	apiKey string
}

// NewClient creates a Gemini client.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

func (c *Client) newClient(ctx context.Context) (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Generator binds the client to a fixed model for plain prompt completion.
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
	client, err := g.client.newClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// ChatModel adapts Gemini to the conversation controller's Model contract.
type ChatModel struct {
	client *Client
	model  string
}

// NewChatModel creates a chat model adapter.
func NewChatModel(client *Client, model string) *ChatModel {
	return &ChatModel{client: client, model: model}
}

// Chat sends messages (and the optional tool declaration) to the model and
// returns its tagged decision. System messages become the system
// instruction; tool-call and tool-result intermediates never appear here
// because the controller filters them before generation.
func (m *ChatModel) Chat(ctx context.Context, messages []chat.Message, tool *chat.ToolSpec) (*chat.Decision, error) {
	client, err := m.client.newClient(ctx)
	if err != nil {
		return nil, err
	}

	var contents []*genai.Content
	var systemText string
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			if systemText == "" {
				systemText = msg.Content
			}
		case chat.RoleAssistantFinal:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}
	if tool != nil {
		config.Tools = []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						tool.ArgName: {
							Type:        genai.TypeString,
							Description: tool.ArgDesc,
						},
					},
					Required: []string{tool.ArgName},
				},
			}},
		}}
	}

	resp, err := client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini chat failed: %w", err)
	}

	if tool != nil {
		if calls := resp.FunctionCalls(); len(calls) > 0 {
			return &chat.Decision{
				ToolCall: &chat.ToolCall{
					Name:  calls[0].Name,
					Query: stringArg(calls[0].Args, tool.ArgName),
				},
			}, nil
		}
	}

	return &chat.Decision{Content: strings.TrimSpace(resp.Text())}, nil
}

func stringArg(args map[string]any, name string) string {
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
