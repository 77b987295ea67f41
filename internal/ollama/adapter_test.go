package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transito-ai/cli/internal/chat"
)

func TestChatModelEchoesToolCallUnderSpecArgName(t *testing.T) {
	var captured ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(ChatResponse{
			Message: ChatMessage{Role: "assistant", Content: "listo"},
			Done:    true,
		})
	}))
	defer server.Close()

	model := NewChatModel(NewClient(server.URL), "llama3.2")
	history := []chat.Message{
		chat.UserMessage("¿necesito licencia?"),
		{
			Role:     chat.RoleAssistantToolCall,
			ToolCall: &chat.ToolCall{Name: "extraer", Query: "requisitos de licencia"},
		},
		{Role: chat.RoleToolResult, Content: "[Artículo 17] ..."},
	}
	spec := &chat.ToolSpec{
		Name:        "extraer",
		Description: "Busca artículos.",
		ArgName:     "consulta",
		ArgDesc:     "La consulta.",
	}

	decision, err := model.Chat(context.Background(), history, spec)
	require.NoError(t, err)
	assert.Equal(t, "listo", decision.Content)

	require.Len(t, captured.Messages, 3)
	echoed := captured.Messages[1]
	require.Len(t, echoed.ToolCalls, 1)
	assert.Equal(t, "extraer", echoed.ToolCalls[0].Function.Name)
	assert.Equal(t, "requisitos de licencia", echoed.ToolCalls[0].Function.Arguments["consulta"])
	assert.Equal(t, "tool", captured.Messages[2].Role)

	require.Len(t, captured.Tools, 1)
	params := captured.Tools[0].Function.Parameters
	props, ok := params["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "consulta")
}

func TestChatModelMapsToolCallDecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{
			Message: ChatMessage{
				Role: "assistant",
				ToolCalls: []ToolCall{{Function: ToolCallFunction{
					Name:      "extraer",
					Arguments: map[string]interface{}{"pregunta": "límites de velocidad"},
				}}},
			},
			Done: true,
		})
	}))
	defer server.Close()

	model := NewChatModel(NewClient(server.URL), "llama3.2")
	spec := &chat.ToolSpec{Name: "extraer", ArgName: "pregunta"}

	decision, err := model.Chat(context.Background(), []chat.Message{chat.UserMessage("hola")}, spec)
	require.NoError(t, err)
	require.NotNil(t, decision.ToolCall)
	assert.Equal(t, "extraer", decision.ToolCall.Name)
	assert.Equal(t, "límites de velocidad", decision.ToolCall.Query)
}

func TestToChatMessagesWithoutToolDropsEcho(t *testing.T) {
	messages := toChatMessages([]chat.Message{
		{
			Role:     chat.RoleAssistantToolCall,
			ToolCall: &chat.ToolCall{Name: "extraer", Query: "algo"},
		},
	}, "")

	require.Len(t, messages, 1)
	assert.Equal(t, "assistant", messages[0].Role)
	assert.Empty(t, messages[0].ToolCalls)
}

func TestStringArg(t *testing.T) {
	assert.Equal(t, "a", stringArg(map[string]interface{}{"pregunta": "a"}, "pregunta"))
	assert.Equal(t, "b", stringArg(map[string]interface{}{"query": "b"}, "pregunta"))
	assert.Equal(t, "", stringArg(map[string]interface{}{"n": 3.0}, "pregunta"))
	assert.Equal(t, "", stringArg(nil, "pregunta"))
}
