package chat

import "github.com/transito-ai/cli/internal/corpus"

// Role discriminates message kinds. The generate step's backward scan and
// history filtering depend on this being exhaustive, so roles are an
// explicit enum rather than free-form strings.
type Role int

const (
	RoleUser Role = iota
	RoleSystem
	// RoleAssistantFinal is an assistant answer shown to the user.
	RoleAssistantFinal
	// RoleAssistantToolCall is an intermediate assistant message requesting
	// a tool invocation; it never reaches the generator's prompt directly.
	RoleAssistantToolCall
	// RoleToolResult carries a tool's formatted output plus the retrieved
	// documents for citation display.
	RoleToolResult
)

// ToolCall names a tool and the reformulated query to run it with.
type ToolCall struct {
	Name  string
	Query string
}

// Message is one entry of the conversation state.
type Message struct {
	Role      Role
	Content   string
	ToolCall  *ToolCall
	Documents []corpus.Chunk
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AssistantMessage builds a final assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistantFinal, Content: content}
}
