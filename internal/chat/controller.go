package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/transito-ai/cli/internal/corpus"
)

// ToolSpec declares the single callable capability offered to the decision
// model.
type ToolSpec struct {
	Name        string
	Description string
	ArgName     string
	ArgDesc     string
}

// Decision is the tagged result of a model call: either a direct answer or
// a tool invocation request, never both interpreted at once. The
// controller switches on ToolCall presence.
type Decision struct {
	Content  string
	ToolCall *ToolCall
}

// Model is a chat-capable LLM. When tool is non-nil the model may answer
// directly or request the tool; when nil it must answer.
type Model interface {
	Chat(ctx context.Context, messages []Message, tool *ToolSpec) (*Decision, error)
}

// Tool is the retrieval capability executed when the decision model asks
// for it. The content string feeds the generator; the documents are kept
// for citation display only.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, query string) (content string, docs []corpus.Chunk)
}

// State identifies the controller's position within one conversation turn.
type State int

const (
	StateAwaitingDecision State = iota
	StateToolInvocation
	StateGenerating
	StateDone
)

// Snapshot is one intermediate view of the conversation, emitted per state
// transition. Consumers inspect the last message of each snapshot, or wait
// for the terminal StateDone snapshot.
type Snapshot struct {
	State    State
	Messages []Message
	Err      error
}

// GenerationError marks a fatal LLM failure within a turn. There is no
// retry; the turn aborts and the caller decides how to surface it.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Controller drives one conversation turn through
// AwaitingDecision → (ToolInvocation → Generating) | Done.
type Controller struct {
	decider   Model
	generator Model
	tool      Tool
	grounding func(docsContent string) string
	logger    *zap.Logger
}

// NewController wires the decision model, the answer generator, the
// retrieval tool, and the grounding-instruction builder. All collaborators
// are explicit; there are no package-level defaults.
func NewController(decider, generator Model, tool Tool, grounding func(string) string, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		decider:   decider,
		generator: generator,
		tool:      tool,
		grounding: grounding,
		logger:    logger,
	}
}

// spec describes the bound tool to the decision model.
func (c *Controller) spec() *ToolSpec {
	return &ToolSpec{
		Name:        c.tool.Name(),
		Description: c.tool.Description(),
		ArgName:     "pregunta",
		ArgDesc:     "La pregunta del usuario, reformulada si es necesario.",
	}
}

// Stream runs one turn over history and lazily emits a snapshot per state
// transition, terminating with a StateDone snapshot that carries either the
// final answer or the turn's fatal error. The channel is closed when the
// turn ends.
func (c *Controller) Stream(ctx context.Context, history []Message) <-chan Snapshot {
	out := make(chan Snapshot, 4)

	go func() {
		defer close(out)

		messages := append([]Message(nil), history...)

		decision, err := c.decider.Chat(ctx, messages, c.spec())
		if err != nil {
			out <- Snapshot{State: StateDone, Messages: messages, Err: &GenerationError{Stage: "decision", Err: err}}
			return
		}

		if decision.ToolCall == nil {
			// Direct answer, no retrieval needed.
			messages = append(messages, Message{Role: RoleAssistantFinal, Content: decision.Content})
			out <- Snapshot{State: StateDone, Messages: messages}
			return
		}

		messages = append(messages, Message{
			Role:     RoleAssistantToolCall,
			Content:  decision.Content,
			ToolCall: decision.ToolCall,
		})
		out <- Snapshot{State: StateToolInvocation, Messages: snapshotMessages(messages)}

		content, docs := c.tool.Invoke(ctx, decision.ToolCall.Query)
		messages = append(messages, Message{Role: RoleToolResult, Content: content, Documents: docs})
		out <- Snapshot{State: StateGenerating, Messages: snapshotMessages(messages)}

		answer, err := c.generate(ctx, messages)
		if err != nil {
			out <- Snapshot{State: StateDone, Messages: messages, Err: &GenerationError{Stage: "generation", Err: err}}
			return
		}

		messages = append(messages, Message{Role: RoleAssistantFinal, Content: answer})
		out <- Snapshot{State: StateDone, Messages: messages}
	}()

	return out
}

// Ask runs a full turn and blocks for the terminal snapshot.
func (c *Controller) Ask(ctx context.Context, history []Message) ([]Message, error) {
	var last Snapshot
	for snapshot := range c.Stream(ctx, history) {
		last = snapshot
	}
	if last.Err != nil {
		return last.Messages, last.Err
	}
	return last.Messages, nil
}

// generate builds the grounded prompt and produces the final answer. Tool
// results reach the generator only through the synthesized system
// instruction, never as prompt messages.
func (c *Controller) generate(ctx context.Context, messages []Message) (string, error) {
	// Collect the tool results of the current turn: scan backward until a
	// non-tool message, then restore chronological order.
	var recent []string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleToolResult {
			break
		}
		recent = append([]string{messages[i].Content}, recent...)
	}
	docsContent := strings.Join(recent, "\n\n")

	prompt := []Message{{Role: RoleSystem, Content: c.grounding(docsContent)}}
	for _, m := range messages {
		switch m.Role {
		case RoleUser, RoleSystem, RoleAssistantFinal:
			prompt = append(prompt, m)
		case RoleAssistantToolCall, RoleToolResult:
			// excluded: their content is already inside the system instruction
		}
	}

	decision, err := c.generator.Chat(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return decision.Content, nil
}

// snapshotMessages copies the working slice so later appends cannot mutate
// an already-emitted snapshot.
func snapshotMessages(messages []Message) []Message {
	return append([]Message(nil), messages...)
}
