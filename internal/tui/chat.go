package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/transito-ai/cli/internal/chat"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(2)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// entry is one rendered transcript item.
type entry struct {
	role     string
	text     string
	contexts []string
}

// ChatView is the interactive chat screen. It feeds user turns into the
// conversation controller and renders each streamed snapshot: the final
// answer first, then the retrieved article context beneath it.
type ChatView struct {
	controller *chat.Controller
	history    []chat.Message
	transcript []entry
	input      string
	status     string
	width      int
	snapshots  <-chan chat.Snapshot
}

// NewChatView creates the chat screen over a ready controller.
func NewChatView(controller *chat.Controller) *ChatView {
	return &ChatView{controller: controller, width: 80}
}

// Run starts the interactive chat program.
func (cv *ChatView) Run() error {
	_, err := tea.NewProgram(cv).Run()
	return err
}

// Init implements tea.Model
func (cv *ChatView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (cv *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cv.width = msg.Width
		return cv, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return cv, tea.Quit
		case tea.KeyEnter:
			return cv, cv.submit()
		case tea.KeyBackspace:
			if len(cv.input) > 0 {
				runes := []rune(cv.input)
				cv.input = string(runes[:len(runes)-1])
			}
			return cv, nil
		case tea.KeyRunes:
			if cv.status == "" {
				cv.input += string(msg.Runes)
			}
			return cv, nil
		case tea.KeySpace:
			if cv.status == "" {
				cv.input += " "
			}
			return cv, nil
		}

	case snapshotMsg:
		return cv.applySnapshot(chat.Snapshot(msg))

	case turnDoneMsg:
		cv.status = ""
		cv.snapshots = nil
		return cv, nil
	}

	return cv, nil
}

// View implements tea.Model
func (cv *ChatView) View() string {
	var lines []string
	lines = append(lines, titleStyle.Render("Asistente del Código Nacional de Tránsito"))
	lines = append(lines, "")

	for _, e := range cv.transcript {
		switch e.role {
		case "user":
			lines = append(lines, userStyle.Render("Tú: ")+e.text)
		case "error":
			lines = append(lines, errorStyle.Render("Error: "+e.text))
		default:
			lines = append(lines, botStyle.Render("Asistente: "+e.text))
			for _, c := range e.contexts {
				lines = append(lines, contextStyle.Render(c))
			}
		}
		lines = append(lines, "")
	}

	if cv.status != "" {
		lines = append(lines, statusStyle.Render(cv.status))
		lines = append(lines, "")
	}

	lines = append(lines, "> "+cv.input+"█")
	lines = append(lines, helpStyle.Render("Enter: enviar | Esc: salir"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// submit sends the current input as a new user turn.
func (cv *ChatView) submit() tea.Cmd {
	question := strings.TrimSpace(cv.input)
	if question == "" || cv.status != "" {
		return nil
	}

	cv.input = ""
	cv.status = "Pensando..."
	cv.transcript = append(cv.transcript, entry{role: "user", text: question})
	cv.history = append(cv.history, chat.UserMessage(question))

	cv.snapshots = cv.controller.Stream(context.Background(), cv.history)
	return cv.waitSnapshot()
}

// applySnapshot folds one controller snapshot into the view state.
func (cv *ChatView) applySnapshot(s chat.Snapshot) (tea.Model, tea.Cmd) {
	switch s.State {
	case chat.StateToolInvocation:
		cv.status = "Consultando el código..."
	case chat.StateGenerating:
		cv.status = "Redactando respuesta..."
	case chat.StateDone:
		cv.status = ""
		if s.Err != nil {
			cv.transcript = append(cv.transcript, entry{role: "error", text: s.Err.Error()})
			return cv, cv.waitSnapshot()
		}
		cv.history = s.Messages
		cv.transcript = append(cv.transcript, finalEntry(s.Messages))
	}
	return cv, cv.waitSnapshot()
}

// finalEntry extracts the final answer and the tool context of the turn.
func finalEntry(messages []chat.Message) entry {
	e := entry{role: "assistant"}
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role == chat.RoleAssistantFinal && e.text == "" {
			e.text = m.Content
			continue
		}
		if m.Role == chat.RoleToolResult {
			e.contexts = append(e.contexts, m.Content)
			continue
		}
		if e.text != "" && m.Role == chat.RoleUser {
			break
		}
	}
	return e
}

// waitSnapshot reads the next snapshot off the stream.
func (cv *ChatView) waitSnapshot() tea.Cmd {
	ch := cv.snapshots
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return turnDoneMsg{}
		}
		return snapshotMsg(s)
	}
}

// snapshotMsg carries one controller snapshot into the update loop.
type snapshotMsg chat.Snapshot

// turnDoneMsg signals the snapshot stream has closed.
type turnDoneMsg struct{}

var _ tea.Model = (*ChatView)(nil)
