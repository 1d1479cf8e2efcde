package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/campusconnect/quad/internal/chat"
)

type chatRefreshedMsg struct {
	changed bool
}

type chatPollMsg struct{}

type chatSentMsg struct {
	restore string
	err     error
}

type ChatModel struct {
	app           *App
	controller    *chat.Controller
	viewport      viewport.Model
	textarea      textarea.Model
	loading       bool
	sending       bool
	composing     bool
	err           error
	spinner       spinner.Model
	windowWidth   int
	windowHeight  int
	viewportReady bool
}

// NewChatModel opens one conversation. The message list converges with
// server state through the controller's fixed-interval refresh; the screen
// only re-renders when a poll actually changed something.
func NewChatModel(app *App, conversationID int) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	return ChatModel{
		app:           app,
		controller:    chat.NewController(app.Client, conversationID, app.Username(), app.Log),
		viewport:      vp,
		textarea:      ta,
		loading:       true,
		spinner:       s,
		windowWidth:   80,
		windowHeight:  30,
		viewportReady: true,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), m.pollCmd())
}

func (m ChatModel) refreshCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		changed := controller.Refresh(context.Background())
		return chatRefreshedMsg{changed: changed}
	}
}

func (m ChatModel) pollCmd() tea.Cmd {
	return tea.Tick(m.app.Cfg.MessagePollInterval(), func(time.Time) tea.Msg {
		return chatPollMsg{}
	})
}

func (m ChatModel) sendCmd(text string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		if _, err := controller.Send(context.Background(), text); err != nil {
			// Hand the trimmed text back so the user can retry.
			return chatSentMsg{restore: strings.TrimSpace(text), err: err}
		}
		return chatSentMsg{}
	}
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		headerHeight := 4
		textareaHeight := 5
		helpHeight := 2
		availableHeight := msg.Height - headerHeight - helpHeight

		if m.composing {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = availableHeight - textareaHeight
			m.textarea.SetWidth(msg.Width - 4)
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = availableHeight
		}

		m.updateViewportContent()
		return m, nil

	case chatRefreshedMsg:
		if m.loading && m.controller.Ready() {
			m.loading = false
			msg.changed = true
		}
		if msg.changed {
			m.updateViewportContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case chatPollMsg:
		return m, tea.Batch(m.refreshCmd(), m.pollCmd())

	case chatSentMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.composing = true
			m.textarea.SetValue(msg.restore)
			m.textarea.Focus()
			return m, textarea.Blink
		}

		m.err = nil
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.controller.Close()
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			if m.composing {
				m.composing = false
				m.textarea.Reset()
				m.textarea.Blur()
				m.err = nil
				return m, nil
			}
			m.controller.Close()
			return resize(NewConversationsModel(m.app), m.windowWidth, m.windowHeight)
		}

		if m.composing {
			switch msg.String() {
			case "ctrl+s":
				messageText := strings.TrimSpace(m.textarea.Value())
				if messageText != "" {
					// Clear the input right away; it comes back on failure.
					m.sending = true
					m.composing = false
					m.textarea.Reset()
					m.textarea.Blur()
					return m, tea.Batch(m.spinner.Tick, m.sendCmd(messageText))
				}
				return m, nil
			default:
				var cmd tea.Cmd
				m.textarea, cmd = m.textarea.Update(msg)
				return m, cmd
			}
		}

		if m.loading || m.sending {
			return m, nil
		}

		switch msg.String() {
		case "n", "c":
			m.composing = true
			m.textarea.Focus()
			return m, textarea.Blink

		case "r":
			return m, m.refreshCmd()

		case "p":
			if participant := m.controller.Participant(); participant != nil {
				m.controller.Close()
				return resize(NewProfileModel(m.app, participant.Username), m.windowWidth, m.windowHeight)
			}
			return m, nil

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// updateViewportContent re-renders the transcript. Date groups are
// recomputed from the wall clock on every render so "Today" stays correct
// during a long-lived session.
func (m *ChatModel) updateViewportContent() {
	if !m.viewportReady {
		return
	}

	messages := m.controller.Messages()
	if len(messages) == 0 {
		m.viewport.SetContent("")
		return
	}

	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	now := time.Now()
	viewer := m.app.Username()

	var content strings.Builder
	for gi, group := range chat.GroupByDate(messages, now) {
		if gi > 0 {
			content.WriteString("\n")
		}
		content.WriteString(dateHeaderStyle.Width(wrapWidth).Render("── "+group.Label+" ──") + "\n\n")

		for _, message := range group.Messages {
			timestamp := chat.FormatClock(message.CreatedAt, now.Location())

			if message.Sender == viewer {
				header := messageHeaderStyle.Render(fmt.Sprintf("You • %s", timestamp))
				content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(header) + "\n")

				wrappedText := wordwrap.String(message.Content, wrapWidth-10)
				styledText := messageFromMeStyle.Render(wrappedText)
				content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(styledText) + "\n")
			} else {
				sender := message.Sender
				if participant := m.controller.Participant(); participant != nil && participant.Username == sender {
					sender = participant.DisplayName
				}
				header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, timestamp))
				content.WriteString(header + "\n")

				wrappedText := wordwrap.String(message.Content, wrapWidth-10)
				content.WriteString(messageFromOtherStyle.Render(wrappedText) + "\n")
			}
		}
	}

	m.viewport.SetContent(content.String())
}

func (m ChatModel) headerTitle() string {
	if participant := m.controller.Participant(); participant != nil {
		name := participant.DisplayName
		if name == "" {
			name = participant.Username
		}
		return fmt.Sprintf("💬 %s", name)
	}
	return "💬 Chat"
}

func (m ChatModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading messages...\n", m.spinner.View())
	}

	s := titleStyle.Render(m.headerTitle()) + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if m.sending {
		s += fmt.Sprintf("  %s Sending message...\n", m.spinner.View())
	} else if len(m.controller.Messages()) == 0 {
		s += normalStyle.Render("  No messages in this conversation.") + "\n"
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.composing {
		s += "\n" + inputStyle.Render("New Message:") + "\n"
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("ctrl+s: send • esc: cancel")
	} else {
		scrollPercent := int(m.viewport.ScrollPercent() * 100)
		s += "\n" + helpStyle.Render(fmt.Sprintf("↑↓/jk: scroll • n: new message • p: profile • r: refresh • esc: back • %d%%", scrollPercent))
	}

	return s
}
