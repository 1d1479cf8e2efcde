package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/models"
)

type conversationItem struct {
	preview models.ConversationPreview
	viewer  string
}

func (i conversationItem) Title() string {
	name := "Conversation"
	for _, p := range i.preview.Participants {
		if p.Username != i.viewer {
			if p.DisplayName != "" {
				name = p.DisplayName
			} else {
				name = p.Username
			}
			break
		}
	}
	if i.preview.UnreadCount > 0 {
		return name + unreadStyle.Render(fmt.Sprintf(" (%d)", i.preview.UnreadCount))
	}
	return name
}

func (i conversationItem) Description() string {
	last := i.preview.LastMessage
	prefix := ""
	if last.Sender == i.viewer {
		prefix = "You: "
	}
	return fmt.Sprintf("%s • %s", formatTimeAgo(last.CreatedAt), prefix+truncate(last.Content, 50))
}

func (i conversationItem) FilterValue() string { return i.Title() }

type conversationsFetchedMsg struct {
	previews []models.ConversationPreview
	cached   bool
	err      error
}

type conversationsPollMsg struct{}

type ConversationsModel struct {
	app          *App
	previews     []models.ConversationPreview
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewConversationsModel creates the direct-messages screen. The list is
// refreshed on a fixed interval while the screen is open.
func NewConversationsModel(app *App) ConversationsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("215")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Messages"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ConversationsModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ConversationsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCachedCmd(), m.fetchConversationsCmd(), m.pollCmd())
}

// loadCachedCmd paints the last snapshot from the local cache while the
// first fetch is in flight.
func (m ConversationsModel) loadCachedCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		previews, ok, err := app.Store.LoadConversations(app.Username())
		if err != nil || !ok {
			return nil
		}
		return conversationsFetchedMsg{previews: previews, cached: true}
	}
}

func (m ConversationsModel) fetchConversationsCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		previews, err := app.Client.Conversations(context.Background(), app.Username())
		if err != nil {
			return conversationsFetchedMsg{err: err}
		}
		if err := app.Store.SaveConversations(app.Username(), previews); err != nil {
			app.Log.Warn("failed to cache conversations", zap.Error(err))
		}
		return conversationsFetchedMsg{previews: previews}
	}
}

func (m ConversationsModel) pollCmd() tea.Cmd {
	return tea.Tick(m.app.Cfg.ConversationPollInterval(), func(time.Time) tea.Msg {
		return conversationsPollMsg{}
	})
}

func (m *ConversationsModel) setItems(previews []models.ConversationPreview) {
	m.previews = previews
	items := make([]list.Item, len(previews))
	for i, preview := range previews {
		items[i] = conversationItem{preview: preview, viewer: m.app.Username()}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Messages - %d conversations", len(previews))
}

func (m ConversationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case conversationsFetchedMsg:
		if msg.cached {
			if m.loading && len(m.previews) == 0 {
				m.loading = false
				m.setItems(msg.previews)
			}
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			// Poll failures keep the stale list on screen.
			if len(m.previews) == 0 {
				m.err = msg.err
			}
			m.app.Log.Warn("conversation list refresh failed", zap.Error(msg.err))
			return m, nil
		}

		m.err = nil
		m.setItems(msg.previews)
		return m, nil

	case conversationsPollMsg:
		return m, tea.Batch(m.fetchConversationsCmd(), m.pollCmd())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" || msg.String() == "q" {
			if m.list.FilterState() == list.Filtering {
				break
			}
			return resize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)
		}

		if msg.String() == "r" && !m.loading && m.list.FilterState() != list.Filtering {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchConversationsCmd())
		}

		if msg.String() == "n" && m.list.FilterState() != list.Filtering {
			return resize(NewNewMessageModel(m.app), m.windowWidth, m.windowHeight)
		}

		if msg.String() == "enter" && len(m.previews) > 0 && !m.loading {
			if item, ok := m.list.SelectedItem().(conversationItem); ok {
				return resize(NewChatModel(m.app, item.preview.ID), m.windowWidth, m.windowHeight)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ConversationsModel) View() string {
	if m.loading && len(m.previews) == 0 {
		return fmt.Sprintf("\n  %s Loading conversations...\n", m.spinner.View())
	}

	if m.err != nil && len(m.previews) == 0 {
		s := titleStyle.Render("Messages") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back • ctrl+c: quit")
		return s
	}

	if len(m.previews) == 0 {
		s := titleStyle.Render("Messages") + "\n\n"
		s += normalStyle.Render("  No conversations yet.") + "\n"
		s += "\n" + helpStyle.Render("n: new message • r: refresh • esc: back")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: open • n: new message • /: filter • r: refresh • esc: back")
	return s
}
