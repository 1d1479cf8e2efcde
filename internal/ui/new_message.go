package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/models"
)

type followerItem struct {
	user models.UserBasic
}

func (i followerItem) Title() string {
	if i.user.DisplayName != "" {
		return i.user.DisplayName
	}
	return i.user.Username
}

func (i followerItem) Description() string { return "@" + i.user.Username }
func (i followerItem) FilterValue() string { return i.user.Username + " " + i.user.DisplayName }

type followersFetchedMsg struct {
	followers []models.UserBasic
	err       error
}

type conversationCreatedMsg struct {
	result  api.CreateConversationResult
	restore string
	err     error
}

// NewMessageModel starts a conversation: pick one of your followers, write
// the first message, and land in the new chat. The backend reuses an
// existing thread if there is one.
type NewMessageModel struct {
	app          *App
	followers    []models.UserBasic
	recipient    *models.UserBasic
	list         list.Model
	textarea     textarea.Model
	loading      bool
	sending      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewNewMessageModel(app *App) NewMessageModel {
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
	l.Title = "New Message - pick a follower"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ta := textarea.New()
	ta.Placeholder = "Say hi..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	return NewMessageModel{
		app:          app,
		list:         l,
		textarea:     ta,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m NewMessageModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchFollowersCmd())
}

func (m NewMessageModel) fetchFollowersCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		followers, err := app.Client.Followers(context.Background(), app.Username())
		return followersFetchedMsg{followers: followers, err: err}
	}
}

func (m NewMessageModel) createCmd(recipient, message string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		result, err := app.Client.CreateConversation(context.Background(), app.Username(), recipient, message)
		if err != nil {
			return conversationCreatedMsg{restore: message, err: err}
		}
		return conversationCreatedMsg{result: result}
	}
}

func (m NewMessageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		m.textarea.SetWidth(msg.Width - 4)
		return m, nil

	case followersFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.followers = msg.followers
		items := make([]list.Item, len(msg.followers))
		for i, follower := range msg.followers {
			items[i] = followerItem{user: follower}
		}
		m.list.SetItems(items)
		return m, nil

	case conversationCreatedMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.textarea.SetValue(msg.restore)
			m.textarea.Focus()
			return m, textarea.Blink
		}
		return resize(NewChatModel(m.app, msg.result.ConversationID), m.windowWidth, m.windowHeight)

	case spinner.TickMsg:
		if m.loading || m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			if m.recipient != nil {
				m.recipient = nil
				m.textarea.Reset()
				m.textarea.Blur()
				m.err = nil
				return m, nil
			}
			return resize(NewConversationsModel(m.app), m.windowWidth, m.windowHeight)
		}

		// Composing the first message to the chosen follower.
		if m.recipient != nil {
			if msg.String() == "ctrl+s" {
				text := strings.TrimSpace(m.textarea.Value())
				if text == "" {
					return m, nil
				}
				m.sending = true
				m.textarea.Reset()
				m.textarea.Blur()
				return m, tea.Batch(m.spinner.Tick, m.createCmd(m.recipient.Username, text))
			}
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}

		if msg.String() == "enter" && !m.loading && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(followerItem); ok {
				user := item.user
				m.recipient = &user
				m.textarea.Focus()
				return m, textarea.Blink
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m NewMessageModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading followers...\n", m.spinner.View())
	}

	if m.recipient != nil {
		name := m.recipient.DisplayName
		if name == "" {
			name = m.recipient.Username
		}
		s := titleStyle.Render(fmt.Sprintf("Message to %s", name)) + "\n\n"
		if m.sending {
			s += fmt.Sprintf("  %s Sending...\n\n", m.spinner.View())
		}
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		}
		s += m.textarea.View() + "\n\n"
		s += helpStyle.Render("ctrl+s: send • esc: back")
		return s
	}

	if m.err != nil {
		s := titleStyle.Render("New Message") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("esc: back")
		return s
	}

	if len(m.followers) == 0 {
		s := titleStyle.Render("New Message") + "\n\n"
		s += normalStyle.Render("  You have no followers to message yet.") + "\n"
		s += "\n" + helpStyle.Render("esc: back")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: choose • /: filter • esc: back")
	return s
}
