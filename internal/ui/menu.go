package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/session"
)

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

type unreadCountsMsg struct {
	messages      int
	notifications int
}

type MenuModel struct {
	app          *App
	list         list.Model
	unreadMsgs   int
	unreadNotifs int
	windowWidth  int
	windowHeight int
}

// NewMenuModel creates the main menu shown after login.
func NewMenuModel(app *App) MenuModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("215")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(menuItems(0, 0), delegate, 80, 20)
	l.Title = fmt.Sprintf("Quad - @%s", app.Username())
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		app:          app,
		list:         l,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func menuItems(unreadMsgs, unreadNotifs int) []list.Item {
	messagesTitle := "Messages"
	if unreadMsgs > 0 {
		messagesTitle = fmt.Sprintf("Messages (%d)", unreadMsgs)
	}
	notificationsTitle := "Notifications"
	if unreadNotifs > 0 {
		notificationsTitle = fmt.Sprintf("Notifications (%d)", unreadNotifs)
	}

	return []list.Item{
		menuItem{title: "Feed", desc: "Posts from people you follow"},
		menuItem{title: messagesTitle, desc: "Direct messages"},
		menuItem{title: notificationsTitle, desc: "Likes, comments and follows"},
		menuItem{title: "Search", desc: "Find people"},
		menuItem{title: "Profile", desc: "Your profile and posts"},
		menuItem{title: "Logout", desc: "Sign out of this device"},
	}
}

func (m MenuModel) Init() tea.Cmd {
	return m.fetchUnreadCountsCmd()
}

func (m MenuModel) fetchUnreadCountsCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx := context.Background()
		msgs, err := app.Client.UnreadMessagesCount(ctx, app.Username())
		if err != nil {
			msgs = 0
		}
		notifs, err := app.Client.UnreadNotificationsCount(ctx, app.Username())
		if err != nil {
			notifs = 0
		}
		return unreadCountsMsg{messages: msgs, notifications: notifs}
	}
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case unreadCountsMsg:
		m.unreadMsgs = msg.messages
		m.unreadNotifs = msg.notifications
		m.list.SetItems(menuItems(m.unreadMsgs, m.unreadNotifs))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

		if msg.String() == "enter" {
			selectedItem, ok := m.list.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			return m.open(selectedItem.title)
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) open(title string) (tea.Model, tea.Cmd) {
	switch {
	case title == "Feed":
		return resize(NewFeedModel(m.app), m.windowWidth, m.windowHeight)
	case len(title) >= 8 && title[:8] == "Messages":
		return resize(NewConversationsModel(m.app), m.windowWidth, m.windowHeight)
	case len(title) >= 13 && title[:13] == "Notifications":
		return resize(NewNotificationsModel(m.app), m.windowWidth, m.windowHeight)
	case title == "Search":
		return resize(NewSearchModel(m.app), m.windowWidth, m.windowHeight)
	case title == "Profile":
		return resize(NewProfileModel(m.app, m.app.Username()), m.windowWidth, m.windowHeight)
	case title == "Logout":
		if err := session.Clear(m.app.DataDir); err != nil {
			m.app.Log.Warn("failed to clear session", zap.Error(err))
		}
		m.app.User = nil
		return resize(NewLoginModel(m.app), m.windowWidth, m.windowHeight)
	}
	return m, nil
}

func (m MenuModel) View() string {
	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: select • q: quit")
	return s
}
