package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/models"
)

type notificationItem struct {
	notification models.Notification
}

func (i notificationItem) Title() string {
	marker := "  "
	if !i.notification.Read {
		marker = unreadStyle.Render("● ")
	}
	name := i.notification.SenderDisplayName
	if name == "" {
		name = i.notification.SenderName
	}
	return marker + name
}

func (i notificationItem) Description() string {
	return fmt.Sprintf("%s • %s", formatTimeAgo(i.notification.CreatedAt), truncate(i.notification.Message, 60))
}

func (i notificationItem) FilterValue() string { return i.notification.Message }

type notificationsFetchedMsg struct {
	notifications []models.Notification
	err           error
}

type notificationsMarkedMsg struct {
	err error
}

type NotificationsModel struct {
	app           *App
	notifications []models.Notification
	list          list.Model
	loading       bool
	err           error
	spinner       spinner.Model
	windowWidth   int
	windowHeight  int
}

// NewNotificationsModel creates the notifications screen.
func NewNotificationsModel(app *App) NotificationsModel {
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
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return NotificationsModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m NotificationsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchNotificationsCmd())
}

func (m NotificationsModel) fetchNotificationsCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		notifications, err := app.Client.Notifications(context.Background(), app.Username())
		return notificationsFetchedMsg{notifications: notifications, err: err}
	}
}

func (m NotificationsModel) markReadCmd(id int64) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		return notificationsMarkedMsg{err: app.Client.MarkNotificationRead(context.Background(), id)}
	}
}

func (m NotificationsModel) markAllReadCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		return notificationsMarkedMsg{err: app.Client.MarkAllNotificationsRead(context.Background(), app.Username())}
	}
}

func (m *NotificationsModel) setItems(notifications []models.Notification) {
	m.notifications = notifications
	items := make([]list.Item, len(notifications))
	unread := 0
	for i, n := range notifications {
		items[i] = notificationItem{notification: n}
		if !n.Read {
			unread++
		}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Notifications - %d unread", unread)
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case notificationsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			if len(m.notifications) == 0 {
				m.err = msg.err
			}
			m.app.Log.Warn("notifications fetch failed", zap.Error(msg.err))
			return m, nil
		}
		m.err = nil
		m.setItems(msg.notifications)
		return m, nil

	case notificationsMarkedMsg:
		if msg.err != nil {
			m.app.Log.Warn("failed to mark notification read", zap.Error(msg.err))
			return m, nil
		}
		return m, m.fetchNotificationsCmd()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc", "q":
			return resize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)

		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchNotificationsCmd())
			}
			return m, nil

		case "a":
			return m, m.markAllReadCmd()

		case "enter":
			item, ok := m.list.SelectedItem().(notificationItem)
			if !ok {
				return m, nil
			}
			cmds := []tea.Cmd{}
			if !item.notification.Read {
				cmds = append(cmds, m.markReadCmd(item.notification.ID))
			}
			// Likes and comments carry a post id; follows open the sender.
			if item.notification.PostID != nil {
				next, cmd := resize(NewPostModel(m.app, int(*item.notification.PostID)), m.windowWidth, m.windowHeight)
				return next, tea.Batch(append(cmds, cmd)...)
			}
			if item.notification.Type == "follow" {
				next, cmd := resize(NewProfileModel(m.app, item.notification.SenderName), m.windowWidth, m.windowHeight)
				return next, tea.Batch(append(cmds, cmd)...)
			}
			return m, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.loading && len(m.notifications) == 0 {
		return fmt.Sprintf("\n  %s Loading notifications...\n", m.spinner.View())
	}

	if m.err != nil && len(m.notifications) == 0 {
		s := titleStyle.Render("Notifications") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back")
		return s
	}

	if len(m.notifications) == 0 {
		s := titleStyle.Render("Notifications") + "\n\n"
		s += normalStyle.Render("  You're all caught up.") + "\n"
		s += "\n" + helpStyle.Render("r: refresh • esc: back")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("enter: open • a: mark all read • r: refresh • esc: back")
	return s
}
