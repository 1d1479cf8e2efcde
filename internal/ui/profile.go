package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/campusconnect/quad/internal/models"
)

type profileFetchedMsg struct {
	page      models.ProfilePage
	following bool
	err       error
}

type followToggledMsg struct {
	following bool
	err       error
}

type ProfileModel struct {
	app          *App
	username     string
	page         models.ProfilePage
	following    bool
	viewport     viewport.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewProfileModel opens a user's profile, own or someone else's.
func NewProfileModel(app *App, username string) ProfileModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return ProfileModel{
		app:          app,
		username:     username,
		viewport:     viewport.New(80, 20),
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ProfileModel) isOwn() bool {
	return m.username == m.app.Username()
}

func (m ProfileModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchProfileCmd())
}

func (m ProfileModel) fetchProfileCmd() tea.Cmd {
	app := m.app
	username := m.username
	own := m.isOwn()
	return func() tea.Msg {
		ctx := context.Background()
		page, err := app.Client.Profile(ctx, username)
		if err != nil {
			return profileFetchedMsg{err: err}
		}
		if own {
			return profileFetchedMsg{page: page}
		}
		following, err := app.Client.FollowStatus(ctx, app.Username(), username)
		if err != nil {
			return profileFetchedMsg{page: page}
		}
		return profileFetchedMsg{page: page, following: following}
	}
}

func (m ProfileModel) toggleFollowCmd() tea.Cmd {
	app := m.app
	username := m.username
	return func() tea.Msg {
		following, err := app.Client.ToggleFollow(context.Background(), app.Username(), username)
		return followToggledMsg{following: following, err: err}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		m.updateViewportContent()
		return m, nil

	case profileFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.following = msg.following
		m.updateViewportContent()
		return m, nil

	case followToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.following = msg.following
		m.updateViewportContent()
		return m, nil

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
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchProfileCmd())

		case "f":
			if !m.isOwn() && !m.loading {
				return m, m.toggleFollowCmd()
			}
			return m, nil

		case "e":
			if m.isOwn() && !m.loading {
				return resize(NewProfileEditModel(m.app, m.page.User), m.windowWidth, m.windowHeight)
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

func (m *ProfileModel) updateViewportContent() {
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	user := m.page.User
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	var content strings.Builder
	content.WriteString(labelStyle.Render(name) + "  " + messageHeaderStyle.Render("@"+user.Username) + "\n")
	if !user.CreatedAt.IsZero() {
		content.WriteString(messageHeaderStyle.Render("Joined "+user.CreatedAt.Format("January 2006")) + "\n")
	}
	if !m.isOwn() {
		followState := "not following"
		if m.following {
			followState = "following"
		}
		content.WriteString(statusStyle.Render(followState) + "\n")
	}
	content.WriteString("\n")

	if len(m.page.Posts) == 0 {
		content.WriteString(helpStyle.Render("No posts yet.") + "\n")
	} else {
		content.WriteString(labelStyle.Render(fmt.Sprintf("Posts (%d)", len(m.page.Posts))) + "\n\n")
		for _, post := range m.page.Posts {
			content.WriteString(messageHeaderStyle.Render(formatTimeAgo(post.CreatedAt)) + "\n")
			content.WriteString(normalStyle.Render(wordwrap.String(post.Content, wrapWidth-4)) + "\n")
			content.WriteString(statusStyle.Render(fmt.Sprintf("♥ %d • 💬 %d", post.LikesCount, post.CommentsCount)) + "\n\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m ProfileModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading profile...\n", m.spinner.View())
	}

	s := titleStyle.Render("Profile") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	s += m.viewport.View() + "\n\n"

	if m.isOwn() {
		s += helpStyle.Render("↑↓/jk: scroll • e: edit • r: refresh • esc: back")
	} else {
		s += helpStyle.Render("↑↓/jk: scroll • f: follow/unfollow • r: refresh • esc: back")
	}
	return s
}
