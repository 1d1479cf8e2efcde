package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/models"
)

type feedItem struct {
	post models.FeedPost
}

func (i feedItem) Title() string {
	name := i.post.DisplayName
	if name == "" {
		name = i.post.Username
	}
	return fmt.Sprintf("%s (@%s)", name, i.post.Username)
}

func (i feedItem) Description() string {
	return fmt.Sprintf("%s • ♥ %d • 💬 %d • %s",
		formatTimeAgo(i.post.CreatedAt), i.post.LikesCount, i.post.CommentsCount, truncate(i.post.Content, 60))
}

func (i feedItem) FilterValue() string { return i.post.Username + " " + i.post.Content }

type feedFetchedMsg struct {
	posts  []models.FeedPost
	cached bool
	err    error
}

type likeToggledMsg struct {
	postID int
	status api.LikeStatus
	err    error
}

type FeedModel struct {
	app          *App
	posts        []models.FeedPost
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewFeedModel creates the home feed screen.
func NewFeedModel(app *App) FeedModel {
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
	l.Title = "Feed"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return FeedModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m FeedModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCachedCmd(), m.fetchFeedCmd())
}

func (m FeedModel) loadCachedCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		posts, ok, err := app.Store.LoadFeed(app.Username())
		if err != nil || !ok {
			return nil
		}
		return feedFetchedMsg{posts: posts, cached: true}
	}
}

func (m FeedModel) fetchFeedCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		posts, err := app.Client.Feed(context.Background(), app.Username())
		if err != nil {
			return feedFetchedMsg{err: err}
		}
		if err := app.Store.SaveFeed(app.Username(), posts); err != nil {
			app.Log.Warn("failed to cache feed", zap.Error(err))
		}
		return feedFetchedMsg{posts: posts}
	}
}

func (m FeedModel) toggleLikeCmd(postID int) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		status, err := app.Client.ToggleLike(context.Background(), postID, app.Username())
		return likeToggledMsg{postID: postID, status: status, err: err}
	}
}

func (m *FeedModel) setItems(posts []models.FeedPost) {
	m.posts = posts
	items := make([]list.Item, len(posts))
	for i, post := range posts {
		items[i] = feedItem{post: post}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Feed - %d posts", len(posts))
}

func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case feedFetchedMsg:
		if msg.cached {
			if m.loading && len(m.posts) == 0 {
				m.loading = false
				m.setItems(msg.posts)
			}
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			if len(m.posts) == 0 {
				m.err = msg.err
			}
			m.app.Log.Warn("feed refresh failed", zap.Error(msg.err))
			return m, nil
		}

		m.err = nil
		m.setItems(msg.posts)
		return m, nil

	case likeToggledMsg:
		if msg.err != nil {
			m.app.Log.Warn("like toggle failed", zap.Int("post_id", msg.postID), zap.Error(msg.err))
			return m, nil
		}
		for i := range m.posts {
			if m.posts[i].ID == msg.postID {
				m.posts[i].LikesCount = msg.status.Count
			}
		}
		m.setItems(m.posts)
		return m, nil

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

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc", "q":
			return resize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)

		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchFeedCmd())
			}
			return m, nil

		case "n":
			return resize(NewComposeModel(m.app), m.windowWidth, m.windowHeight)

		case "l":
			if item, ok := m.list.SelectedItem().(feedItem); ok {
				return m, m.toggleLikeCmd(item.post.ID)
			}
			return m, nil

		case "u":
			if item, ok := m.list.SelectedItem().(feedItem); ok {
				return resize(NewProfileModel(m.app, item.post.Username), m.windowWidth, m.windowHeight)
			}
			return m, nil

		case "enter":
			if item, ok := m.list.SelectedItem().(feedItem); ok {
				return resize(NewPostModel(m.app, item.post.ID), m.windowWidth, m.windowHeight)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m FeedModel) View() string {
	if m.loading && len(m.posts) == 0 {
		return fmt.Sprintf("\n  %s Loading feed...\n", m.spinner.View())
	}

	if m.err != nil && len(m.posts) == 0 {
		s := titleStyle.Render("Feed") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back")
		return s
	}

	if len(m.posts) == 0 {
		s := titleStyle.Render("Feed") + "\n\n"
		s += normalStyle.Render("  Nothing here yet. Follow people to fill your feed.") + "\n"
		s += "\n" + helpStyle.Render("n: write post • r: refresh • esc: back")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("enter: open • l: like • u: profile • n: write post • /: filter • r: refresh • esc: back")
	return s
}
