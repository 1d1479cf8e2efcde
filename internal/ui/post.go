package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/models"
)

type postFetchedMsg struct {
	detail models.PostDetail
	liked  bool
	err    error
}

type commentPostedMsg struct {
	restore string
	err     error
}

type postLikeToggledMsg struct {
	status api.LikeStatus
	err    error
}

type PostModel struct {
	app          *App
	postID       int
	detail       models.PostDetail
	liked        bool
	viewport     viewport.Model
	textarea     textarea.Model
	loading      bool
	sending      bool
	composing    bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewPostModel opens a single post with its comments.
func NewPostModel(app *App, postID int) PostModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Write a comment..."
	ta.CharLimit = 500
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	return PostModel{
		app:          app,
		postID:       postID,
		viewport:     vp,
		textarea:     ta,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m PostModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchPostCmd())
}

func (m PostModel) fetchPostCmd() tea.Cmd {
	app := m.app
	postID := m.postID
	return func() tea.Msg {
		ctx := context.Background()
		detail, err := app.Client.ViewPost(ctx, postID)
		if err != nil {
			return postFetchedMsg{err: err}
		}
		status, err := app.Client.CheckLikeStatus(ctx, postID, app.Username())
		if err != nil {
			// The post still renders; the heart state just defaults off.
			return postFetchedMsg{detail: detail}
		}
		return postFetchedMsg{detail: detail, liked: status.IsLiked}
	}
}

func (m PostModel) toggleLikeCmd() tea.Cmd {
	app := m.app
	postID := m.postID
	return func() tea.Msg {
		status, err := app.Client.ToggleLike(context.Background(), postID, app.Username())
		return postLikeToggledMsg{status: status, err: err}
	}
}

func (m PostModel) postCommentCmd(content string) tea.Cmd {
	app := m.app
	postID := m.postID
	return func() tea.Msg {
		if _, err := app.Client.CreateComment(context.Background(), postID, app.Username(), content); err != nil {
			return commentPostedMsg{restore: content, err: err}
		}
		return commentPostedMsg{}
	}
}

func (m PostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case postFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.detail = msg.detail
		m.liked = msg.liked
		m.updateViewportContent()
		return m, nil

	case postLikeToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.liked = msg.status.IsLiked
		m.detail.Post.LikesCount = msg.status.Count
		m.updateViewportContent()
		return m, nil

	case commentPostedMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.composing = true
			m.textarea.SetValue(msg.restore)
			m.textarea.Focus()
			return m, textarea.Blink
		}
		m.err = nil
		return m, m.fetchPostCmd()

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
			if m.composing {
				m.composing = false
				m.textarea.Reset()
				m.textarea.Blur()
				m.err = nil
				return m, nil
			}
			return resize(NewFeedModel(m.app), m.windowWidth, m.windowHeight)
		}

		if m.composing {
			switch msg.String() {
			case "ctrl+s":
				content := strings.TrimSpace(m.textarea.Value())
				if content != "" {
					m.sending = true
					m.composing = false
					m.textarea.Reset()
					m.textarea.Blur()
					return m, tea.Batch(m.spinner.Tick, m.postCommentCmd(content))
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
		case "c", "n":
			m.composing = true
			m.textarea.Focus()
			return m, textarea.Blink

		case "l":
			return m, m.toggleLikeCmd()

		case "u":
			return resize(NewProfileModel(m.app, m.detail.Post.Username), m.windowWidth, m.windowHeight)

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchPostCmd())

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *PostModel) updateViewportContent() {
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	post := m.detail.Post
	name := post.DisplayName
	if name == "" {
		name = post.Username
	}

	heart := "♡"
	if m.liked {
		heart = "♥"
	}

	var content strings.Builder
	content.WriteString(labelStyle.Render(fmt.Sprintf("%s (@%s)", name, post.Username)) + "\n")
	content.WriteString(messageHeaderStyle.Render(formatTimeAgo(post.CreatedAt)) + "\n\n")
	content.WriteString(normalStyle.Render(wordwrap.String(post.Content, wrapWidth-4)) + "\n\n")
	content.WriteString(statusStyle.Render(fmt.Sprintf("%s %d • 💬 %d", heart, post.LikesCount, post.CommentsCount)) + "\n\n")

	if len(m.detail.Comments) == 0 {
		content.WriteString(helpStyle.Render("No comments yet.") + "\n")
	} else {
		content.WriteString(labelStyle.Render("Comments") + "\n\n")
		for _, comment := range m.detail.Comments {
			commentName := comment.DisplayName
			if commentName == "" {
				commentName = comment.Username
			}
			content.WriteString(messageHeaderStyle.Render(fmt.Sprintf("%s • %s", commentName, formatTimeAgo(comment.CreatedAt))) + "\n")
			content.WriteString(normalStyle.Render(wordwrap.String(comment.Content, wrapWidth-4)) + "\n\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m PostModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading post...\n", m.spinner.View())
	}

	s := titleStyle.Render("Post") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if m.sending {
		s += fmt.Sprintf("  %s Posting comment...\n", m.spinner.View())
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.composing {
		s += "\n" + inputStyle.Render("New Comment:") + "\n"
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("ctrl+s: post • esc: cancel")
	} else {
		s += "\n" + helpStyle.Render("↑↓/jk: scroll • c: comment • l: like • u: profile • r: refresh • esc: back")
	}

	return s
}
