package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusconnect/quad/internal/models"
)

type postCreatedMsg struct {
	post models.FeedPost
	err  error
}

type ComposeModel struct {
	app          *App
	textarea     textarea.Model
	submitting   bool
	err          error
	windowWidth  int
	windowHeight int
}

// NewComposeModel creates the write-post screen.
func NewComposeModel(app *App) ComposeModel {
	ta := textarea.New()
	ta.Placeholder = "What's happening on campus?"
	ta.CharLimit = 500
	ta.SetHeight(6)
	ta.ShowLineNumbers = false
	ta.Focus()

	return ComposeModel{
		app:          app,
		textarea:     ta,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ComposeModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m ComposeModel) submitCmd(content string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		post, err := app.Client.CreatePost(context.Background(), app.Username(), content)
		return postCreatedMsg{post: post, err: err}
	}
}

func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		return m, nil

	case postCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.textarea.Focus()
			return m, textarea.Blink
		}
		return resize(NewFeedModel(m.app), m.windowWidth, m.windowHeight)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			return resize(NewFeedModel(m.app), m.windowWidth, m.windowHeight)
		}

		if m.submitting {
			return m, nil
		}

		if msg.String() == "ctrl+s" {
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" {
				return m, nil
			}
			m.submitting = true
			m.err = nil
			m.textarea.Blur()
			return m, m.submitCmd(content)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m ComposeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Post") + "\n\n")
	b.WriteString(m.textarea.View() + "\n\n")

	if m.submitting {
		b.WriteString(statusStyle.Render("Posting...") + "\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	b.WriteString(helpStyle.Render("ctrl+s: post • esc: cancel"))
	return b.String()
}
