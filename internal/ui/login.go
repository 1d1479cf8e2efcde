package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/models"
	"github.com/campusconnect/quad/internal/session"
)

type authDoneMsg struct {
	account models.Account
	err     error
}

type LoginModel struct {
	app           *App
	registering   bool
	usernameInput textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	submitting    bool
	err           error
	windowWidth   int
	windowHeight  int
}

// NewLoginModel creates the sign-in screen. Tab between fields, ctrl+r
// switches to registration.
func NewLoginModel(app *App) LoginModel {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "Username"
	usernameInput.CharLimit = 50
	usernameInput.Width = 40

	emailInput := textinput.New()
	emailInput.Placeholder = "Email"
	emailInput.CharLimit = 100
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.CharLimit = 100
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'

	return LoginModel{
		app:           app,
		usernameInput: usernameInput,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		windowWidth:   80,
		windowHeight:  30,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) inputs() []*textinput.Model {
	if m.registering {
		return []*textinput.Model{&m.usernameInput, &m.emailInput, &m.passwordInput}
	}
	return []*textinput.Model{&m.emailInput, &m.passwordInput}
}

func (m *LoginModel) updateFocus() {
	inputs := m.inputs()
	for i, input := range inputs {
		if i == m.focusIndex {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m LoginModel) submitCmd() tea.Cmd {
	app := m.app
	registering := m.registering
	username := strings.TrimSpace(m.usernameInput.Value())
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()

	return func() tea.Msg {
		ctx := context.Background()
		var account models.Account
		var err error
		if registering {
			account, err = app.Client.Register(ctx, username, email, password)
		} else {
			account, err = app.Client.Login(ctx, email, password)
		}
		return authDoneMsg{account: account, err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		if err := session.Save(m.app.DataDir, msg.account); err != nil {
			m.app.Log.Warn("failed to save session", zap.Error(err))
		}
		m.app.User = &session.Session{
			Username:       msg.account.Username,
			Email:          msg.account.Email,
			DisplayName:    msg.account.DisplayName,
			ProfilePicture: msg.account.ProfilePicture,
		}
		m.app.Log.Info("logged in", zap.String("username", msg.account.Username))
		return resize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+r":
			m.registering = !m.registering
			m.focusIndex = 0
			m.err = nil
			m.updateFocus()
			return m, nil

		case "tab", "down":
			m.focusIndex = (m.focusIndex + 1) % len(m.inputs())
			m.updateFocus()
			return m, nil

		case "shift+tab", "up":
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs()) - 1
			}
			m.updateFocus()
			return m, nil

		case "enter":
			m.err = nil
			m.submitting = true
			return m, m.submitCmd()
		}
	}

	cmds := make([]tea.Cmd, 0, 3)
	var cmd tea.Cmd
	m.usernameInput, cmd = m.usernameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.emailInput, cmd = m.emailInput.Update(msg)
	cmds = append(cmds, cmd)
	m.passwordInput, cmd = m.passwordInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m LoginModel) View() string {
	var b strings.Builder

	title := "Sign in to Quad"
	if m.registering {
		title = "Create a Quad account"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	focusedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	blurredStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	renderInput := func(input textinput.Model, label string, focused bool) {
		style := blurredStyle
		if focused {
			style = focusedStyle
		}
		b.WriteString(style.Render(label) + "\n")
		b.WriteString(input.View() + "\n\n")
	}

	if m.registering {
		renderInput(m.usernameInput, "Username:", m.focusIndex == 0)
		renderInput(m.emailInput, "Email:", m.focusIndex == 1)
		renderInput(m.passwordInput, "Password:", m.focusIndex == 2)
	} else {
		renderInput(m.emailInput, "Email:", m.focusIndex == 0)
		renderInput(m.passwordInput, "Password:", m.focusIndex == 1)
	}

	if m.submitting {
		b.WriteString(statusStyle.Render("Signing in...") + "\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	toggle := "ctrl+r: register instead"
	if m.registering {
		toggle = "ctrl+r: sign in instead"
	}
	b.WriteString(helpStyle.Render("tab/↑↓: navigate • enter: submit • " + toggle + " • ctrl+c: quit"))

	return b.String()
}
