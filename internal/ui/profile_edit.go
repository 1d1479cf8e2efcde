package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusconnect/quad/internal/models"
)

type profileSavedMsg struct {
	err error
}

type ProfileEditModel struct {
	app          *App
	user         models.UserProfile
	nameInput    textinput.Model
	pictureInput textinput.Model
	focusIndex   int
	saving       bool
	err          error
	windowWidth  int
	windowHeight int
}

// NewProfileEditModel creates the edit form for the viewer's own profile.
// The picture field takes a path to a local image file, which is uploaded
// as a base64 data URI; leave it empty to keep the current picture.
func NewProfileEditModel(app *App, user models.UserProfile) ProfileEditModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "Display name"
	nameInput.CharLimit = 100
	nameInput.Width = 50
	nameInput.SetValue(user.DisplayName)
	nameInput.Focus()

	pictureInput := textinput.New()
	pictureInput.Placeholder = "Path to profile picture (optional)"
	pictureInput.CharLimit = 300
	pictureInput.Width = 50

	return ProfileEditModel{
		app:          app,
		user:         user,
		nameInput:    nameInput,
		pictureInput: pictureInput,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ProfileEditModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ProfileEditModel) saveCmd() tea.Cmd {
	app := m.app
	user := m.user
	displayName := strings.TrimSpace(m.nameInput.Value())
	picturePath := strings.TrimSpace(m.pictureInput.Value())

	return func() tea.Msg {
		if displayName == "" {
			return profileSavedMsg{err: fmt.Errorf("display name cannot be empty")}
		}

		picture := user.ProfilePicture
		if picturePath != "" {
			data, err := os.ReadFile(picturePath)
			if err != nil {
				return profileSavedMsg{err: fmt.Errorf("failed to read picture: %w", err)}
			}
			picture = "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
		}

		err := app.Client.UpdateProfile(context.Background(), app.Username(), displayName, picture)
		return profileSavedMsg{err: err}
	}
}

func (m ProfileEditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return resize(NewProfileModel(m.app, m.app.Username()), m.windowWidth, m.windowHeight)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			return resize(NewProfileModel(m.app, m.app.Username()), m.windowWidth, m.windowHeight)
		}

		if m.saving {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			m.focusIndex = 1 - m.focusIndex
			if m.focusIndex == 0 {
				m.nameInput.Focus()
				m.pictureInput.Blur()
			} else {
				m.nameInput.Blur()
				m.pictureInput.Focus()
			}
			return m, nil

		case "ctrl+s":
			m.saving = true
			m.err = nil
			return m, m.saveCmd()
		}
	}

	cmds := make([]tea.Cmd, 0, 2)
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.pictureInput, cmd = m.pictureInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m ProfileEditModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Edit Profile") + "\n\n")

	focusedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	blurredStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	nameLabel := blurredStyle
	pictureLabel := blurredStyle
	if m.focusIndex == 0 {
		nameLabel = focusedStyle
	} else {
		pictureLabel = focusedStyle
	}

	b.WriteString(nameLabel.Render("Display name:") + "\n")
	b.WriteString(m.nameInput.View() + "\n\n")
	b.WriteString(pictureLabel.Render("Profile picture file:") + "\n")
	b.WriteString(m.pictureInput.View() + "\n\n")

	if m.saving {
		b.WriteString(statusStyle.Render("Saving...") + "\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	b.WriteString(helpStyle.Render("tab: switch field • ctrl+s: save • esc: cancel"))
	return b.String()
}
