package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusconnect/quad/internal/models"
)

type searchItem struct {
	result models.SearchResult
}

func (i searchItem) Title() string {
	if i.result.DisplayName != "" {
		return i.result.DisplayName
	}
	return i.result.Username
}

func (i searchItem) Description() string { return "@" + i.result.Username }
func (i searchItem) FilterValue() string { return i.result.Username + " " + i.result.DisplayName }

type searchDoneMsg struct {
	query   string
	results []models.SearchResult
	err     error
}

type SearchModel struct {
	app          *App
	input        textinput.Model
	results      []models.SearchResult
	list         list.Model
	searching    bool
	searched     bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewSearchModel creates the people-search screen. Type a query and hit
// enter; the result list takes focus once results arrive.
func NewSearchModel(app *App) SearchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	input := textinput.New()
	input.Placeholder = "Search people..."
	input.CharLimit = 100
	input.Width = 50
	input.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("215")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 14)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)

	return SearchModel{
		app:          app,
		input:        input,
		list:         l,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) searchCmd(query string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		results, err := app.Client.SearchUsers(context.Background(), query)
		return searchDoneMsg{query: query, results: results, err: err}
	}
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 8)
		return m, nil

	case searchDoneMsg:
		m.searching = false
		m.searched = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.results = msg.results
		items := make([]list.Item, len(msg.results))
		for i, result := range msg.results {
			items[i] = searchItem{result: result}
		}
		m.list.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if m.searching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			return resize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)

		case "enter":
			if m.input.Focused() {
				query := m.input.Value()
				if query == "" {
					return m, nil
				}
				m.searching = true
				return m, tea.Batch(m.spinner.Tick, m.searchCmd(query))
			}
			if item, ok := m.list.SelectedItem().(searchItem); ok {
				return resize(NewProfileModel(m.app, item.result.Username), m.windowWidth, m.windowHeight)
			}
			return m, nil

		case "tab":
			if m.input.Focused() {
				m.input.Blur()
			} else {
				m.input.Focus()
				return m, textinput.Blink
			}
			return m, nil
		}

		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) View() string {
	s := titleStyle.Render("Search") + "\n\n"
	s += m.input.View() + "\n\n"

	if m.searching {
		s += fmt.Sprintf("  %s Searching...\n", m.spinner.View())
	} else if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	} else if m.searched && len(m.results) == 0 {
		s += normalStyle.Render("  No users found.") + "\n"
	} else if len(m.results) > 0 {
		s += m.list.View() + "\n"
	}

	s += "\n" + helpStyle.Render("enter: search/open • tab: switch focus • esc: back")
	return s
}
