package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// resize hands the current window size to a freshly constructed screen
// before its first render, then kicks off its Init commands.
func resize(model tea.Model, width, height int) (tea.Model, tea.Cmd) {
	if width > 0 {
		updated, cmd := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
		return updated, tea.Batch(updated.Init(), cmd)
	}
	return model, model.Init()
}

// formatTimeAgo renders a relative timestamp for list rows.
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	now := time.Now()
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	}
	if duration < 2*time.Minute {
		return "1 min ago"
	}
	if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	}
	if duration < 2*time.Hour {
		return "1h ago"
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	}
	if duration < 48*time.Hour {
		return "yesterday"
	}
	if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	}
	return t.Format("Jan 2")
}

// truncate shortens a one-line preview to fit a list row.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
