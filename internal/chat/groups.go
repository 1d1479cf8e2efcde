package chat

import (
	"time"

	"github.com/campusconnect/quad/internal/models"
)

// Group is a run of messages under one date header.
type Group struct {
	Label    string
	Messages []models.Message
}

// GroupByDate partitions messages into date-labeled groups, preserving the
// input order within each group and the first-seen order across groups.
// "Today" and "Yesterday" depend on the wall clock, so callers recompute
// the grouping on every render rather than caching it.
func GroupByDate(messages []models.Message, now time.Time) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, message := range messages {
		label := DateLabel(message.CreatedAt, now)
		if i, ok := index[label]; ok {
			groups[i].Messages = append(groups[i].Messages, message)
			continue
		}
		index[label] = len(groups)
		groups = append(groups, Group{Label: label, Messages: []models.Message{message}})
	}

	return groups
}

// DateLabel renders a message timestamp as a date header: "Today",
// "Yesterday", or an absolute date with the year only when it differs from
// the current one. Calendar days are compared in the viewer's local zone.
func DateLabel(t, now time.Time) string {
	local := t.In(now.Location())

	if sameDay(local, now) {
		return "Today"
	}
	if sameDay(local, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

// FormatClock renders a message timestamp as a 24-hour wall-clock time.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
