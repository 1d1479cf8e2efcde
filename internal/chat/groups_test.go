package chat

import (
	"testing"
	"time"

	"github.com/campusconnect/quad/internal/models"
)

func stamped(sender string, at time.Time) models.Message {
	return models.Message{Sender: sender, Content: "x", CreatedAt: at}
}

func TestGroupByDateTodayAndYesterday(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	messages := []models.Message{
		stamped("bob", time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)),
		stamped("alice", time.Date(2024, 3, 14, 22, 15, 0, 0, time.UTC)),
		stamped("bob", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDate(messages, now)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Yesterday" || len(groups[0].Messages) != 2 {
		t.Fatalf("unexpected first group: %q with %d messages", groups[0].Label, len(groups[0].Messages))
	}
	if groups[1].Label != "Today" || len(groups[1].Messages) != 1 {
		t.Fatalf("unexpected second group: %q with %d messages", groups[1].Label, len(groups[1].Messages))
	}
	if groups[0].Messages[0].Sender != "bob" || groups[0].Messages[1].Sender != "alice" {
		t.Fatal("in-group message order must follow input order")
	}
}

func TestGroupByDateEmpty(t *testing.T) {
	if groups := GroupByDate(nil, time.Now()); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestDateLabel(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		name string
		at   time.Time
		want string
	}{
		{"same day", time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC), "Today"},
		{"previous day", time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"same year", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), "Jan 2"},
		{"previous year", time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC), "Dec 31, 2023"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateLabel(tc.at, now); got != tc.want {
				t.Fatalf("DateLabel(%v) = %q, want %q", tc.at, got, tc.want)
			}
		})
	}
}

func TestDateLabelUsesViewerZone(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 3, 15, 7, 0, 0, 0, zone)

	// 23:00 UTC on Mar 14 is 09:00 Mar 15 in the viewer's zone.
	at := time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC)
	if got := DateLabel(at, now); got != "Today" {
		t.Fatalf("expected Today in viewer zone, got %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	at := time.Date(2024, 3, 15, 14, 5, 0, 0, time.UTC)
	if got := FormatClock(at, time.UTC); got != "14:05" {
		t.Fatalf("FormatClock = %q, want 14:05", got)
	}

	zone := time.FixedZone("UTC+2", 2*60*60)
	if got := FormatClock(at, zone); got != "16:05" {
		t.Fatalf("FormatClock in zone = %q, want 16:05", got)
	}
}
