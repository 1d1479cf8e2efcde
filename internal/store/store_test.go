package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/campusconnect/quad/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFeedRoundtrip(t *testing.T) {
	s := openTestStore(t)

	posts := []models.FeedPost{
		{ID: 1, Username: "bob", Content: "first", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Username: "carol", Content: "second", LikesCount: 3},
	}
	if err := s.SaveFeed("alice", posts); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, ok, err := s.LoadFeed("alice")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cached feed")
	}
	if len(loaded) != 2 || loaded[0].Content != "first" || loaded[1].LikesCount != 3 {
		t.Fatalf("unexpected feed: %+v", loaded)
	}
}

func TestLoadMissingKeyReportsAbsent(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadFeed("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no cached feed")
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveConversations("alice", []models.ConversationPreview{{ID: 1}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveConversations("alice", []models.ConversationPreview{{ID: 1}, {ID: 2}}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, ok, err := s.LoadConversations("alice")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok || len(loaded) != 2 {
		t.Fatalf("expected overwritten snapshot with 2 entries, got ok=%v len=%d", ok, len(loaded))
	}
}

func TestSnapshotsAreScopedByUser(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveConversations("alice", []models.ConversationPreview{{ID: 1}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, ok, err := s.LoadConversations("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("bob should not see alice's cache")
	}
}
