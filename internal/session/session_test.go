package session

import (
	"os"
	"testing"

	"github.com/campusconnect/quad/internal/models"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	account := models.Account{
		Username:    "alice",
		Email:       "alice@example.edu",
		DisplayName: "Alice",
	}
	if err := Save(dir, account); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a session")
	}
	if loaded.Username != "alice" || loaded.Email != "alice@example.edu" || loaded.DisplayName != "Alice" {
		t.Fatalf("unexpected session: %+v", loaded)
	}
}

func TestSaveRejectsEmptyUsername(t *testing.T) {
	if err := Save(t.TempDir(), models.Account{}); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestSaveRestrictsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, models.Account{Username: "alice"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(Path(dir))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("session file should be 0600, got %v", info.Mode().Perm())
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	loaded, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil session, got %+v", loaded)
	}
}

func TestLoadEmptyUsernameTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("email: ghost@example.edu\n"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil session, got %+v", loaded)
	}
}

func TestClearRemovesSession(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, models.Account{Username: "alice"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := Clear(dir); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Fatal("session should be gone after clear")
	}

	// Clearing again is a no-op.
	if err := Clear(dir); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}
