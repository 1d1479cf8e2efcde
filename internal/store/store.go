// Package store is a small stale-while-refresh cache backed by SQLite, so
// the feed and conversation list paint instantly on startup while the first
// fetch is in flight. Message lists are never cached; a conversation view
// lives and dies with its screen.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/campusconnect/quad/internal/models"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS cache (
			key        TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	query := `
		INSERT INTO cache (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *Store) get(key string, out any) (bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM cache WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("failed to decode cache payload: %w", err)
	}
	return true, nil
}

// SaveFeed stores the user's feed snapshot.
func (s *Store) SaveFeed(username string, posts []models.FeedPost) error {
	return s.put("feed:"+username, posts)
}

// LoadFeed returns the cached feed, reporting whether one existed.
func (s *Store) LoadFeed(username string) ([]models.FeedPost, bool, error) {
	var posts []models.FeedPost
	ok, err := s.get("feed:"+username, &posts)
	return posts, ok, err
}

// SaveConversations stores the user's conversation list snapshot.
func (s *Store) SaveConversations(username string, previews []models.ConversationPreview) error {
	return s.put("conversations:"+username, previews)
}

// LoadConversations returns the cached conversation list, reporting whether
// one existed.
func (s *Store) LoadConversations(username string) ([]models.ConversationPreview, bool, error) {
	var previews []models.ConversationPreview
	ok, err := s.get("conversations:"+username, &previews)
	return previews, ok, err
}
