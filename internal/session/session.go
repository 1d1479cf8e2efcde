// Package session persists the logged-in account between runs, the way the
// mobile app keeps its device-local auth state.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/campusconnect/quad/internal/models"
)

type Session struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email,omitempty"`
	DisplayName    string `yaml:"display_name,omitempty"`
	ProfilePicture string `yaml:"profile_picture,omitempty"`
}

// Path returns the session file location under the given data directory.
func Path(dir string) string {
	return filepath.Join(dir, "session.yml")
}

// Save writes the session file, creating the data directory if needed.
func Save(dir string, account models.Account) error {
	if account.Username == "" {
		return fmt.Errorf("session username cannot be empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	s := Session{
		Username:       account.Username,
		Email:          account.Email,
		DisplayName:    account.DisplayName,
		ProfilePicture: account.ProfilePicture,
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads the session file. Returns nil with no error when absent.
func Load(dir string) (*Session, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if s.Username == "" {
		return nil, nil
	}

	return &s, nil
}

// Clear removes the session file. Missing file is not an error.
func Clear(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
