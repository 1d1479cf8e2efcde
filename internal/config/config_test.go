package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL)
	}
	if cfg.MessagePollInterval() != 5*time.Second {
		t.Fatalf("unexpected message poll interval: %v", cfg.MessagePollInterval())
	}
	if cfg.ConversationPollInterval() != 10*time.Second {
		t.Fatalf("unexpected conversation poll interval: %v", cfg.ConversationPollInterval())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `base_url: https://quad.example.edu
message_poll_seconds: 3
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://quad.example.edu" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL)
	}
	if cfg.MessagePollInterval() != 3*time.Second {
		t.Fatalf("unexpected message poll interval: %v", cfg.MessagePollInterval())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}

	// Fields the file leaves out fall back to defaults.
	if cfg.ConversationPollSeconds != 10 {
		t.Fatalf("unexpected conversation poll seconds: %d", cfg.ConversationPollSeconds)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("base_url: [broken"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("QUAD_BASE_URL", "http://10.0.0.5:9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:9090" {
		t.Fatalf("env override not applied, got %q", cfg.BaseURL)
	}
}

func TestNonPositivePollValuesBackfilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `message_poll_seconds: 0
conversation_poll_seconds: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MessagePollSeconds != 5 || cfg.ConversationPollSeconds != 10 {
		t.Fatalf("non-positive intervals should be backfilled, got %d/%d",
			cfg.MessagePollSeconds, cfg.ConversationPollSeconds)
	}
}
