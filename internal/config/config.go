// Package config loads the client configuration from ~/.quad/config.yml.
// Missing file or fields fall back to defaults; QUAD_BASE_URL overrides the
// backend address for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL                 string `yaml:"base_url"`
	MessagePollSeconds      int    `yaml:"message_poll_seconds"`
	ConversationPollSeconds int    `yaml:"conversation_poll_seconds"`
	LogFile                 string `yaml:"log_file"`
	LogLevel                string `yaml:"log_level"`
	RequestTimeoutSeconds   int    `yaml:"request_timeout_seconds"`
}

// Dir returns the quad data directory (~/.quad).
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".quad")
}

func defaults() Config {
	return Config{
		BaseURL:                 "http://localhost:8080",
		MessagePollSeconds:      5,
		ConversationPollSeconds: 10,
		LogFile:                 filepath.Join(Dir(), "quad.log"),
		LogLevel:                "info",
		RequestTimeoutSeconds:   10,
	}
}

// Load reads the config file at path, applying defaults for anything unset.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	d := defaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if cfg.MessagePollSeconds <= 0 {
		cfg.MessagePollSeconds = d.MessagePollSeconds
	}
	if cfg.ConversationPollSeconds <= 0 {
		cfg.ConversationPollSeconds = d.ConversationPollSeconds
	}
	if cfg.LogFile == "" {
		cfg.LogFile = d.LogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = d.RequestTimeoutSeconds
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns the standard config location (~/.quad/config.yml).
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yml")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUAD_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
}

// MessagePollInterval is the fixed delay between message refreshes.
func (c Config) MessagePollInterval() time.Duration {
	return time.Duration(c.MessagePollSeconds) * time.Second
}

// ConversationPollInterval is the fixed delay between conversation list refreshes.
func (c Config) ConversationPollInterval() time.Duration {
	return time.Duration(c.ConversationPollSeconds) * time.Second
}

// RequestTimeout bounds a single backend request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
