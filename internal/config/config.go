package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds everything the client needs to talk to the journaling
// backend. Values come from an optional TOML file, overridden by
// DIARIO_* environment variables.
type Config struct {
	// BaseURL of the journaling backend, e.g. http://localhost:8000.
	BaseURL string `toml:"base_url"`

	// Token is the bearer token for the backend. How it is obtained is
	// not this client's concern; it is supplied ready to use.
	Token string `toml:"token"`

	// MaxUploadMB caps attachment file size. Zero means the default.
	MaxUploadMB int64 `toml:"max_upload_mb"`

	// UseMockAssistant swaps the backend for a scripted offline
	// assistant (useful for dev without a running server).
	UseMockAssistant bool `toml:"use_mock_assistant"`

	// LogFile receives JSON logs. Empty discards them while the TUI
	// has the terminal.
	LogFile string `toml:"log_file"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "diario", "config.toml")
}

// Load builds the config: file first (when present), env vars on top.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:     "http://localhost:8000",
		MaxUploadMB: 0,
	}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.BaseURL = getEnv("DIARIO_BASE_URL", cfg.BaseURL)
	cfg.Token = getEnv("DIARIO_TOKEN", cfg.Token)
	cfg.LogFile = getEnv("DIARIO_LOG_FILE", cfg.LogFile)
	cfg.MaxUploadMB = getInt64Env("DIARIO_MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.UseMockAssistant = getBoolEnv("DIARIO_USE_MOCK_ASSISTANT", cfg.UseMockAssistant)

	if cfg.BaseURL == "" {
		return nil, errors.New("base_url must not be empty")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getInt64Env(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
