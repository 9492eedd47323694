// Package config loads the storefront's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/chat"
	"github.com/roach88/artisha/internal/genai"
)

// Config is the full configuration file.
type Config struct {
	// Database is the SQLite file backing local and session storage.
	Database string `yaml:"database"`

	// SeedFile optionally replaces the embedded seed catalog.
	SeedFile string `yaml:"seed_file,omitempty"`

	Analytics Analytics `yaml:"analytics"`
	Alerts    Alerts    `yaml:"alerts"`
	Session   Session   `yaml:"session"`
	Chat      Chat      `yaml:"chat"`
	GenAI     GenAI     `yaml:"genai"`
}

// Analytics configures the synthetic traffic ticker.
type Analytics struct {
	Interval time.Duration `yaml:"interval"`
}

// Alerts configures the bell-icon alert ring.
type Alerts struct {
	Capacity int `yaml:"capacity"`
}

// Session configures session-scope storage.
type Session struct {
	// IdleTimeout expires session data not written for this long.
	// Zero keeps it until an explicit reset.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// DefaultSessionIdleTimeout is how long session data survives without writes.
const DefaultSessionIdleTimeout = 24 * time.Hour

// Chat configures typewriter playback.
type Chat struct {
	SupportTypingDelay time.Duration `yaml:"support_typing_delay"`
	StudioTypingDelay  time.Duration `yaml:"studio_typing_delay"`
}

// GenAI configures the generative-content client.
type GenAI struct {
	Endpoint   string `yaml:"endpoint"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`

	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string `yaml:"api_key_env"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:  "artisha.db",
		Analytics: Analytics{Interval: appstate.DefaultAnalyticsInterval},
		Alerts:    Alerts{Capacity: appstate.DefaultAlertCapacity},
		Session:   Session{IdleTimeout: DefaultSessionIdleTimeout},
		Chat: Chat{
			SupportTypingDelay: chat.DefaultSupportDelay,
			StudioTypingDelay:  chat.DefaultStudioDelay,
		},
		GenAI: GenAI{
			Endpoint:   genai.DefaultEndpoint,
			ChatModel:  genai.DefaultChatModel,
			ImageModel: genai.DefaultImageModel,
			APIKeyEnv:  "API_KEY",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown fields are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Database == "":
		return errors.New("database is required")
	case c.Analytics.Interval <= 0:
		return fmt.Errorf("analytics.interval must be positive, got %s", c.Analytics.Interval)
	case c.Alerts.Capacity <= 0:
		return fmt.Errorf("alerts.capacity must be positive, got %d", c.Alerts.Capacity)
	case c.Session.IdleTimeout < 0:
		return fmt.Errorf("session.idle_timeout cannot be negative, got %s", c.Session.IdleTimeout)
	case c.Chat.SupportTypingDelay < 0 || c.Chat.StudioTypingDelay < 0:
		return errors.New("chat typing delays cannot be negative")
	}
	return nil
}

// APIKey reads the generative API credential from the environment.
func (c Config) APIKey() string {
	if c.GenAI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.GenAI.APIKeyEnv)
}
