package src

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds the client's endpoints and identity. Values come from an
// optional YAML file, overridden by environment variables, with
// hardcoded local-development defaults underneath.
type Config struct {
	// APIBaseURL is the planner's HTTP base (plan fallback, heatmap).
	APIBaseURL string `yaml:"api_base_url"`
	// StreamURL is the planner's WebSocket endpoint.
	StreamURL string `yaml:"stream_url"`
	// AuthUserID is sent with the search frame; generated when absent.
	AuthUserID string `yaml:"auth_user_id"`
	// LogFile receives structured logs so the TUI screen stays clean.
	LogFile string `yaml:"log_file"`
	// HistoryFile records completed searches, one JSON line each.
	// Empty disables history.
	HistoryFile string `yaml:"history_file"`
	// Members are the group's starting coordinates, included with every
	// search so the planner can balance travel time.
	Members []MemberLocation `yaml:"members"`
}

// DefaultConfig targets a planner running on the developer's machine.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:  "http://localhost:8000",
		StreamURL:   "ws://localhost:8000/ws/plan",
		HistoryFile: defaultHistoryPath(),
	}
}

// LoadConfig builds the effective configuration: defaults, then the
// YAML file at path (missing file is fine), then environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "pathfinder", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PATHFINDER_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("PATHFINDER_WS_URL"); v != "" {
		cfg.StreamURL = v
	}
	if v := os.Getenv("PATHFINDER_USER_ID"); v != "" {
		cfg.AuthUserID = v
	}
	if cfg.AuthUserID == "" {
		cfg.AuthUserID = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the endpoint URLs look usable.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must be http(s): %q", c.APIBaseURL)
	}
	if c.StreamURL == "" {
		return fmt.Errorf("stream_url is required")
	}
	if !strings.HasPrefix(c.StreamURL, "ws://") && !strings.HasPrefix(c.StreamURL, "wss://") {
		return fmt.Errorf("stream_url must be ws(s): %q", c.StreamURL)
	}
	return nil
}
