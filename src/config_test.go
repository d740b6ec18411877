package src

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "ws://localhost:8000/ws/plan", cfg.StreamURL)
	assert.NotEmpty(t, cfg.AuthUserID, "a user id is generated when none is configured")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://planner.example.com
stream_url: wss://planner.example.com/ws/plan
auth_user_id: alice
members:
  - lat: 40.1
    lng: -74.2
  - lat: 40.2
    lng: -74.1
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://planner.example.com", cfg.APIBaseURL)
	assert.Equal(t, "alice", cfg.AuthUserID)
	require.Len(t, cfg.Members, 2)
	assert.InDelta(t, -74.1, cfg.Members[1].Lng, 1e-9)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PATHFINDER_API_URL", "http://10.0.0.5:9000")
	t.Setenv("PATHFINDER_WS_URL", "ws://10.0.0.5:9000/ws/plan")
	t.Setenv("PATHFINDER_USER_ID", "bob")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.APIBaseURL)
	assert.Equal(t, "ws://10.0.0.5:9000/ws/plan", cfg.StreamURL)
	assert.Equal(t, "bob", cfg.AuthUserID)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.StreamURL = "http://not-a-socket"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.APIBaseURL = "planner.example.com"
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
