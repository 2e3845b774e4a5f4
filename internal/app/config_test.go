package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
port: 8080
env: production
streamUrl: abc123
controlToken: tok-1
refreshInterval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfigFile(path, Config{Port: 3113, Env: "development", TfLAppID: "keep-me"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "abc123", cfg.StreamURL)
	assert.Equal(t, "tok-1", cfg.ControlToken)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	// Keys absent from the file keep their defaults
	assert.Equal(t, "keep-me", cfg.TfLAppID)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), Config{})
	assert.Error(t, err)
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not an int"), 0o644))

	_, err := LoadConfigFile(path, Config{})
	assert.Error(t, err)
}
