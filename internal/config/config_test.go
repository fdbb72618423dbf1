package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/config"
)

// chdir changes the working directory for the duration of the test.
// It mirrors testing.T.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_ENV", "nope")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, "ws://localhost:7880/rtc", cfg.MediaURL)
	assert.NotEmpty(t, cfg.IdentityPath)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.ChatPageSize)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatPeriod)
	assert.Equal(t, 8080, cfg.StubPort)
}

func TestLoadReadsEnvSelectedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte("mode: debug\napi_base_url: http://backend:9000/api\nchat_page_size: 25\nheartbeat_period: 15s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644))

	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, "http://backend:9000/api", cfg.APIBaseURL)
	assert.Equal(t, 25, cfg.ChatPageSize)
	assert.Equal(t, 15*time.Second, cfg.HeartbeatPeriod)
	// Untouched keys keep their defaults.
	assert.Equal(t, "ws://localhost:7880/rtc", cfg.MediaURL)
	assert.Equal(t, 8080, cfg.StubPort)
}
