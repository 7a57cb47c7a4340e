package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/diario/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Empty(t, cfg.Token)
	assert.False(t, cfg.UseMockAssistant)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
base_url = "https://journal.example"
token = "s3cret"
max_upload_mb = 10
use_mock_assistant = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://journal.example", cfg.BaseURL)
	assert.Equal(t, "s3cret", cfg.Token)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.UseMockAssistant)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = "https://file.example"`), 0o600))

	t.Setenv("DIARIO_BASE_URL", "https://env.example")
	t.Setenv("DIARIO_MAX_UPLOAD_MB", "25")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.Equal(t, int64(25), cfg.MaxUploadMB)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = [`), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}
