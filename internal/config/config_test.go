package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "HTTP_PORT", "MONGODB_URI", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "kinchat", cfg.MongoDB)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadMemory)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_EnvironmentOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	dotenv := "GEMINI_API_KEY=from-file\nGEMINI_MODEL=gemini-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(dotenv), 0o600))

	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	t.Setenv("GEMINI_MODEL", "gemini-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "gemini-env", cfg.Model)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_UPLOAD_MEMORY", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KINCHAT_URL", "http://relay.test:9000")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://relay.test:9000", cfg.ServerURL)
}
