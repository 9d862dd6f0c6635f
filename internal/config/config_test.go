package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "grader.db", cfg.Store.Path)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Anthropic.Model)
	assert.Equal(t, int64(2000), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, 3, cfg.Dispatch.MaxAttempts)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  port: 9090
store:
  driver: postgres
  database_url: postgres://localhost/grader
anthropic:
  key: test-key
  model: claude-test
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/grader", cfg.Store.DatabaseURL)
	assert.Equal(t, "test-key", cfg.Anthropic.Key)
	assert.Equal(t, "claude-test", cfg.Anthropic.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GRADER_SERVER_PORT", "7070")
	t.Setenv("GRADER_GEMINI_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Gemini.Key)
}

func TestInitLogger_RejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

// chdirTemp moves the test into an empty directory so a developer's local
// config.yaml cannot leak into assertions.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}
