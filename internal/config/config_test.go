package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "SCRAPER_URL", "DATABASE_URL", "APP_URL", "APP_PASSWORD",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "MAIL_FROM",
		"MAIL_ADMIN", "SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID", "SEARCH_API_KEY",
		"SEARCH_ENGINE_CX", "PORT", "WATCH_TARGETS", "JWT_SECRET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSMTPPort, cfg.SMTPPort)
	assert.Empty(t, cfg.Targets)
}

func TestFromEnv_Targets(t *testing.T) {
	clearEnv(t)
	t.Setenv("WATCH_TARGETS", "pebblepost.com, lob.com ,postpilot.com")

	cfg := FromEnv()
	assert.Equal(t, []string{"pebblepost.com", "lob.com", "postpilot.com"}, cfg.Targets)
}

func TestLoadFile_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"scraper_url": "http://localhost:8000", "targets": ["lob.com"], "port": 9090}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ScraperURL)
	assert.Equal(t, []string{"lob.com"}, cfg.Targets)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestMerge_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRAPER_URL", "http://env:8000")

	cfg := FromEnv()
	cfg.Merge(&Config{
		ScraperURL: "http://file:8000",
		Targets:    []string{"lob.com"},
		Port:       9090,
	})

	assert.Equal(t, "http://env:8000", cfg.ScraperURL)
	assert.Equal(t, []string{"lob.com"}, cfg.Targets)
	assert.Equal(t, 9090, cfg.Port) // default port is replaceable by file
}

func TestValidateMonitor_MissingEverything(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	err := cfg.ValidateMonitor()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL or WATCH_TARGETS")
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestValidateMonitor_SlackOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("WATCH_TARGETS", "lob.com")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C012345")

	cfg := FromEnv()
	assert.NoError(t, cfg.ValidateMonitor())
}

func TestValidateMonitor_MailRequiresAdmin(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("WATCH_TARGETS", "lob.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "bot")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("MAIL_FROM", "bot@example.com")

	cfg := FromEnv()
	err := cfg.ValidateMonitor()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAIL_ADMIN")

	t.Setenv("MAIL_ADMIN", "admin@example.com")
	cfg = FromEnv()
	assert.NoError(t, cfg.ValidateMonitor())
}

func TestValidateServe(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PASSWORD")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/intel")
	t.Setenv("APP_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg = FromEnv()
	assert.NoError(t, cfg.ValidateServe())
}

func TestNewJWTConfig(t *testing.T) {
	clearEnv(t)

	_, err := NewJWTConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "supersecret")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	require.Error(t, err)
}
