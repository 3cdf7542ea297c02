package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GO_ENV", "AUTH_MODE", "LOGIN_DELAY", "MONGODB_URI", "REDIS_ADDRESS", "ISSUE_DAILY_LIMIT", "SEED_FIXTURES", "CORS_ALLOWED_ORIGINS", "SESSION_TTL"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthModeMock, cfg.AuthMode)
	assert.Equal(t, time.Second, cfg.LoginDelay)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.IssueDailyLimit)
	assert.True(t, cfg.SeedFixtures)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("GO_ENV", "production")
	t.Setenv("AUTH_MODE", "Directory")
	t.Setenv("LOGIN_DELAY", "250ms")
	t.Setenv("ISSUE_DAILY_LIMIT", "3")
	t.Setenv("SEED_FIXTURES", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, AuthModeDirectory, cfg.AuthMode)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginDelay)
	assert.Equal(t, 3, cfg.IssueDailyLimit)
	assert.False(t, cfg.SeedFixtures)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ISSUE_DAILY_LIMIT", "lots")
	t.Setenv("LOGIN_DELAY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.IssueDailyLimit)
	assert.Equal(t, time.Second, cfg.LoginDelay)
}

func TestLoad_RejectsUnknownAuthMode(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_MODE", "ldap")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CIVICSYNC_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CIVICSYNC_DOTENV_PROBE") })

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CIVICSYNC_DOTENV_PROBE"))
	assert.False(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("issue_id", 3).Warn("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, float64(3), entry["issue_id"])
	assert.Contains(t, entry, "timestamp")
}
