package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		unsetenv(t, "GEMINI_API_KEY", "API_KEY", "SESSION_MODE", "SESSION_DIFFICULTY", "HTTP_PORT")

		// Given: a config file overriding a few defaults
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
redis:
  enabled: true
  host: cache
suggestion:
  provider: local
  timeout: 3s
session:
  mode: pvp
  difficulty: hard
  agent-mark: X
`)

		// When: loading it
		conf, err := Load(path)

		// Then: file values and defaults are combined
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "json", conf.LogFormat)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, ProviderLocal, conf.Suggestion.Provider)
		assert.Equal(t, 3*time.Second, conf.Suggestion.Timeout)
		assert.Equal(t, 24*time.Hour, conf.Suggestion.CacheTTL)
		assert.InDelta(t, 0.7, conf.Suggestion.Temperature, 1e-9)

		mode, err := conf.Session.GameMode()
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerVsPlayer, mode)

		difficulty, err := conf.Session.GameDifficulty()
		require.NoError(t, err)
		assert.Equal(t, entity.Hard, difficulty)

		agent, err := conf.Session.Agent()
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, agent)
	})

	t.Run("Falls back to the environment without a file", func(t *testing.T) {
		unsetenv(t, "GEMINI_API_KEY", "SESSION_MODE", "SESSION_DIFFICULTY", "HTTP_PORT")
		t.Setenv("API_KEY", "secret")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, ProviderGemini, conf.Suggestion.Provider)
		assert.Equal(t, "gemini-2.5-flash", conf.Suggestion.Model)
		assert.Equal(t, 10*time.Second, conf.Suggestion.Timeout)
		assert.Equal(t, "secret", conf.Suggestion.APIKey)
		assert.Equal(t, "pve", conf.Session.Mode)
		assert.Equal(t, "medium", conf.Session.Difficulty)
	})

	t.Run("GEMINI_API_KEY wins over API_KEY", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "primary")
		t.Setenv("API_KEY", "secondary")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "primary", conf.Suggestion.APIKey)
	})

	t.Run("Rejects unknown values", func(t *testing.T) {
		unsetenv(t, "SESSION_MODE", "SESSION_DIFFICULTY", "SUGGESTION_PROVIDER")

		_, err := Load(writeConfig(t, "session:\n  difficulty: impossible\n"))
		require.ErrorIs(t, err, entity.ErrUnknownDifficulty)

		_, err = Load(writeConfig(t, "session:\n  mode: solo\n"))
		require.ErrorIs(t, err, entity.ErrUnknownGameMode)

		_, err = Load(writeConfig(t, "suggestion:\n  provider: oracle\n"))
		require.ErrorIs(t, err, ErrUnknownProvider)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
