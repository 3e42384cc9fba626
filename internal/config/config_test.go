package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dialogue/internal/config"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 720*time.Hour, cfg.TurnTTL)
	assert.True(t, cfg.LMStudio.Enabled)
	assert.Equal(t, "http://localhost:1234", cfg.LMStudio.URL)
	assert.Empty(t, cfg.LMStudio.Model)
	assert.Equal(t, "qwen3:8b", cfg.Ollama.Model)
	assert.Equal(t, "groq", cfg.API.Preset)
	assert.Equal(t, 1024, cfg.Generation.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, 120*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 2, cfg.Generation.MaxRetries)
	assert.Equal(t, 10, cfg.Generation.MaxHistory)
	assert.Equal(t, 5, cfg.Generation.MaxMemories)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DIALOGUE_GRPC_PORT", "6000")
	t.Setenv("DIALOGUE_LOG_LEVEL", "debug")
	t.Setenv("DIALOGUE_OLLAMA_ENABLED", "false")
	t.Setenv("DIALOGUE_API_PRESET", "openrouter")
	t.Setenv("DIALOGUE_API_KEY", "secret")
	t.Setenv("DIALOGUE_TEMPERATURE", "1.1")
	t.Setenv("DIALOGUE_TIMEOUT", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.Ollama.Enabled)
	assert.Equal(t, "openrouter", cfg.API.Preset)
	assert.Equal(t, "secret", cfg.API.Key)
	assert.InDelta(t, 1.1, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
}

func TestLoadRejectsUnparseableValues(t *testing.T) {
	t.Setenv("DIALOGUE_MAX_TOKENS", "many")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	t.Setenv("DIALOGUE_LOG_FORMAT", "xml")
	t.Setenv("DIALOGUE_TOP_P", "0")
	t.Setenv("DIALOGUE_MAX_RETRIES", "-1")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	msg := err.Error()
	assert.Contains(t, msg, "LogFormat")
	assert.Contains(t, msg, "Generation.TopP")
	assert.Contains(t, msg, "Generation.MaxRetries")
}

func TestValidateDisabledBackendNeedsNoURL(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.LMStudio.Enabled = false
	cfg.LMStudio.URL = ""
	assert.NoError(t, cfg.Validate())

	cfg.Ollama.URL = ""
	assert.Error(t, cfg.Validate())
}
