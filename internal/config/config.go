// Package config loads process settings from DIALOGUE_* environment variables
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the full process configuration
type Config struct {
	GRPCPort  int    `env:"DIALOGUE_GRPC_PORT"  envDefault:"50051"`
	LogLevel  string `env:"DIALOGUE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"DIALOGUE_LOG_FORMAT" envDefault:"text"`

	RedisAddr     string        `env:"DIALOGUE_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string        `env:"DIALOGUE_REDIS_PASSWORD"`
	RedisDB       int           `env:"DIALOGUE_REDIS_DB"       envDefault:"0"`
	TurnTTL       time.Duration `env:"DIALOGUE_TURN_TTL"       envDefault:"720h"`
	SQLitePath    string        `env:"DIALOGUE_SQLITE_PATH"    envDefault:"dialogue.db"`
	WorldPath     string        `env:"DIALOGUE_WORLD_PATH"`

	OTelEndpoint string `env:"DIALOGUE_OTEL_ENDPOINT"`

	LMStudio   LMStudio   `envPrefix:"DIALOGUE_LMSTUDIO_"`
	Ollama     Ollama     `envPrefix:"DIALOGUE_OLLAMA_"`
	API        API        `envPrefix:"DIALOGUE_API_"`
	Generation Generation `envPrefix:"DIALOGUE_"`
}

// LMStudio configures the local LM Studio backend
type LMStudio struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	URL     string `env:"URL"     envDefault:"http://localhost:1234"`
	Model   string `env:"MODEL"`
}

// Ollama configures the local Ollama backend
type Ollama struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	URL     string `env:"URL"     envDefault:"http://localhost:11434"`
	Model   string `env:"MODEL"   envDefault:"qwen3:8b"`
}

// API configures the hosted OpenAI-compatible backend. An empty key leaves
// the backend registered but unavailable.
type API struct {
	Preset string `env:"PRESET" envDefault:"groq"`
	URL    string `env:"URL"`
	Key    string `env:"KEY"`
	Model  string `env:"MODEL"  envDefault:"llama-3.3-70b-versatile"`
}

// Generation holds sampling and dialogue-window settings
type Generation struct {
	MaxTokens   int           `env:"MAX_TOKENS"   envDefault:"1024"`
	Temperature float64       `env:"TEMPERATURE"  envDefault:"0.7"`
	TopP        float64       `env:"TOP_P"        envDefault:"0.9"`
	Timeout     time.Duration `env:"TIMEOUT"      envDefault:"120s"`
	MaxRetries  int           `env:"MAX_RETRIES"  envDefault:"2"`
	MaxHistory  int           `env:"MAX_HISTORY"  envDefault:"10"`
	MaxMemories int           `env:"MAX_MEMORIES" envDefault:"5"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{LogFormatText, LogFormatJSON}, vb)

	if c.RedisAddr == "" {
		vb.RequiredField("RedisAddr")
	}
	if c.RedisDB < 0 {
		vb.InvalidField("RedisDB", "must not be negative")
	}
	if c.SQLitePath == "" {
		vb.RequiredField("SQLitePath")
	}
	if c.TurnTTL <= 0 {
		vb.InvalidField("TurnTTL", "must be positive")
	}

	if c.LMStudio.Enabled && c.LMStudio.URL == "" {
		vb.RequiredField("LMStudio.URL")
	}
	if c.Ollama.Enabled && c.Ollama.URL == "" {
		vb.RequiredField("Ollama.URL")
	}
	if c.API.URL == "" && c.API.Preset == "" {
		vb.Field("API", "either a preset or a URL is required")
	}

	g := c.Generation
	if g.MaxTokens <= 0 {
		vb.InvalidField("Generation.MaxTokens", "must be positive")
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		vb.InvalidField("Generation.Temperature", "must be between 0 and 2")
	}
	if g.TopP <= 0 || g.TopP > 1 {
		vb.InvalidField("Generation.TopP", "must be in (0, 1]")
	}
	if g.Timeout <= 0 {
		vb.InvalidField("Generation.Timeout", "must be positive")
	}
	if g.MaxRetries < 0 {
		vb.InvalidField("Generation.MaxRetries", "must not be negative")
	}
	if g.MaxHistory < 0 {
		vb.InvalidField("Generation.MaxHistory", "must not be negative")
	}
	if g.MaxMemories < 0 {
		vb.InvalidField("Generation.MaxMemories", "must not be negative")
	}

	return vb.Build()
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
