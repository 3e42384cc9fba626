// Package openaicompat adapts hosted OpenAI-compatible chat APIs such as
// Groq, Together and OpenRouter
package openaicompat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers"
)

const (
	Priority      = 2
	ProbeInterval = 60 * time.Second
	DefaultName   = "API"
)

// Preset is a known hosted service
type Preset struct {
	Name    string
	BaseURL string
	Model   string
}

var presets = map[string]Preset{
	"groq": {
		Name:    "Groq",
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.3-70b-versatile",
	},
	"together": {
		Name:    "Together",
		BaseURL: "https://api.together.xyz/v1",
		Model:   "meta-llama/Llama-3-70b-chat-hf",
	},
	"openrouter": {
		Name:    "OpenRouter",
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "meta-llama/llama-3.1-70b-instruct",
	},
}

// LookupPreset finds a preset by case-insensitive key
func LookupPreset(key string) (Preset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Config configures the adapter. BaseURL overrides the preset.
type Config struct {
	Preset     string
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// Validate ensures a base URL can be resolved
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BaseURL == "" {
		if _, ok := LookupPreset(c.Preset); !ok {
			vb.InvalidField("Preset", "unknown preset and no BaseURL given")
		}
	}

	return vb.Build()
}

// Provider talks to an OpenAI-compatible service with a bearer key
type Provider struct {
	client *providers.Client
	name   string
	model  string
	hasKey bool
}

var _ llm.Provider = (*Provider)(nil)

// New creates the adapter. A missing key is not an error: the backend stays
// registered and reports itself unavailable.
func New(cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	name := DefaultName
	baseURL := cfg.BaseURL
	model := cfg.Model
	if preset, ok := LookupPreset(cfg.Preset); ok {
		name = preset.Name
		if baseURL == "" {
			baseURL = preset.BaseURL
		}
		if model == "" {
			model = preset.Model
		}
	}

	return &Provider{
		client: providers.NewClient(baseURL, cfg.HTTPClient).WithBearer(cfg.APIKey),
		name:   name,
		model:  model,
		hasKey: cfg.APIKey != "",
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Priority() int                { return Priority }
func (p *Provider) Model() string                { return p.model }
func (p *Provider) ProbeInterval() time.Duration { return ProbeInterval }

// Probe lists models. Without a key no request is made.
func (p *Provider) Probe(ctx context.Context) error {
	if !p.hasKey {
		return errors.Unavailable("API key not configured")
	}
	return p.client.Ping(ctx, "/models")
}

// Generate posts a chat completion
func (p *Provider) Generate(ctx context.Context, req *llm.Request) (*llm.Result, error) {
	if !p.hasKey {
		return nil, errors.Unavailable("API key not configured")
	}
	start := time.Now()

	body, err := p.client.PostJSON(ctx, "/chat/completions", providers.NewChatCompletionRequest(p.model, req))
	if err != nil {
		return nil, err
	}

	completion, err := providers.DecodeChatCompletion(body)
	if err != nil {
		return nil, err
	}

	return &llm.Result{
		Success:          true,
		Content:          completion.Content,
		Provider:         p.name,
		Model:            p.model,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		Elapsed:          time.Since(start),
	}, nil
}
