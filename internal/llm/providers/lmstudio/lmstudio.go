// Package lmstudio adapts a local LM Studio server
package lmstudio

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers"
)

const (
	// Name identifies the backend
	Name = "LM Studio"
	// Priority puts the local server first
	Priority = 0
	// ProbeInterval is how long a probe result is trusted
	ProbeInterval = 30 * time.Second
	// LoadedModel is reported when no model is pinned
	LoadedModel = "loaded-model"
	// DefaultURL is the LM Studio server default
	DefaultURL = "http://localhost:1234"
)

// Config configures the adapter
type Config struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Validate ensures required settings are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BaseURL == "" {
		vb.RequiredField("BaseURL")
	}

	return vb.Build()
}

// Provider talks to LM Studio's OpenAI-compatible endpoints
type Provider struct {
	client *providers.Client
	model  string
}

var _ llm.Provider = (*Provider)(nil)

// New creates the adapter
func New(cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Provider{
		client: providers.NewClient(cfg.BaseURL, cfg.HTTPClient),
		model:  cfg.Model,
	}, nil
}

func (p *Provider) Name() string                 { return Name }
func (p *Provider) Priority() int                { return Priority }
func (p *Provider) ProbeInterval() time.Duration { return ProbeInterval }

// Model returns the pinned model or LoadedModel
func (p *Provider) Model() string {
	if p.model == "" {
		return LoadedModel
	}
	return p.model
}

// Probe lists models; any 2xx answer means the server is up
func (p *Provider) Probe(ctx context.Context) error {
	body, err := p.client.Get(ctx, "/v1/models")
	if err != nil {
		slog.Debug("LM Studio not available", "url", p.client.BaseURL(), "error", err)
		return err
	}

	slog.Debug("LM Studio available",
		"url", p.client.BaseURL(),
		"loaded_model", gjson.GetBytes(body, "data.0.id").String())
	return nil
}

// Generate posts a chat completion
func (p *Provider) Generate(ctx context.Context, req *llm.Request) (*llm.Result, error) {
	start := time.Now()

	body, err := p.client.PostJSON(ctx, "/v1/chat/completions", providers.NewChatCompletionRequest(p.model, req))
	if err != nil {
		return nil, err
	}

	completion, err := providers.DecodeChatCompletion(body)
	if err != nil {
		return nil, err
	}

	model := completion.Model
	if model == "" {
		model = p.Model()
	}

	return &llm.Result{
		Success:          true,
		Content:          completion.Content,
		Provider:         Name,
		Model:            model,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		Elapsed:          time.Since(start),
	}, nil
}
