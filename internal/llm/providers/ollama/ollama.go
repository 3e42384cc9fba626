// Package ollama adapts a local Ollama server
package ollama

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers"
)

const (
	Name          = "Ollama"
	Priority      = 1
	ProbeInterval = 30 * time.Second
	DefaultURL    = "http://localhost:11434"
	DefaultModel  = "qwen3:8b"
)

var (
	thinkBlockRegex    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	unclosedThinkRegex = regexp.MustCompile(`(?is)<think>.*$`)
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
	if c.Model == "" {
		vb.RequiredField("Model")
	}

	return vb.Build()
}

// Provider talks to Ollama's native chat API
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
func (p *Provider) Model() string                { return p.model }
func (p *Provider) ProbeInterval() time.Duration { return ProbeInterval }

// Probe lists local models
func (p *Provider) Probe(ctx context.Context) error {
	if err := p.client.Ping(ctx, "/api/tags"); err != nil {
		slog.Debug("Ollama not available", "url", p.client.BaseURL(), "error", err)
		return err
	}
	return nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop,omitempty"`
}

// Generate posts a non-streaming chat request
func (p *Provider) Generate(ctx context.Context, req *llm.Request) (*llm.Result, error) {
	start := time.Now()

	body, err := p.client.PostJSON(ctx, "/api/chat", &chatRequest{
		Model:    p.model,
		Messages: req.ChatMessages(),
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
			Stop:        req.Stop,
		},
	})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.Internal("backend returned malformed JSON")
	}
	res := gjson.GetManyBytes(body, "message.content", "prompt_eval_count", "eval_count")

	content := StripThinking(res[0].String())
	if content == "" {
		return nil, errors.Internal("backend returned empty content")
	}

	return &llm.Result{
		Success:          true,
		Content:          content,
		Provider:         Name,
		Model:            p.model,
		PromptTokens:     int(res[1].Int()),
		CompletionTokens: int(res[2].Int()),
		Elapsed:          time.Since(start),
	}, nil
}

// StripThinking removes <think>...</think> reasoning blocks. An unclosed
// block drops everything after it.
func StripThinking(s string) string {
	s = thinkBlockRegex.ReplaceAllString(s, "")
	s = unclosedThinkRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
