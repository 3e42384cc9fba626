package llm

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_provider.go -package=llmmock github.com/KirkDiggler/rpg-dialogue/internal/llm Provider

// Provider is one text-generation backend
type Provider interface {
	// Name identifies the backend, e.g. "Ollama"
	Name() string

	// Priority orders backends; lower is tried first
	Priority() int

	// Model is the model identity reported on results
	Model() string

	// ProbeInterval is how long a probe result stays valid
	ProbeInterval() time.Duration

	// Probe checks reachability. A nil error means available.
	Probe(ctx context.Context) error

	// Generate runs one completion. Failures are returned as errors coded
	// UNAVAILABLE, DEADLINE_EXCEEDED, CANCELED or INTERNAL.
	Generate(ctx context.Context, req *Request) (*Result, error)
}
