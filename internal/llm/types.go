// Package llm defines the contract between the dialogue pipeline and the
// text-generation backends.
package llm

import "time"

// Role is the author of a message
type Role string

// Message roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Request defaults
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultTimeout     = 60 * time.Second
)

// Identity reported on canned results
const (
	FallbackProvider = "fallback"
	FallbackModel    = "static"
)

// Message is one turn sent to a backend
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single generation call. Build a fresh one per turn.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
	Timeout     time.Duration

	// NPCID and Kind label the request in logs and spans
	NPCID string
	Kind  string
}

// NewRequest returns a request with default sampling parameters
func NewRequest(system string, messages ...Message) *Request {
	return &Request{
		System:      system,
		Messages:    messages,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		Timeout:     DefaultTimeout,
		Kind:        "dialogue",
	}
}

// WithDefaults returns a copy with zero-valued sampling fields filled in
func (r *Request) WithDefaults() *Request {
	cp := *r
	if cp.MaxTokens <= 0 {
		cp.MaxTokens = DefaultMaxTokens
	}
	if cp.Temperature < 0 {
		cp.Temperature = DefaultTemperature
	}
	if cp.TopP <= 0 {
		cp.TopP = DefaultTopP
	}
	if cp.Timeout <= 0 {
		cp.Timeout = DefaultTimeout
	}
	return &cp
}

// ChatMessages prepends the system prompt to the turns
func (r *Request) ChatMessages() []Message {
	out := make([]Message, 0, len(r.Messages)+1)
	if r.System != "" {
		out = append(out, Message{Role: RoleSystem, Content: r.System})
	}
	return append(out, r.Messages...)
}

// Result is a completed generation. It is never modified after return.
type Result struct {
	Success          bool
	Content          string
	Error            string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Elapsed          time.Duration
	IsFallback       bool
}

// TotalTokens is prompt plus completion tokens
func (r *Result) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// NewFallbackResult wraps canned text
func NewFallbackResult(content string) *Result {
	return &Result{
		Success:    true,
		Content:    content,
		Provider:   FallbackProvider,
		Model:      FallbackModel,
		IsFallback: true,
	}
}
