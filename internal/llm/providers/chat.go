package providers

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
)

// ChatCompletionRequest is the OpenAI-style request body
type ChatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stop        []string      `json:"stop,omitempty"`
	Stream      bool          `json:"stream"`
}

// NewChatCompletionRequest maps a generation request onto the wire shape. An
// empty model is omitted so the server uses whatever it has loaded.
func NewChatCompletionRequest(model string, req *llm.Request) *ChatCompletionRequest {
	return &ChatCompletionRequest{
		Model:       model,
		Messages:    req.ChatMessages(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stop:        req.Stop,
		Stream:      false,
	}
}

// Completion is the useful part of a chat-completion response
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// DecodeChatCompletion reads choices[0].message.content and usage. A body
// without content is an error.
func DecodeChatCompletion(body []byte) (*Completion, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Internal("backend returned malformed JSON")
	}

	res := gjson.GetManyBytes(body,
		"choices.0.message.content",
		"model",
		"usage.prompt_tokens",
		"usage.completion_tokens",
	)

	content := strings.TrimSpace(res[0].String())
	if content == "" {
		return nil, errors.Internal("backend returned empty content")
	}

	return &Completion{
		Content:          content,
		Model:            res[1].String(),
		PromptTokens:     int(res[2].Int()),
		CompletionTokens: int(res[3].Int()),
	}, nil
}
