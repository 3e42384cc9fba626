package router

import (
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
)

// Category selects a pool of canned replies
type Category string

// Fallback categories
const (
	CategoryNoProvider Category = "no_provider"
	CategoryError      Category = "error"
	CategoryTimeout    Category = "timeout"
)

var fallbackPool = map[Category][]string{
	CategoryNoProvider: {
		"*looks at you expectantly*",
		"I'm listening...",
		"What is it you need?",
	},
	CategoryError: {
		"*seems distracted for a moment*",
		"I... my thoughts are elsewhere. What were you saying?",
		"*pauses thoughtfully*",
	},
	CategoryTimeout: {
		"*takes a moment to consider*",
		"Give me a moment to think about that...",
		"*appears to be deep in thought*",
	},
}

// FallbackTexts returns the canned replies for category. Unknown categories
// use the error pool.
func FallbackTexts(category Category) []string {
	texts, ok := fallbackPool[category]
	if !ok {
		texts = fallbackPool[CategoryError]
	}
	out := make([]string, len(texts))
	copy(out, texts)
	return out
}

// Fallback picks a random canned reply for category
func Fallback(category Category) *llm.Result {
	texts, ok := fallbackPool[category]
	if !ok {
		texts = fallbackPool[CategoryError]
	}
	return llm.NewFallbackResult(texts[rand.IntN(len(texts))])
}
