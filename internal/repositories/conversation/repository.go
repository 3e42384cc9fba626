// Package conversation provides repository interface and types for the turns
// exchanged between the player and an NPC
package conversation

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=conversationmock github.com/KirkDiggler/rpg-dialogue/internal/repositories/conversation Repository

// Turn is one message in a dialogue
type Turn struct {
	// Role is "user" for the player, "assistant" for the NPC
	Role string `json:"role"`

	// Content is the text as shown to the player
	Content string `json:"content"`

	// ConversationID is the conversation the turn was spoken in
	ConversationID string `json:"conversation_id,omitempty"`

	// When the turn was stored
	CreatedAt time.Time `json:"created_at"`
}

// AppendInput contains turns to add to an NPC/player history
type AppendInput struct {
	NPCID    string
	PlayerID string
	Turns    []Turn
}

// AppendOutput contains the history length after the append
type AppendOutput struct {
	Length int64
}

// RecentInput contains parameters for reading the latest turns
type RecentInput struct {
	NPCID    string
	PlayerID string
	// Limit of zero or less returns the whole retained history
	Limit int
}

// RecentOutput contains turns in chronological order
type RecentOutput struct {
	Turns []Turn
}

// ClearInput identifies a history to remove
type ClearInput struct {
	NPCID    string
	PlayerID string
}

// ClearOutput contains how many turns were removed
type ClearOutput struct {
	TurnsDeleted int64
}

// Repository defines storage for dialogue history
type Repository interface {
	// Append adds turns to the end of the history and refreshes its TTL
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// Recent returns the newest turns, oldest first
	Recent(ctx context.Context, input RecentInput) (*RecentOutput, error)

	// Clear removes a history
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}
