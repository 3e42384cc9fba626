package dialogue

import (
	"time"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	"github.com/KirkDiggler/rpg-dialogue/internal/parser"
)

// State is where a conversation's current request stands
type State string

// Request states
const (
	StateIdle               State = "idle"
	StateAwaitingGeneration State = "awaiting_generation"
	StateParsingResponse    State = "parsing_response"
	StateAwaitingDiceRoll   State = "awaiting_dice_roll"
	StateExecutingAction    State = "executing_action"
	StateDone               State = "done"
)

// Conversation is a snapshot of one NPC/player dialogue
type Conversation struct {
	ID       string
	NPCID    string
	PlayerID string
	State    State

	// PendingDice and PendingAction are set while awaiting a roll
	PendingDice   *parser.DiceRequest
	PendingAction *parser.ActionRequest

	Turns     int
	StartedAt time.Time
	UpdatedAt time.Time
}

// TurnResult is what one request produced
type TurnResult struct {
	ConversationID string
	State          State

	// Display is the reply with structured blocks removed
	Display    string
	Provider   string
	Model      string
	IsFallback bool

	Action *parser.ActionRequest
	// Dice is set when the caller must resolve a roll before the action runs
	Dice    *parser.DiceRequest
	Outcome *actions.Outcome
	Roll    *d20.Outcome
}

// StartConversationInput names the participants
type StartConversationInput struct {
	NPCID    string
	PlayerID string
}

// StartConversationOutput contains the new conversation
type StartConversationOutput struct {
	Conversation *Conversation
}

// EndConversationInput identifies the conversation to end
type EndConversationInput struct {
	ConversationID string
	// ClearHistory also deletes the stored turns for the pair
	ClearHistory bool
}

// EndConversationOutput reports what was cleaned up
type EndConversationOutput struct {
	TurnsDeleted int64
}

// SendMessageInput is one player utterance
type SendMessageInput struct {
	ConversationID string
	Text           string
}

// SendMessageOutput contains the turn result
type SendMessageOutput struct {
	Turn *TurnResult
}

// ResolveDiceRollInput continues a conversation awaiting a roll. A nil Roll
// has the orchestrator roll for the player.
type ResolveDiceRollInput struct {
	ConversationID string
	Roll           *d20.Outcome
}

// ResolveDiceRollOutput contains the follow-up turn
type ResolveDiceRollOutput struct {
	Turn *TurnResult
}

// GetConversationInput identifies a conversation
type GetConversationInput struct {
	ConversationID string
}

// GetConversationOutput contains a snapshot
type GetConversationOutput struct {
	Conversation *Conversation
}
