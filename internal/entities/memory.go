package entities

import "time"

// MemoryKind classifies what an NPC remembers
type MemoryKind string

// Memory kinds
const (
	MemoryCommand  MemoryKind = "command"
	MemoryCombat   MemoryKind = "combat"
	MemoryDiceRoll MemoryKind = "dice_roll"
)

// Memory is something an NPC recalls about the player. It is fed back into
// later prompts until it expires.
type Memory struct {
	ID          string     `json:"id"`
	NPCID       string     `json:"npc_id"`
	Kind        MemoryKind `json:"kind"`
	Description string     `json:"description"`
	Sentiment   int        `json:"sentiment"`
	GameDay     int        `json:"game_day"`
	// ExpiresOnDay of zero never expires
	ExpiresOnDay int       `json:"expires_on_day,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActiveOn reports whether the memory should still be recalled on day
func (m *Memory) ActiveOn(day int) bool {
	if m == nil || !m.Active {
		return false
	}
	return m.ExpiresOnDay == 0 || m.ExpiresOnDay > day
}

// EventType classifies a game event
type EventType string

// Event types
const (
	EventPlayerCommand   EventType = "player_command"
	EventRelationChanged EventType = "relation_changed"
	EventDiceRoll        EventType = "dice_roll"
)

// GameEvent is an audit record of something the dialogue pipeline did to the
// world
type GameEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	PrimaryID   string         `json:"primary_id,omitempty"`
	SecondaryID string         `json:"secondary_id,omitempty"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	GameDay     int            `json:"game_day"`
	Generated   bool           `json:"generated"`
	CreatedAt   time.Time      `json:"created_at"`
}
