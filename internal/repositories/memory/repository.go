// Package memory persists what NPCs remember about the player and the audit
// log of game events produced by dialogue
package memory

import (
	"context"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=memorymock github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory Repository

// Repository stores memories and game events
type Repository interface {
	// SaveMemory stores a memory, assigning ID and CreatedAt when blank
	SaveMemory(ctx context.Context, memory *entities.Memory) error

	// ActiveMemories returns the NPC's unexpired memories on day, newest
	// first. A limit of zero returns all of them.
	ActiveMemories(ctx context.Context, npcID string, day, limit int) ([]*entities.Memory, error)

	// DeactivateMemory stops a memory from being recalled
	DeactivateMemory(ctx context.Context, id string) error

	// SaveEvent stores a game event, assigning ID and CreatedAt when blank
	SaveEvent(ctx context.Context, event *entities.GameEvent) error

	// RecentEvents returns the latest events, newest first
	RecentEvents(ctx context.Context, limit int) ([]*entities.GameEvent, error)

	// EventsFor returns the latest events involving entityID, newest first
	EventsFor(ctx context.Context, entityID string, limit int) ([]*entities.GameEvent, error)
}
