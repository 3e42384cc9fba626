// Package world provides lookups and mutations of the game state that NPC
// actions operate on
package world

import (
	"context"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=worldmock github.com/KirkDiggler/rpg-dialogue/internal/repositories/world Repository

// Relation scores are clamped to this range
const (
	MinRelation = -100
	MaxRelation = 100
)

// Repository is the game-engine boundary. Returned entities are copies; use
// the mutation methods to change state.
type Repository interface {
	// GetActor returns an actor by ID
	GetActor(ctx context.Context, id string) (*entities.Actor, error)

	// FindActor matches an actor by ID or case-insensitive name
	FindActor(ctx context.Context, nameOrID string) (*entities.Actor, error)

	// GetParty returns a party by ID
	GetParty(ctx context.Context, id string) (*entities.Party, error)

	// FindSettlement matches a settlement by ID or case-insensitive name
	FindSettlement(ctx context.Context, nameOrID string) (*entities.Settlement, error)

	// GetFaction returns a faction by ID
	GetFaction(ctx context.Context, id string) (*entities.Faction, error)

	// AtWar reports whether two factions are at war with each other
	AtWar(ctx context.Context, factionA, factionB string) (bool, error)

	// Relation returns how actor fromID regards actor toID
	Relation(ctx context.Context, fromID, toID string) (int, error)

	// ChangeRelation adjusts the relation symmetrically and returns the new value
	ChangeRelation(ctx context.Context, fromID, toID string, delta int) (int, error)

	// SetObjective replaces a party's current objective
	SetObjective(ctx context.Context, partyID string, objective entities.Objective) error

	// ListActors returns every actor ordered by ID
	ListActors(ctx context.Context) ([]*entities.Actor, error)

	// ListSettlements returns every settlement ordered by ID
	ListSettlements(ctx context.Context) ([]*entities.Settlement, error)

	// ListFactions returns every faction ordered by ID
	ListFactions(ctx context.Context) ([]*entities.Faction, error)

	// CurrentDay returns the in-game day number
	CurrentDay(ctx context.Context) (int, error)
}
