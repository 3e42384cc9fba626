// Package entities provides the game-state data structures the dialogue
// pipeline reads and mutates.
package entities

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Entity types reported through core.Entity
const (
	TypeActor      = "actor"
	TypeParty      = "party"
	TypeSettlement = "settlement"
)

// Trait levels are clamped to this range
const (
	MinTraitLevel = -2
	MaxTraitLevel = 2
)

// Actor is a hero in the world: either the player or an NPC they talk to
type Actor struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	IsPlayer  bool           `json:"is_player,omitempty"`
	Dead      bool           `json:"dead,omitempty"`
	Age       int            `json:"age,omitempty"`
	Gender    string         `json:"gender,omitempty"`
	Role      string         `json:"role,omitempty"`
	FactionID string         `json:"faction_id,omitempty"`
	ClanID    string         `json:"clan_id,omitempty"`
	CultureID string         `json:"culture_id,omitempty"`
	PartyID   string         `json:"party_id,omitempty"`
	Location  string         `json:"location,omitempty"`
	Skills    map[Skill]int  `json:"skills,omitempty"`
	Traits    map[Trait]int  `json:"traits,omitempty"`
	Relations map[string]int `json:"relations,omitempty"`
}

// GetID returns the actor ID
func (a *Actor) GetID() string {
	return a.ID
}

// GetType returns the entity type
func (a *Actor) GetType() string {
	return TypeActor
}

// IsAlive reports whether the actor is present and alive
func (a *Actor) IsAlive() bool {
	return a != nil && !a.Dead
}

// SkillValue returns the proficiency for skill, never negative
func (a *Actor) SkillValue(skill Skill) int {
	if a == nil || a.Skills == nil {
		return 0
	}
	if v := a.Skills[skill]; v > 0 {
		return v
	}
	return 0
}

// TraitLevel returns the clamped level of trait
func (a *Actor) TraitLevel(trait Trait) int {
	if a == nil || a.Traits == nil {
		return 0
	}
	return ClampTrait(a.Traits[trait])
}

// ClampTrait limits a raw trait value to [MinTraitLevel, MaxTraitLevel]
func ClampTrait(level int) int {
	switch {
	case level < MinTraitLevel:
		return MinTraitLevel
	case level > MaxTraitLevel:
		return MaxTraitLevel
	default:
		return level
	}
}

// DisplayName returns the name or ID when the name is blank
func (a *Actor) DisplayName() string {
	if a == nil {
		return ""
	}
	if strings.TrimSpace(a.Name) == "" {
		return a.ID
	}
	return a.Name
}

var _ core.Entity = (*Actor)(nil)
