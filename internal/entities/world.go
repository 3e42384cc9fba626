package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

// ObjectiveKind is what a party is currently doing
type ObjectiveKind string

// Party objectives
const (
	ObjectiveHold    ObjectiveKind = "hold"
	ObjectiveEscort  ObjectiveKind = "escort"
	ObjectivePatrol  ObjectiveKind = "patrol"
	ObjectiveEngage  ObjectiveKind = "engage"
	ObjectiveBesiege ObjectiveKind = "besiege"
)

// Objective is a party's current order
type Objective struct {
	Kind     ObjectiveKind `json:"kind"`
	TargetID string        `json:"target_id,omitempty"`
}

// Party is a controllable group led by one actor
type Party struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	Troops    int       `json:"troops"`
	Inactive  bool      `json:"inactive,omitempty"`
	Objective Objective `json:"objective"`
}

// GetID returns the party ID
func (p *Party) GetID() string {
	return p.ID
}

// GetType returns the entity type
func (p *Party) GetType() string {
	return TypeParty
}

// IsActive reports whether the party can receive orders
func (p *Party) IsActive() bool {
	return p != nil && !p.Inactive
}

// SettlementKind classifies a settlement
type SettlementKind string

// Settlement kinds
const (
	SettlementTown    SettlementKind = "town"
	SettlementCastle  SettlementKind = "castle"
	SettlementVillage SettlementKind = "village"
)

// Settlement is a fixed location
type Settlement struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Kind      SettlementKind `json:"kind"`
	FactionID string         `json:"faction_id,omitempty"`
}

// GetID returns the settlement ID
func (s *Settlement) GetID() string {
	return s.ID
}

// GetType returns the entity type
func (s *Settlement) GetType() string {
	return TypeSettlement
}

// Besiegeable reports whether the settlement can be put under siege
func (s *Settlement) Besiegeable() bool {
	return s != nil && (s.Kind == SettlementTown || s.Kind == SettlementCastle)
}

// Faction is a kingdom
type Faction struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	AtWar   []string `json:"at_war,omitempty"`
	Allies  []string `json:"allies,omitempty"`
	Culture string   `json:"culture,omitempty"`
}

var (
	_ core.Entity = (*Party)(nil)
	_ core.Entity = (*Settlement)(nil)
)
