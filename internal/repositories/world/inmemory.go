package world

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

// InMemoryRepository implements Repository from a seed held in memory
type InMemoryRepository struct {
	mu          sync.RWMutex
	day         int
	actors      map[string]*entities.Actor
	parties     map[string]*entities.Party
	settlements map[string]*entities.Settlement
	factions    map[string]*entities.Faction
}

// NewInMemory creates a repository populated from seed
func NewInMemory(seed *Seed) (*InMemoryRepository, error) {
	if seed == nil {
		return nil, errors.InvalidArgument("seed is required")
	}

	r := &InMemoryRepository{
		day:         seed.Day,
		actors:      make(map[string]*entities.Actor, len(seed.Actors)),
		parties:     make(map[string]*entities.Party, len(seed.Parties)),
		settlements: make(map[string]*entities.Settlement, len(seed.Settlements)),
		factions:    make(map[string]*entities.Faction, len(seed.Factions)),
	}

	for _, a := range seed.Actors {
		if a == nil || a.ID == "" {
			return nil, errors.InvalidArgument("seed actor ID is required")
		}
		r.actors[a.ID] = copyActor(a)
	}
	for _, p := range seed.Parties {
		if p == nil || p.ID == "" {
			return nil, errors.InvalidArgument("seed party ID is required")
		}
		cp := *p
		r.parties[p.ID] = &cp
	}
	for _, s := range seed.Settlements {
		if s == nil || s.ID == "" {
			return nil, errors.InvalidArgument("seed settlement ID is required")
		}
		cp := *s
		r.settlements[s.ID] = &cp
	}
	for _, f := range seed.Factions {
		if f == nil || f.ID == "" {
			return nil, errors.InvalidArgument("seed faction ID is required")
		}
		r.factions[f.ID] = copyFaction(f)
	}

	return r, nil
}

var _ Repository = (*InMemoryRepository)(nil)

// GetActor returns an actor by ID
func (r *InMemoryRepository) GetActor(_ context.Context, id string) (*entities.Actor, error) {
	if id == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actors[id]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", id)
	}
	return copyActor(a), nil
}

// FindActor matches an actor by ID or case-insensitive name
func (r *InMemoryRepository) FindActor(_ context.Context, nameOrID string) (*entities.Actor, error) {
	key := strings.TrimSpace(nameOrID)
	if key == "" {
		return nil, errors.InvalidArgument("actor name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.actors[key]; ok {
		return copyActor(a), nil
	}
	for _, a := range r.actors {
		if strings.EqualFold(a.Name, key) {
			return copyActor(a), nil
		}
	}
	// Partial match on the name as a last resort, e.g. "Caladog" in "King Caladog"
	lower := strings.ToLower(key)
	for _, a := range r.actors {
		name := strings.ToLower(a.Name)
		if name != "" && (strings.Contains(name, lower) || strings.Contains(lower, name)) {
			return copyActor(a), nil
		}
	}
	return nil, errors.NotFoundf("actor %s not found", key)
}

// GetParty returns a party by ID
func (r *InMemoryRepository) GetParty(_ context.Context, id string) (*entities.Party, error) {
	if id == "" {
		return nil, errors.InvalidArgument("party ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parties[id]
	if !ok {
		return nil, errors.NotFoundf("party %s not found", id)
	}
	cp := *p
	return &cp, nil
}

// FindSettlement matches a settlement by ID or case-insensitive name
func (r *InMemoryRepository) FindSettlement(_ context.Context, nameOrID string) (*entities.Settlement, error) {
	key := strings.TrimSpace(nameOrID)
	if key == "" {
		return nil, errors.InvalidArgument("settlement name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.settlements[key]; ok {
		cp := *s
		return &cp, nil
	}
	for _, s := range r.settlements {
		if strings.EqualFold(s.Name, key) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.NotFoundf("settlement %s not found", key)
}

// GetFaction returns a faction by ID
func (r *InMemoryRepository) GetFaction(_ context.Context, id string) (*entities.Faction, error) {
	if id == "" {
		return nil, errors.InvalidArgument("faction ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factions[id]
	if !ok {
		return nil, errors.NotFoundf("faction %s not found", id)
	}
	return copyFaction(f), nil
}

// AtWar reports whether either faction lists the other as an enemy
func (r *InMemoryRepository) AtWar(_ context.Context, factionA, factionB string) (bool, error) {
	if factionA == "" || factionB == "" || factionA == factionB {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.factions[factionA]; ok && contains(f.AtWar, factionB) {
		return true, nil
	}
	if f, ok := r.factions[factionB]; ok && contains(f.AtWar, factionA) {
		return true, nil
	}
	return false, nil
}

// Relation returns how actor fromID regards actor toID
func (r *InMemoryRepository) Relation(_ context.Context, fromID, toID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, ok := r.actors[fromID]
	if !ok {
		return 0, errors.NotFoundf("actor %s not found", fromID)
	}
	if _, ok := r.actors[toID]; !ok {
		return 0, errors.NotFoundf("actor %s not found", toID)
	}
	return from.Relations[toID], nil
}

// ChangeRelation adjusts both directions of the relation and returns the new
// value as seen by fromID
func (r *InMemoryRepository) ChangeRelation(_ context.Context, fromID, toID string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.actors[fromID]
	if !ok {
		return 0, errors.NotFoundf("actor %s not found", fromID)
	}
	to, ok := r.actors[toID]
	if !ok {
		return 0, errors.NotFoundf("actor %s not found", toID)
	}

	if from.Relations == nil {
		from.Relations = make(map[string]int)
	}
	if to.Relations == nil {
		to.Relations = make(map[string]int)
	}

	updated := clampRelation(from.Relations[toID] + delta)
	from.Relations[toID] = updated
	to.Relations[fromID] = updated

	return updated, nil
}

// SetObjective replaces a party's current objective
func (r *InMemoryRepository) SetObjective(_ context.Context, partyID string, objective entities.Objective) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parties[partyID]
	if !ok {
		return errors.NotFoundf("party %s not found", partyID)
	}
	p.Objective = objective
	return nil
}

// ListActors returns every actor ordered by ID
func (r *InMemoryRepository) ListActors(_ context.Context) ([]*entities.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Actor, 0, len(r.actors))
	for _, a := range r.actors {
		out = append(out, copyActor(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListSettlements returns every settlement ordered by ID
func (r *InMemoryRepository) ListSettlements(_ context.Context) ([]*entities.Settlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Settlement, 0, len(r.settlements))
	for _, s := range r.settlements {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListFactions returns every faction ordered by ID
func (r *InMemoryRepository) ListFactions(_ context.Context) ([]*entities.Faction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Faction, 0, len(r.factions))
	for _, f := range r.factions {
		out = append(out, copyFaction(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CurrentDay returns the in-game day number
func (r *InMemoryRepository) CurrentDay(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.day, nil
}

// AdvanceDays moves the calendar forward
func (r *InMemoryRepository) AdvanceDays(days int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.day += days
}

func clampRelation(v int) int {
	if v < MinRelation {
		return MinRelation
	}
	if v > MaxRelation {
		return MaxRelation
	}
	return v
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func copyActor(a *entities.Actor) *entities.Actor {
	cp := *a
	if a.Skills != nil {
		cp.Skills = make(map[entities.Skill]int, len(a.Skills))
		for k, v := range a.Skills {
			cp.Skills[k] = v
		}
	}
	if a.Traits != nil {
		cp.Traits = make(map[entities.Trait]int, len(a.Traits))
		for k, v := range a.Traits {
			cp.Traits[k] = v
		}
	}
	if a.Relations != nil {
		cp.Relations = make(map[string]int, len(a.Relations))
		for k, v := range a.Relations {
			cp.Relations[k] = v
		}
	}
	return &cp
}

func copyFaction(f *entities.Faction) *entities.Faction {
	cp := *f
	cp.AtWar = append([]string(nil), f.AtWar...)
	cp.Allies = append([]string(nil), f.Allies...)
	return &cp
}
