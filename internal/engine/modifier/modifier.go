// Package modifier computes the bonus or penalty applied to a d20 skill check
// from an actor's proficiency, personality, standing with the counterpart and
// shared allegiances.
package modifier

import (
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

const (
	// SkillPointsPerStep is how many proficiency points buy +1
	SkillPointsPerStep = 25
	// BaseModifier is the contribution of an untrained skill
	BaseModifier = -2

	SameFactionBonus = 2
	AtWarPenalty     = -3
	SameClanBonus    = 3
	SameCultureBonus = 1

	BaseDifficulty = 10
	MinDifficulty  = 5
	MaxDifficulty  = 25
)

// Alignment holds the contextual flags shared between actor and counterpart
type Alignment struct {
	SameFaction bool
	AtWar       bool
	SameClan    bool
	SameCulture bool
}

// Factors are everything a modifier depends on
type Factors struct {
	Skill          entities.Skill
	SkillValue     int
	Traits         map[entities.Trait]int
	HasCounterpart bool
	Relation       int
	Alignment      Alignment
}

// Breakdown is a computed modifier split by source
type Breakdown struct {
	Skill    int
	Traits   int
	Relation int
	Context  int
	Total    int
}

// SkillModifier converts raw proficiency into a modifier
func SkillModifier(value int) int {
	if value < 0 {
		value = 0
	}
	return value/SkillPointsPerStep + BaseModifier
}

// TraitModifier returns the skill-specific personality adjustment. Trait
// levels are clamped before use.
func TraitModifier(skill entities.Skill, traits map[entities.Trait]int) int {
	level := func(t entities.Trait) int {
		return entities.ClampTrait(traits[t])
	}

	switch skill {
	case entities.SkillCharm:
		return level(entities.TraitGenerosity) + level(entities.TraitHonor)/2
	case entities.SkillLeadership:
		return level(entities.TraitValor) + level(entities.TraitGenerosity)
	case entities.SkillRoguery:
		return level(entities.TraitCalculating) - level(entities.TraitHonor)/2
	case entities.SkillIntimidation:
		return level(entities.TraitValor) - level(entities.TraitMercy)
	default:
		return 0
	}
}

// RelationModifier buckets a relationship score
func RelationModifier(score int) int {
	switch {
	case score >= 50:
		return 3
	case score >= 20:
		return 2
	case score >= 0:
		return 1
	case score >= -20:
		return 0
	case score >= -50:
		return -1
	default:
		return -3
	}
}

// AlignmentModifier sums every applicable contextual bonus. The flags are
// independent: same faction and at war both apply when both are set.
func AlignmentModifier(a Alignment) int {
	total := 0
	if a.SameFaction {
		total += SameFactionBonus
	}
	if a.AtWar {
		total += AtWarPenalty
	}
	if a.SameClan {
		total += SameClanBonus
	}
	if a.SameCulture {
		total += SameCultureBonus
	}
	return total
}

// Compute applies every rule to f
func Compute(f Factors) Breakdown {
	b := Breakdown{
		Skill:  SkillModifier(f.SkillValue),
		Traits: TraitModifier(f.Skill, f.Traits),
	}
	if f.HasCounterpart {
		b.Relation = RelationModifier(f.Relation)
		b.Context = AlignmentModifier(f.Alignment)
	}
	b.Total = b.Skill + b.Traits + b.Relation + b.Context
	return b
}

// AlignmentBetween derives the identity-based flags. AtWar needs world state
// and is left false.
func AlignmentBetween(actor, counterpart *entities.Actor) Alignment {
	if actor == nil || counterpart == nil {
		return Alignment{}
	}
	same := func(a, b string) bool {
		return a != "" && a == b
	}
	return Alignment{
		SameFaction: same(actor.FactionID, counterpart.FactionID),
		SameClan:    same(actor.ClanID, counterpart.ClanID),
		SameCulture: same(actor.CultureID, counterpart.CultureID),
	}
}

// DifficultyClass estimates how hard it is to sway npc with a check of the
// given type
func DifficultyClass(npc *entities.Actor, checkType string) int {
	dc := BaseDifficulty
	if npc == nil {
		return dc
	}

	switch strings.ToLower(strings.TrimSpace(checkType)) {
	case "persuasion", string(entities.SkillCharm):
		dc += npc.TraitLevel(entities.TraitCalculating) * 2
		dc -= npc.TraitLevel(entities.TraitHonor)
	case string(entities.SkillIntimidation):
		valor := npc.TraitLevel(entities.TraitValor)
		dc += valor * 2
		if valor < 0 {
			dc += valor
		}
	case "deception", string(entities.SkillRoguery):
		dc += npc.TraitLevel(entities.TraitCalculating) * 2
		dc += npc.TraitLevel(entities.TraitHonor)
	case "bribe", string(entities.SkillTrade):
		dc += npc.TraitLevel(entities.TraitGenerosity) * 2
	}

	if dc < MinDifficulty {
		return MinDifficulty
	}
	if dc > MaxDifficulty {
		return MaxDifficulty
	}
	return dc
}
