package entities

import "strings"

// Skill is a proficiency checked by dice rolls
type Skill string

// Skills known to the modifier calculator
const (
	SkillCharm        Skill = "charm"
	SkillLeadership   Skill = "leadership"
	SkillRoguery      Skill = "roguery"
	SkillTrade        Skill = "trade"
	SkillSteward      Skill = "steward"
	SkillTactics      Skill = "tactics"
	SkillIntimidation Skill = "intimidation"
)

// DefaultSkill is used for unknown or missing skill names
const DefaultSkill = SkillCharm

var knownSkills = map[Skill]bool{
	SkillCharm:        true,
	SkillLeadership:   true,
	SkillRoguery:      true,
	SkillTrade:        true,
	SkillSteward:      true,
	SkillTactics:      true,
	SkillIntimidation: true,
}

// ParseSkill normalizes name and falls back to DefaultSkill when unknown
func ParseSkill(name string) Skill {
	s := Skill(strings.ToLower(strings.TrimSpace(name)))
	if knownSkills[s] {
		return s
	}
	return DefaultSkill
}

// Trait is a personality axis
type Trait string

// Personality traits
const (
	TraitValor       Trait = "valor"
	TraitMercy       Trait = "mercy"
	TraitHonor       Trait = "honor"
	TraitGenerosity  Trait = "generosity"
	TraitCalculating Trait = "calculating"
)
