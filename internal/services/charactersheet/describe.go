package charactersheet

import (
	"fmt"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// BalancedPersonality is used when no trait departs from zero
const BalancedPersonality = "Balanced personality - no extreme traits"

// traitWords lists descriptions for levels -2, -1, +1 and +2
var traitWords = []struct {
	trait entities.Trait
	words [4]string
}{
	{entities.TraitValor, [4]string{
		"Very Cautious - avoids danger at all costs",
		"Cautious - prefers safe options",
		"Daring - willing to take risks",
		"Fearless - brave to the point of recklessness",
	}},
	{entities.TraitMercy, [4]string{
		"Sadistic - enjoys others' pain",
		"Cruel - shows no mercy",
		"Merciful - shows kindness to enemies",
		"Compassionate - deeply caring for others' suffering",
	}},
	{entities.TraitHonor, [4]string{
		"Deceitful - lies and manipulates freely",
		"Devious - willing to bend the truth",
		"Honest - values truth and fairness",
		"Honorable - keeps word no matter what",
	}},
	{entities.TraitGenerosity, [4]string{
		"Tightfisted - hoards wealth jealously",
		"Closefisted - reluctant to part with money",
		"Generous - shares with friends and allies",
		"Munificent - extremely generous with wealth",
	}},
	{entities.TraitCalculating, [4]string{
		"Hotheaded - acts on impulse",
		"Impulsive - makes quick decisions",
		"Calculating - weighs options carefully",
		"Cerebral - always thinking ahead",
	}},
}

// DescribeTraits turns trait levels into personality lines
func DescribeTraits(a *entities.Actor) []string {
	var out []string
	for _, tw := range traitWords {
		switch a.TraitLevel(tw.trait) {
		case -2:
			out = append(out, tw.words[0])
		case -1:
			out = append(out, tw.words[1])
		case 1:
			out = append(out, tw.words[2])
		case 2:
			out = append(out, tw.words[3])
		}
	}
	if len(out) == 0 {
		return []string{BalancedPersonality}
	}
	return out
}

// DescribeRelation labels a relation score, e.g. "Friendly (25/100)"
func DescribeRelation(relation int) string {
	var label string
	switch {
	case relation >= 80:
		label = "Devoted friend"
	case relation >= 50:
		label = "Good friend"
	case relation >= 20:
		label = "Friendly"
	case relation >= 0:
		label = "Neutral"
	case relation >= -20:
		label = "Unfriendly"
	case relation >= -50:
		label = "Hostile"
	default:
		label = "Bitter enemy"
	}
	return fmt.Sprintf("%s (%d/100)", label, relation)
}
