package world

import (
	"encoding/json"
	"io"
	"os"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

// Seed is the JSON document used to populate an in-memory world
type Seed struct {
	Day         int                    `json:"day"`
	Actors      []*entities.Actor      `json:"actors"`
	Parties     []*entities.Party      `json:"parties"`
	Settlements []*entities.Settlement `json:"settlements"`
	Factions    []*entities.Faction    `json:"factions"`
}

// DecodeSeed reads a seed document
func DecodeSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode world seed")
	}
	return &seed, nil
}

// LoadSeedFile reads a seed document from path
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open world seed %s", path)
	}
	defer func() { _ = f.Close() }()

	return DecodeSeed(f)
}

// DemoSeed is a small world used when no seed file is configured
func DemoSeed() *Seed {
	return &Seed{
		Day: 1,
		Actors: []*entities.Actor{
			{
				ID:        "player",
				Name:      "Aldric",
				IsPlayer:  true,
				FactionID: "vlandia",
				ClanID:    "dey_aldric",
				CultureID: "vlandian",
				PartyID:   "party_player",
				Skills: map[entities.Skill]int{
					entities.SkillCharm:      75,
					entities.SkillLeadership: 60,
					entities.SkillRoguery:    20,
				},
				Traits: map[entities.Trait]int{entities.TraitHonor: 1},
			},
			{
				ID:        "lord_derthert",
				Name:      "Derthert",
				Age:       52,
				Gender:    "male",
				Role:      "king",
				FactionID: "vlandia",
				ClanID:    "dey_meroc",
				CultureID: "vlandian",
				PartyID:   "party_derthert",
				Location:  "Pravend",
				Traits: map[entities.Trait]int{
					entities.TraitHonor:       1,
					entities.TraitValor:       1,
					entities.TraitCalculating: 1,
				},
				Relations: map[string]int{"player": 25},
			},
			{
				ID:        "lord_caladog",
				Name:      "Caladog",
				Age:       47,
				Gender:    "male",
				Role:      "king",
				FactionID: "battania",
				ClanID:    "fen_derngil",
				CultureID: "battanian",
				PartyID:   "party_caladog",
				Location:  "Marunath",
				Traits: map[entities.Trait]int{
					entities.TraitValor: 2,
					entities.TraitMercy: -1,
				},
				Relations: map[string]int{"player": -30},
			},
		},
		Parties: []*entities.Party{
			{ID: "party_player", Name: "Aldric's Party", LeaderID: "player", Troops: 40},
			{ID: "party_derthert", Name: "Derthert's Party", LeaderID: "lord_derthert", Troops: 180,
				Objective: entities.Objective{Kind: entities.ObjectiveHold}},
			{ID: "party_caladog", Name: "Caladog's Party", LeaderID: "lord_caladog", Troops: 120,
				Objective: entities.Objective{Kind: entities.ObjectiveHold}},
		},
		Settlements: []*entities.Settlement{
			{ID: "town_pravend", Name: "Pravend", Kind: entities.SettlementTown, FactionID: "vlandia"},
			{ID: "town_marunath", Name: "Marunath", Kind: entities.SettlementTown, FactionID: "battania"},
			{ID: "castle_druimmor", Name: "Druimmor Castle", Kind: entities.SettlementCastle, FactionID: "battania"},
			{ID: "village_ryibelet", Name: "Ryibelet", Kind: entities.SettlementVillage, FactionID: "vlandia"},
		},
		Factions: []*entities.Faction{
			{ID: "vlandia", Name: "Kingdom of Vlandia", AtWar: []string{"battania"}, Culture: "vlandian"},
			{ID: "battania", Name: "Kingdom of Battania", AtWar: []string{"vlandia"}, Culture: "battanian"},
		},
	}
}
