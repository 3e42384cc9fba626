// Package charactersheet describes NPCs and the world around them for prompts
package charactersheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
)

//go:generate mockgen -destination=mock/mock_service.go -package=charactersheetmock github.com/KirkDiggler/rpg-dialogue/internal/services/charactersheet Service

// DefaultMaxSnippets caps the world context returned for one utterance
const DefaultMaxSnippets = 6

// Service builds the context an NPC speaks from
type Service interface {
	// GetCharacterSheet summarizes an NPC as seen by a player
	GetCharacterSheet(ctx context.Context, input *GetCharacterSheetInput) (*GetCharacterSheetOutput, error)

	// FindWorldContext returns snippets for factions, settlements and actors
	// mentioned in free text
	FindWorldContext(ctx context.Context, input *FindWorldContextInput) (*FindWorldContextOutput, error)
}

// GetCharacterSheetInput names the NPC and who they are talking to
type GetCharacterSheetInput struct {
	NPCID    string
	PlayerID string
}

// GetCharacterSheetOutput contains the sheet
type GetCharacterSheetOutput struct {
	Sheet *Sheet
}

// FindWorldContextInput holds the text to scan
type FindWorldContextInput struct {
	Text string
	// ExcludeIDs are entities already described elsewhere in the prompt
	ExcludeIDs []string
}

// FindWorldContextOutput holds one line per mentioned entity
type FindWorldContextOutput struct {
	Snippets []string
}

// Sheet is everything the prompt says about an NPC
type Sheet struct {
	NPCID     string
	Name      string
	Age       int
	Gender    string
	Role      string
	Culture   string
	Clan      string
	FactionID string
	Faction   string
	Location  string
	PartySize int
	Dead      bool

	// Traits are human-readable personality descriptions
	Traits []string

	PlayerName    string
	Relation      int
	RelationLabel string

	Enemies []string
	Allies  []string
	GameDay int
}

// Config holds the dependencies for the service
type Config struct {
	World       world.Repository
	MaxSnippets int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.MaxSnippets < 0 {
		vb.InvalidField("MaxSnippets", "must not be negative")
	}

	return vb.Build()
}

type service struct {
	world       world.Repository
	maxSnippets int
}

var _ Service = (*service)(nil)

// New creates a character sheet service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxSnippets := cfg.MaxSnippets
	if maxSnippets == 0 {
		maxSnippets = DefaultMaxSnippets
	}

	return &service{
		world:       cfg.World,
		maxSnippets: maxSnippets,
	}, nil
}

// GetCharacterSheet summarizes the NPC. Only a missing NPC is an error; gaps
// elsewhere degrade to placeholders.
func (s *service) GetCharacterSheet(ctx context.Context, input *GetCharacterSheetInput) (*GetCharacterSheetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.NPCID == "" {
		return nil, errors.InvalidArgument("npc ID is required")
	}

	npc, err := s.world.GetActor(ctx, input.NPCID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load npc %s", input.NPCID)
	}

	sheet := &Sheet{
		NPCID:      npc.ID,
		Name:       npc.DisplayName(),
		Age:        npc.Age,
		Gender:     npc.Gender,
		Role:       npc.Role,
		Culture:    npc.CultureID,
		Clan:       npc.ClanID,
		FactionID:  npc.FactionID,
		Location:   npc.Location,
		Dead:       npc.Dead,
		Traits:     DescribeTraits(npc),
		PlayerName: "the player",
	}

	if day, err := s.world.CurrentDay(ctx); err == nil {
		sheet.GameDay = day
	}

	if npc.PartyID != "" {
		if p, err := s.world.GetParty(ctx, npc.PartyID); err == nil && p.IsActive() {
			sheet.PartySize = p.Troops
		}
	}

	s.describeFaction(ctx, npc, sheet)

	if input.PlayerID != "" {
		if player, err := s.world.GetActor(ctx, input.PlayerID); err == nil {
			sheet.PlayerName = player.DisplayName()
		}
		rel, err := s.world.Relation(ctx, npc.ID, input.PlayerID)
		if err != nil {
			slog.Debug("Relation unavailable for character sheet",
				"npc_id", npc.ID,
				"player_id", input.PlayerID,
				"error", err)
		}
		sheet.Relation = rel
	}
	sheet.RelationLabel = DescribeRelation(sheet.Relation)

	return &GetCharacterSheetOutput{Sheet: sheet}, nil
}

func (s *service) describeFaction(ctx context.Context, npc *entities.Actor, sheet *Sheet) {
	if npc.FactionID == "" {
		return
	}

	faction, err := s.world.GetFaction(ctx, npc.FactionID)
	if err != nil {
		slog.Debug("Faction unavailable for character sheet", "faction_id", npc.FactionID, "error", err)
		sheet.Faction = npc.FactionID
		return
	}

	sheet.Faction = faction.Name
	if sheet.Culture == "" {
		sheet.Culture = faction.Culture
	}
	sheet.Enemies = s.factionNames(ctx, faction.AtWar)
	sheet.Allies = s.factionNames(ctx, faction.Allies)
}

func (s *service) factionNames(ctx context.Context, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if f, err := s.world.GetFaction(ctx, id); err == nil && f.Name != "" {
			names = append(names, f.Name)
			continue
		}
		names = append(names, id)
	}
	return names
}

// FindWorldContext scans text for known names. Factions come first, then
// settlements, then actors; output stops at the configured cap.
func (s *service) FindWorldContext(ctx context.Context, input *FindWorldContextInput) (*FindWorldContextOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &FindWorldContextOutput{}
	text := strings.ToLower(input.Text)
	if strings.TrimSpace(text) == "" {
		return out, nil
	}

	skip := make(map[string]bool, len(input.ExcludeIDs))
	for _, id := range input.ExcludeIDs {
		skip[id] = true
	}

	factions, err := s.world.ListFactions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list factions")
	}
	factionNames := make(map[string]string, len(factions))
	for _, f := range factions {
		factionNames[f.ID] = f.Name
	}
	nameOf := func(id string) string {
		if name, ok := factionNames[id]; ok && name != "" {
			return name
		}
		return id
	}

	add := func(line string) bool {
		out.Snippets = append(out.Snippets, line)
		return len(out.Snippets) >= s.maxSnippets
	}

	for _, f := range factions {
		if skip[f.ID] || !mentions(text, f.Name, f.ID) {
			continue
		}
		if add(factionSnippet(f, nameOf)) {
			return out, nil
		}
	}

	settlements, err := s.world.ListSettlements(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list settlements")
	}
	for _, st := range settlements {
		if skip[st.ID] || !mentions(text, st.Name) {
			continue
		}
		if add(fmt.Sprintf("%s is a %s held by %s.", st.Name, st.Kind, nameOf(st.FactionID))) {
			return out, nil
		}
	}

	actors, err := s.world.ListActors(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list actors")
	}
	for _, a := range actors {
		if skip[a.ID] || a.IsPlayer || !mentions(text, a.Name) {
			continue
		}
		if add(actorSnippet(a, nameOf)) {
			return out, nil
		}
	}

	return out, nil
}

func factionSnippet(f *entities.Faction, nameOf func(string) string) string {
	var b strings.Builder
	b.WriteString(f.Name)
	if len(f.AtWar) == 0 {
		b.WriteString(" is at peace.")
	} else {
		b.WriteString(" is at war with ")
		b.WriteString(joinNames(f.AtWar, nameOf))
		b.WriteString(".")
	}
	if len(f.Allies) > 0 {
		b.WriteString(" Allies: ")
		b.WriteString(joinNames(f.Allies, nameOf))
		b.WriteString(".")
	}
	return b.String()
}

func actorSnippet(a *entities.Actor, nameOf func(string) string) string {
	var b strings.Builder
	b.WriteString(a.DisplayName())
	if a.Role != "" {
		fmt.Fprintf(&b, ", %s", a.Role)
	}
	if a.FactionID != "" {
		fmt.Fprintf(&b, " of %s", nameOf(a.FactionID))
	}
	switch {
	case a.Dead:
		b.WriteString(", is dead.")
	case a.Location != "":
		fmt.Fprintf(&b, ", is at %s.", a.Location)
	default:
		b.WriteString(", is travelling.")
	}
	return b.String()
}

func joinNames(ids []string, nameOf func(string) string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = nameOf(id)
	}
	return strings.Join(names, ", ")
}

// mentions reports whether any of the names appear in lowered text as whole
// words. Names shorter than three letters are ignored.
func mentions(text string, names ...string) bool {
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if len(name) < 3 {
			continue
		}
		if containsWord(text, name) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for offset := 0; ; {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundary(text, start-1) && boundary(text, end) {
			return true
		}
		offset = start + 1
	}
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_')
}
