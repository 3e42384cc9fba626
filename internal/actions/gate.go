package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-dialogue/internal/audit"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/modifier"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
)

// checkType used to size the skill check that overturns a trust rejection
const trustCheck = "persuasion"

// rejection is a failed precondition. Trust rejections can be lifted by a
// successful skill check.
type rejection struct {
	reason string
	trust  bool
	skill  entities.Skill
	dc     int
}

func reject(format string, args ...any) *rejection {
	return &rejection{reason: fmt.Sprintf(format, args...)}
}

func (r *rejection) outcome() *Outcome {
	if r.trust {
		return NeedsDice(r.reason, r.skill, r.dc)
	}
	return Fail(r.reason)
}

// explain turns a gate result into ExplainRejection's answer
func explain(r *rejection) string {
	if r == nil {
		return UnknownReason
	}
	return r.reason
}

// env is what every handler needs from the outside
type env struct {
	world    world.Repository
	recorder audit.Recorder
}

// alive checks that the NPC exists and is alive
func alive(req *Request) *rejection {
	if req == nil || req.NPC == nil {
		return reject("No NPC specified")
	}
	if !req.NPC.IsAlive() {
		return reject("%s is dead", req.NPC.DisplayName())
	}
	return nil
}

// party checks that the NPC is alive and has an active party, and when
// mustLead is set that they lead it
func (e *env) party(ctx context.Context, req *Request, mustLead bool) (*entities.Party, *rejection) {
	if r := alive(req); r != nil {
		return nil, r
	}

	npc := req.NPC
	if npc.PartyID == "" {
		return nil, reject("%s has no party", npc.DisplayName())
	}

	p, err := e.world.GetParty(ctx, npc.PartyID)
	if err != nil {
		slog.Debug("Party lookup failed", "npc_id", npc.ID, "party_id", npc.PartyID, "error", err)
		return nil, reject("%s has no party", npc.DisplayName())
	}
	if !p.IsActive() {
		return nil, reject("%s has no party", npc.DisplayName())
	}

	if mustLead && p.LeaderID != npc.ID {
		return nil, reject("%s is not the party leader", npc.DisplayName())
	}
	return p, nil
}

// relation is how the NPC regards the player. Lookup failures count as
// neutral.
func (e *env) relation(ctx context.Context, req *Request) int {
	if req.Player == nil {
		return 0
	}
	rel, err := e.world.Relation(ctx, req.NPC.ID, req.Player.ID)
	if err != nil {
		slog.Warn("Relation lookup failed",
			"npc_id", req.NPC.ID,
			"player_id", req.Player.ID,
			"error", err)
		return 0
	}
	return rel
}

// trust rejects when the NPC's relation is below minimum and no skill check
// has succeeded. reason receives the NPC name and the relation.
func (e *env) trust(ctx context.Context, req *Request, minimum int, skill entities.Skill, reason string) *rejection {
	if req.WasDiceSuccess {
		return nil
	}

	rel := e.relation(ctx, req)
	if rel >= minimum {
		return nil
	}

	return &rejection{
		reason: fmt.Sprintf(reason, req.NPC.DisplayName(), rel),
		trust:  true,
		skill:  skill,
		dc:     modifier.DifficultyClass(req.NPC, trustCheck),
	}
}

// atWar reports whether two factions are at war. Actors outside any faction
// are never blocked, and lookup failures count as peace.
func (e *env) atWar(ctx context.Context, factionA, factionB string) bool {
	if factionA == "" || factionB == "" {
		return true
	}
	war, err := e.world.AtWar(ctx, factionA, factionB)
	if err != nil {
		slog.Warn("War lookup failed", "faction_a", factionA, "faction_b", factionB, "error", err)
		return false
	}
	return war
}

// remember queues a memory for the NPC. Failures are logged and dropped.
func (e *env) remember(ctx context.Context, npc *entities.Actor, kind entities.MemoryKind, description string, sentiment int) {
	day, err := e.world.CurrentDay(ctx)
	if err != nil {
		slog.Warn("Failed to read game day for memory", "npc_id", npc.ID, "error", err)
	}

	err = e.recorder.RecordMemory(ctx, &entities.Memory{
		NPCID:       npc.ID,
		Kind:        kind,
		Description: description,
		Sentiment:   sentiment,
		GameDay:     day,
		Active:      true,
	})
	if err != nil {
		slog.Warn("Failed to record memory",
			"npc_id", npc.ID,
			"description", description,
			"error", err)
	}
}

// record queues a game event. Failures are logged and dropped.
func (e *env) record(ctx context.Context, event *entities.GameEvent) {
	if day, err := e.world.CurrentDay(ctx); err == nil {
		event.GameDay = day
	}
	event.Generated = true

	if err := e.recorder.RecordEvent(ctx, event); err != nil {
		slog.Warn("Failed to record game event",
			"type", event.Type,
			"primary_id", event.PrimaryID,
			"error", err)
	}
}

// failed reports a state change that errored after the gate passed
func failed(command string, npc *entities.Actor, err error) *Outcome {
	slog.Error("Action failed",
		"command", command,
		"npc_id", npc.ID,
		"error", err)
	return Fail(fmt.Sprintf("Command failed: %v", err))
}
