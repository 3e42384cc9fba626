package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-dialogue/internal/engine/modifier"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// MaxFreeRelationChange is the largest change that needs no skill check
const MaxFreeRelationChange = 5

type changeRelationHandler struct {
	env
}

func (h *changeRelationHandler) Name() string { return ChangeRelation }
func (h *changeRelationHandler) Description() string {
	return "Changes how the NPC regards the player"
}

func (h *changeRelationHandler) check(req *Request) *rejection {
	if r := alive(req); r != nil {
		return r
	}
	if req.Player == nil {
		return reject("No player specified")
	}
	if req.Amount == nil {
		return reject("No amount specified")
	}
	if abs(*req.Amount) > MaxFreeRelationChange && !req.WasDiceSuccess {
		return &rejection{
			reason: "Large relation changes require a successful skill check",
			trust:  true,
			skill:  entities.SkillCharm,
			dc:     modifier.DifficultyClass(req.NPC, trustCheck),
		}
	}
	return nil
}

func (h *changeRelationHandler) CanExecute(_ context.Context, req *Request) bool {
	return h.check(req) == nil
}

func (h *changeRelationHandler) ExplainRejection(_ context.Context, req *Request) string {
	return explain(h.check(req))
}

func (h *changeRelationHandler) Execute(ctx context.Context, req *Request) *Outcome {
	if r := h.check(req); r != nil {
		return r.outcome()
	}

	npc := req.NPC
	amount := *req.Amount
	before := h.relation(ctx, req)

	after, err := h.world.ChangeRelation(ctx, npc.ID, req.Player.ID, amount)
	if err != nil {
		return failed(ChangeRelation, npc, err)
	}

	description, sentiment := relationMemory(amount)
	h.remember(ctx, npc, entities.MemoryCommand, description, sentiment)
	h.record(ctx, &entities.GameEvent{
		Type:        entities.EventRelationChanged,
		PrimaryID:   npc.ID,
		SecondaryID: req.Player.ID,
		Description: fmt.Sprintf("Relation with %s changed from %d to %d", npc.DisplayName(), before, after),
		Data: map[string]any{
			"old_relation": before,
			"new_relation": after,
			"change":       amount,
		},
	})

	direction := "worsened"
	if amount > 0 {
		direction = "improved"
	}
	return Ok(fmt.Sprintf("Relation with %s %s by %d (now %d).", npc.DisplayName(), direction, abs(amount), after))
}

// relationMemory picks the memory left by a relation change of amount
func relationMemory(amount int) (string, int) {
	switch {
	case amount > 10:
		return "Had a very positive interaction", 20
	case amount > 0:
		return "Had a positive conversation", 10
	case amount < -10:
		return "Had a very negative interaction", -20
	default:
		return "Had an unpleasant exchange", -10
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
