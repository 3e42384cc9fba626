package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// AttackMinRelation is the lowest relation at which an NPC attacks unprompted
const AttackMinRelation = 20

type attackHandler struct {
	env
}

func (h *attackHandler) Name() string        { return Attack }
func (h *attackHandler) Description() string { return "NPC attacks an enemy lord's party" }

type attackPlan struct {
	party  *entities.Party
	enemy  *entities.Actor
	target *entities.Party
}

func (h *attackHandler) check(ctx context.Context, req *Request) (*attackPlan, *rejection) {
	party, r := h.party(ctx, req, true)
	if r != nil {
		return nil, r
	}

	name := strings.TrimSpace(req.Target)
	if name == "" {
		return nil, reject("No target specified")
	}
	enemy, target := h.findEnemy(ctx, name)
	if target == nil {
		return nil, reject("Cannot find target: %s", name)
	}

	if !h.atWar(ctx, req.NPC.FactionID, enemy.FactionID) {
		return nil, reject("Cannot attack %s - not at war", enemy.DisplayName())
	}

	if r := h.trust(ctx, req, AttackMinRelation, entities.SkillLeadership,
		"%s doesn't trust you enough for this (relation: %d)"); r != nil {
		return nil, r
	}
	return &attackPlan{party: party, enemy: enemy, target: target}, nil
}

// findEnemy resolves a lord by name and returns them with their active party
func (h *attackHandler) findEnemy(ctx context.Context, name string) (*entities.Actor, *entities.Party) {
	enemy, err := h.world.FindActor(ctx, name)
	if err != nil || !enemy.IsAlive() || enemy.PartyID == "" {
		return nil, nil
	}
	party, err := h.world.GetParty(ctx, enemy.PartyID)
	if err != nil || !party.IsActive() {
		return nil, nil
	}
	return enemy, party
}

func (h *attackHandler) CanExecute(ctx context.Context, req *Request) bool {
	_, r := h.check(ctx, req)
	return r == nil
}

func (h *attackHandler) ExplainRejection(ctx context.Context, req *Request) string {
	_, r := h.check(ctx, req)
	return explain(r)
}

func (h *attackHandler) Execute(ctx context.Context, req *Request) *Outcome {
	plan, r := h.check(ctx, req)
	if r != nil {
		return r.outcome()
	}

	err := h.world.SetObjective(ctx, plan.party.ID, entities.Objective{
		Kind:     entities.ObjectiveEngage,
		TargetID: plan.target.ID,
	})
	if err != nil {
		return failed(Attack, req.NPC, err)
	}

	enemy := plan.enemy.DisplayName()
	h.remember(ctx, req.NPC, entities.MemoryCombat, fmt.Sprintf("Agreed to attack %s", enemy), 0)
	return Ok(fmt.Sprintf("%s will attack %s.", req.NPC.DisplayName(), enemy))
}
