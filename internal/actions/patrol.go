package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// PatrolMinRelation is the lowest relation at which an NPC patrols unprompted
const PatrolMinRelation = 0

type patrolHandler struct {
	env
}

func (h *patrolHandler) Name() string        { return Patrol }
func (h *patrolHandler) Description() string { return "NPC patrols around a settlement" }

type patrolPlan struct {
	party      *entities.Party
	settlement *entities.Settlement
}

func (h *patrolHandler) check(ctx context.Context, req *Request) (*patrolPlan, *rejection) {
	party, r := h.party(ctx, req, true)
	if r != nil {
		return nil, r
	}

	target := strings.TrimSpace(req.Target)
	if target == "" {
		return nil, reject("No target settlement specified")
	}
	settlement, err := h.world.FindSettlement(ctx, target)
	if err != nil {
		return nil, reject("Cannot find settlement: %s", target)
	}

	if r := h.trust(ctx, req, PatrolMinRelation, entities.SkillCharm,
		"%s doesn't trust you enough (relation: %d)"); r != nil {
		return nil, r
	}
	return &patrolPlan{party: party, settlement: settlement}, nil
}

func (h *patrolHandler) CanExecute(ctx context.Context, req *Request) bool {
	_, r := h.check(ctx, req)
	return r == nil
}

func (h *patrolHandler) ExplainRejection(ctx context.Context, req *Request) string {
	_, r := h.check(ctx, req)
	return explain(r)
}

func (h *patrolHandler) Execute(ctx context.Context, req *Request) *Outcome {
	plan, r := h.check(ctx, req)
	if r != nil {
		return r.outcome()
	}

	err := h.world.SetObjective(ctx, plan.party.ID, entities.Objective{
		Kind:     entities.ObjectivePatrol,
		TargetID: plan.settlement.ID,
	})
	if err != nil {
		return failed(Patrol, req.NPC, err)
	}

	h.remember(ctx, req.NPC, entities.MemoryCommand,
		fmt.Sprintf("Agreed to patrol around %s", plan.settlement.Name), 5)
	return Ok(fmt.Sprintf("%s will patrol around %s.", req.NPC.DisplayName(), plan.settlement.Name))
}
