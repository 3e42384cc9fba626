package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

const (
	// SiegeMinRelation is the lowest relation at which an NPC besieges unprompted
	SiegeMinRelation = 30
	// SiegeMinTroops is the smallest party that can lay siege
	SiegeMinTroops = 100
)

type siegeHandler struct {
	env
}

func (h *siegeHandler) Name() string        { return Siege }
func (h *siegeHandler) Description() string { return "NPC besieges an enemy town or castle" }

type siegePlan struct {
	party      *entities.Party
	settlement *entities.Settlement
}

func (h *siegeHandler) check(ctx context.Context, req *Request) (*siegePlan, *rejection) {
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

	if party.Troops < SiegeMinTroops {
		return nil, reject("%s's party is too small for a siege", req.NPC.DisplayName())
	}
	if !settlement.Besiegeable() {
		return nil, reject("%s cannot be besieged (must be town or castle)", settlement.Name)
	}
	if !h.atWar(ctx, req.NPC.FactionID, settlement.FactionID) {
		return nil, reject("Cannot besiege %s - not at war with %s", settlement.Name, h.factionName(ctx, settlement.FactionID))
	}

	if r := h.trust(ctx, req, SiegeMinRelation, entities.SkillLeadership,
		"%s won't risk a siege for you (relation: %d)"); r != nil {
		return nil, r
	}
	return &siegePlan{party: party, settlement: settlement}, nil
}

func (h *siegeHandler) factionName(ctx context.Context, id string) string {
	f, err := h.world.GetFaction(ctx, id)
	if err != nil || f.Name == "" {
		return id
	}
	return f.Name
}

func (h *siegeHandler) CanExecute(ctx context.Context, req *Request) bool {
	_, r := h.check(ctx, req)
	return r == nil
}

func (h *siegeHandler) ExplainRejection(ctx context.Context, req *Request) string {
	_, r := h.check(ctx, req)
	return explain(r)
}

func (h *siegeHandler) Execute(ctx context.Context, req *Request) *Outcome {
	plan, r := h.check(ctx, req)
	if r != nil {
		return r.outcome()
	}

	err := h.world.SetObjective(ctx, plan.party.ID, entities.Objective{
		Kind:     entities.ObjectiveBesiege,
		TargetID: plan.settlement.ID,
	})
	if err != nil {
		return failed(Siege, req.NPC, err)
	}

	h.remember(ctx, req.NPC, entities.MemoryCombat,
		fmt.Sprintf("Agreed to besiege %s", plan.settlement.Name), -5)
	return Ok(fmt.Sprintf("%s will besiege %s.", req.NPC.DisplayName(), plan.settlement.Name))
}
