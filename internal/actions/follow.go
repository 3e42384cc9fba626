package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// FollowMinRelation is the lowest relation at which an NPC follows unprompted
const FollowMinRelation = -20

type followHandler struct {
	env
}

func (h *followHandler) Name() string        { return Follow }
func (h *followHandler) Description() string { return "NPC follows the player's party" }

func (h *followHandler) check(ctx context.Context, req *Request) (*entities.Party, *rejection) {
	party, r := h.party(ctx, req, true)
	if r != nil {
		return nil, r
	}
	if req.Player == nil || req.Player.PartyID == "" {
		return nil, reject("Cannot find parties")
	}
	if r := h.trust(ctx, req, FollowMinRelation, entities.SkillCharm,
		"%s dislikes you too much (relation: %d)"); r != nil {
		return nil, r
	}
	return party, nil
}

func (h *followHandler) CanExecute(ctx context.Context, req *Request) bool {
	_, r := h.check(ctx, req)
	return r == nil
}

func (h *followHandler) ExplainRejection(ctx context.Context, req *Request) string {
	_, r := h.check(ctx, req)
	return explain(r)
}

func (h *followHandler) Execute(ctx context.Context, req *Request) *Outcome {
	party, r := h.check(ctx, req)
	if r != nil {
		return r.outcome()
	}
	err := h.world.SetObjective(ctx, party.ID, entities.Objective{
		Kind:     entities.ObjectiveEscort,
		TargetID: req.Player.PartyID,
	})
	if err != nil {
		return failed(Follow, req.NPC, err)
	}

	h.remember(ctx, req.NPC, entities.MemoryCommand, "Agreed to follow the player", 10)
	return Ok(fmt.Sprintf("%s will now follow you.", req.NPC.DisplayName()))
}

type unfollowHandler struct {
	env
}

func (h *unfollowHandler) Name() string        { return Unfollow }
func (h *unfollowHandler) Description() string { return "NPC stops following the player" }

func (h *unfollowHandler) CanExecute(ctx context.Context, req *Request) bool {
	_, r := h.party(ctx, req, false)
	return r == nil
}

func (h *unfollowHandler) ExplainRejection(ctx context.Context, req *Request) string {
	_, r := h.party(ctx, req, false)
	return explain(r)
}

func (h *unfollowHandler) Execute(ctx context.Context, req *Request) *Outcome {
	party, r := h.party(ctx, req, false)
	if r != nil {
		return r.outcome()
	}

	if err := h.world.SetObjective(ctx, party.ID, entities.Objective{Kind: entities.ObjectiveHold}); err != nil {
		return failed(Unfollow, req.NPC, err)
	}
	return Ok(fmt.Sprintf("%s will no longer follow you.", req.NPC.DisplayName()))
}
