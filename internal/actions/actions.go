// Package actions executes the game actions an NPC agrees to in dialogue.
// Every action is gated: either the gate fails and nothing changes, or the
// state transition happens and an audit memory is queued.
package actions

import (
	"context"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/parser"
)

// Action names
const (
	Follow         = "follow"
	Unfollow       = "unfollow"
	Patrol         = "patrol"
	Attack         = "attack"
	Siege          = "siege"
	ChangeRelation = "change_relation"
)

// UnknownReason is reported when a gate has nothing to object to
const UnknownReason = "Unknown reason"

// Handler is one registered action
type Handler interface {
	// Name is the case-insensitive command the handler answers to
	Name() string

	// Description is a one-line summary used in prompts
	Description() string

	// CanExecute reports whether every precondition holds
	CanExecute(ctx context.Context, req *Request) bool

	// Execute re-checks the preconditions and applies the action
	Execute(ctx context.Context, req *Request) *Outcome

	// ExplainRejection returns the first failing precondition
	ExplainRejection(ctx context.Context, req *Request) string
}

// Request is one action asked of an NPC
type Request struct {
	Command string
	NPC     *entities.Actor
	Player  *entities.Actor
	Target  string
	Amount  *int
	Raw     string
	// WasDiceSuccess is set when a skill check for this request succeeded;
	// it lifts trust thresholds and nothing else
	WasDiceSuccess bool
}

// NewRequest builds a request from a parsed action
func NewRequest(npc, player *entities.Actor, action *parser.ActionRequest) *Request {
	req := &Request{NPC: npc, Player: player}
	if action != nil {
		req.Command = action.Command
		req.Target = action.Target
		req.Amount = action.Amount
		req.Raw = action.Raw
	}
	return req
}

// Outcome is the result of executing a request
type Outcome struct {
	Success bool
	Message string
	Error   string

	// RequiresDiceRoll is set when the only thing standing in the way is
	// trust; a successful DiceSkill check against DiceDC lifts it
	RequiresDiceRoll bool
	DiceSkill        entities.Skill
	DiceDC           int
}

// Ok is a successful outcome
func Ok(message string) *Outcome {
	return &Outcome{Success: true, Message: message}
}

// Fail is a failed outcome
func Fail(reason string) *Outcome {
	return &Outcome{Error: reason}
}

// NeedsDice is a failed outcome that a skill check can overturn
func NeedsDice(reason string, skill entities.Skill, dc int) *Outcome {
	return &Outcome{
		Error:            reason,
		RequiresDiceRoll: true,
		DiceSkill:        skill,
		DiceDC:           dc,
	}
}

// Text returns the message on success and the error otherwise
func (o *Outcome) Text() string {
	if o == nil {
		return ""
	}
	if o.Success {
		return o.Message
	}
	return o.Error
}
