// Package d20 resolves skill checks with a single twenty-sided die
package d20

//go:generate mockgen -destination=mock/mock_resolver.go -package=d20mock github.com/KirkDiggler/rpg-dialogue/internal/engine/d20 Resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dialogue/internal/engine/modifier"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

const (
	// Sides of the check die
	Sides = 20

	CriticalSuccess = 20
	CriticalFailure = 1
)

// Labels used in roll summaries
const (
	LabelCriticalSuccess = "CRITICAL SUCCESS!"
	LabelCriticalFailure = "CRITICAL FAILURE!"
	LabelSuccess         = "Success"
	LabelFailure         = "Failure"
)

// Resolver rolls skill checks
type Resolver interface {
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
}

// RollInput describes a single check
type RollInput struct {
	Actor       *entities.Actor
	Counterpart *entities.Actor
	Skill       string
	DC          int
	Reason      string
}

// RollOutput wraps the outcome of a check
type RollOutput struct {
	Outcome *Outcome
}

// Outcome is an immutable record of one roll
type Outcome struct {
	Skill           string `json:"skill"`
	Base            int    `json:"base"`
	Modifier        int    `json:"modifier"`
	Total           int    `json:"total"`
	DC              int    `json:"dc"`
	Success         bool   `json:"success"`
	CriticalSuccess bool   `json:"critical_success"`
	CriticalFailure bool   `json:"critical_failure"`
	Reason          string `json:"reason,omitempty"`
}

// NewOutcome applies the check rules to a die value. A natural 20 always
// succeeds and a natural 1 always fails.
func NewOutcome(base, mod, dc int) *Outcome {
	o := &Outcome{
		Base:            base,
		Modifier:        mod,
		Total:           base + mod,
		DC:              dc,
		CriticalSuccess: base == CriticalSuccess,
		CriticalFailure: base == CriticalFailure,
	}

	switch {
	case o.CriticalSuccess:
		o.Success = true
	case o.CriticalFailure:
		o.Success = false
	default:
		o.Success = o.Total >= dc
	}
	return o
}

// Label names the outcome for display
func (o *Outcome) Label() string {
	switch {
	case o.CriticalSuccess:
		return LabelCriticalSuccess
	case o.CriticalFailure:
		return LabelCriticalFailure
	case o.Success:
		return LabelSuccess
	default:
		return LabelFailure
	}
}

// Summary renders the arithmetic, e.g. "[11]+5 = 16 vs DC 15"
func (o *Outcome) Summary() string {
	return fmt.Sprintf("[%d]%+d = %d vs DC %d", o.Base, o.Modifier, o.Total, o.DC)
}

// Config holds the dependencies for the resolver
type Config struct {
	Roller     dice.Roller
	Calculator modifier.Calculator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Calculator == nil {
		vb.RequiredField("Calculator")
	}

	return vb.Build()
}

type resolver struct {
	roller     dice.Roller
	calculator modifier.Calculator
}

// NewResolver creates a resolver
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &resolver{
		roller:     cfg.Roller,
		calculator: cfg.Calculator,
	}, nil
}

// Roll draws a d20 and applies the actor's modifier. A missing actor yields a
// failed outcome rather than an error.
func (r *resolver) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	skill := string(entities.ParseSkill(input.Skill))

	if input.Actor == nil {
		slog.Warn("Skill check without actor", "skill", skill, "dc", input.DC)
		return &RollOutput{Outcome: &Outcome{Skill: skill, DC: input.DC, Reason: input.Reason}}, nil
	}

	base, err := r.roller.Roll(Sides)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll d20")
	}

	mod := r.calculator.Compute(ctx, input.Actor, input.Counterpart, skill)
	outcome := NewOutcome(base, mod, input.DC)
	outcome.Skill = skill
	outcome.Reason = input.Reason

	slog.Info("Skill check resolved",
		"actor_id", input.Actor.ID,
		"skill", skill,
		"base", outcome.Base,
		"modifier", outcome.Modifier,
		"total", outcome.Total,
		"dc", outcome.DC,
		"result", outcome.Label())

	return &RollOutput{Outcome: outcome}, nil
}
