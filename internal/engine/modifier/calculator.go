package modifier

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
)

//go:generate mockgen -destination=mock/mock_calculator.go -package=modifiermock github.com/KirkDiggler/rpg-dialogue/internal/engine/modifier Calculator

// Calculator computes skill-check modifiers for live actors
type Calculator interface {
	// Compute returns the total modifier for actor attempting skillName on
	// counterpart. It returns 0 when actor state cannot be read.
	Compute(ctx context.Context, actor, counterpart *entities.Actor, skillName string) int

	// Breakdown is Compute with each contribution reported separately
	Breakdown(ctx context.Context, actor, counterpart *entities.Actor, skillName string) Breakdown
}

// Config holds the dependencies for the calculator
type Config struct {
	World world.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.World == nil {
		vb.RequiredField("World")
	}

	return vb.Build()
}

type calculator struct {
	world world.Repository
}

// NewCalculator creates a calculator backed by the world repository
func NewCalculator(cfg *Config) (Calculator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &calculator{world: cfg.World}, nil
}

func (c *calculator) Compute(ctx context.Context, actor, counterpart *entities.Actor, skillName string) int {
	return c.Breakdown(ctx, actor, counterpart, skillName).Total
}

func (c *calculator) Breakdown(ctx context.Context, actor, counterpart *entities.Actor, skillName string) Breakdown {
	factors, err := c.factors(ctx, actor, counterpart, skillName)
	if err != nil {
		slog.Warn("Modifier inputs unavailable, using 0",
			"actor_id", actorID(actor),
			"counterpart_id", actorID(counterpart),
			"skill", skillName,
			"error", err)
		return Breakdown{}
	}

	b := Compute(factors)
	slog.Debug("Modifier computed",
		"actor_id", actor.ID,
		"counterpart_id", actorID(counterpart),
		"skill", factors.Skill,
		"skill_mod", b.Skill,
		"trait_mod", b.Traits,
		"relation_mod", b.Relation,
		"context_mod", b.Context,
		"total", b.Total)
	return b
}

func (c *calculator) factors(ctx context.Context, actor, counterpart *entities.Actor, skillName string) (Factors, error) {
	if actor == nil {
		return Factors{}, errors.InvalidArgument("actor is required")
	}

	skill := entities.ParseSkill(skillName)
	f := Factors{
		Skill:      skill,
		SkillValue: actor.SkillValue(skill),
		Traits:     actor.Traits,
	}
	if counterpart == nil {
		return f, nil
	}

	relation, err := c.world.Relation(ctx, counterpart.ID, actor.ID)
	if err != nil {
		return Factors{}, errors.Wrap(err, "failed to read relation")
	}
	atWar, err := c.world.AtWar(ctx, actor.FactionID, counterpart.FactionID)
	if err != nil {
		return Factors{}, errors.Wrap(err, "failed to read war state")
	}

	f.HasCounterpart = true
	f.Relation = relation
	f.Alignment = AlignmentBetween(actor, counterpart)
	f.Alignment.AtWar = atWar
	return f, nil
}

func actorID(a *entities.Actor) string {
	if a == nil {
		return ""
	}
	return a.ID
}
