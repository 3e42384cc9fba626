package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KirkDiggler/rpg-dialogue/internal/audit"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
	"github.com/KirkDiggler/rpg-dialogue/internal/telemetry"
)

//go:generate mockgen -destination=mock/mock_registry.go -package=actionsmock github.com/KirkDiggler/rpg-dialogue/internal/actions Registry

// Registry dispatches requests to handlers by command name
type Registry interface {
	// Register adds or replaces a handler
	Register(handler Handler) error

	// Lookup finds a handler by case-insensitive name
	Lookup(name string) (Handler, bool)

	// Has reports whether a handler is registered under name
	Has(name string) bool

	// Names returns the registered command names, sorted
	Names() []string

	// Execute runs the named handler. It never returns nil.
	Execute(ctx context.Context, req *Request) *Outcome
}

// Config holds the dependencies shared by the built-in handlers
type Config struct {
	World    world.Repository
	Recorder audit.Recorder
}

// Validate ensures required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Recorder == nil {
		vb.RequiredField("Recorder")
	}

	return vb.Build()
}

type registry struct {
	env

	mu       sync.RWMutex
	handlers map[string]Handler
}

var _ Registry = (*registry)(nil)

// NewRegistry creates a registry holding the built-in handlers
func NewRegistry(cfg *Config) (Registry, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &registry{
		env:      env{world: cfg.World, recorder: cfg.Recorder},
		handlers: make(map[string]Handler),
	}

	for _, h := range []Handler{
		&followHandler{env: r.env},
		&unfollowHandler{env: r.env},
		&patrolHandler{env: r.env},
		&attackHandler{env: r.env},
		&siegeHandler{env: r.env},
		&changeRelationHandler{env: r.env},
	} {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces a handler
func (r *registry) Register(handler Handler) error {
	if handler == nil {
		return errors.InvalidArgument("handler is required")
	}
	name := normalize(handler.Name())
	if name == "" {
		return errors.InvalidArgument("handler name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		slog.Debug("Replacing action handler", "command", name)
	}
	r.handlers[name] = handler
	return nil
}

// Lookup finds a handler
func (r *registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[normalize(name)]
	return h, ok
}

// Has reports whether name is registered
func (r *registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the sorted command names
func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a request through its handler and queues a player_command
// event for anything a handler saw
func (r *registry) Execute(ctx context.Context, req *Request) *Outcome {
	ctx, span := telemetry.Tracer().Start(ctx, "actions.Execute")
	defer span.End()

	if req == nil || req.NPC == nil {
		return Fail("No NPC specified")
	}
	command := normalize(req.Command)
	if command == "" {
		return Fail("No command specified")
	}
	span.SetAttributes(
		attribute.String("action.command", command),
		attribute.String("action.npc_id", req.NPC.ID),
		attribute.Bool("action.dice_success", req.WasDiceSuccess),
	)

	handler, ok := r.Lookup(command)
	if !ok {
		slog.Warn("Unknown action command", "command", req.Command, "npc_id", req.NPC.ID)
		return Fail(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	outcome := handler.Execute(ctx, req)
	if outcome == nil {
		outcome = Fail(UnknownReason)
	}
	span.SetAttributes(
		attribute.Bool("action.success", outcome.Success),
		attribute.Bool("action.requires_dice", outcome.RequiresDiceRoll),
	)

	slog.Info("Action executed",
		"command", command,
		"npc_id", req.NPC.ID,
		"target", req.Target,
		"success", outcome.Success,
		"requires_dice", outcome.RequiresDiceRoll,
		"result", outcome.Text())

	r.record(ctx, commandEvent(command, req, outcome))
	return outcome
}

func commandEvent(command string, req *Request, outcome *Outcome) *entities.GameEvent {
	npc := req.NPC.DisplayName()
	description := fmt.Sprintf("Executed %s command on %s", command, npc)
	if !outcome.Success {
		description = fmt.Sprintf("Failed %s command on %s: %s", command, npc, outcome.Error)
	}

	event := &entities.GameEvent{
		Type:        entities.EventPlayerCommand,
		PrimaryID:   req.NPC.ID,
		Description: description,
		Data: map[string]any{
			"command": command,
			"target":  req.Target,
			"success": outcome.Success,
			"message": outcome.Message,
			"error":   outcome.Error,
		},
	}
	if req.Player != nil {
		event.SecondaryID = req.Player.ID
	}
	return event
}
