// Package dialogue coordinates a player's conversation with an NPC: prompt,
// generation, parsing, skill checks and action dispatch
package dialogue

//go:generate mockgen -destination=mock/mock_service.go -package=dialoguemock github.com/KirkDiggler/rpg-dialogue/internal/orchestrators/dialogue Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	"github.com/KirkDiggler/rpg-dialogue/internal/audit"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/router"
	"github.com/KirkDiggler/rpg-dialogue/internal/parser"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dialogue/internal/prompt"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/conversation"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
	"github.com/KirkDiggler/rpg-dialogue/internal/services/charactersheet"
	"github.com/KirkDiggler/rpg-dialogue/internal/telemetry"
)

const (
	// DiceMemoryDays is how long an NPC remembers a skill check
	DiceMemoryDays = 30

	// DiceMemorySentiment is the weight of a remembered check, positive on
	// success and negative on failure
	DiceMemorySentiment = 5
)

// Service runs dialogue turns
type Service interface {
	StartConversation(ctx context.Context, input *StartConversationInput) (*StartConversationOutput, error)
	EndConversation(ctx context.Context, input *EndConversationInput) (*EndConversationOutput, error)

	// SendMessage runs one player utterance through generation and, when the
	// reply asks for it, action dispatch
	SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error)

	// ResolveDiceRoll continues a conversation that is awaiting a roll
	ResolveDiceRoll(ctx context.Context, input *ResolveDiceRollInput) (*ResolveDiceRollOutput, error)

	GetConversation(ctx context.Context, input *GetConversationInput) (*GetConversationOutput, error)
}

// Generation holds sampling parameters and context windows. Zero limits
// carry nothing into the prompt.
type Generation struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
	MaxRetries  int
	MaxHistory  int
	MaxMemories int
}

// Config holds the dependencies for the dialogue orchestrator
type Config struct {
	Router      router.Service
	Registry    actions.Registry
	Resolver    d20.Resolver
	World       world.Repository
	Sheets      charactersheet.Service
	Turns       conversation.Repository
	Memories    memory.Repository
	Recorder    audit.Recorder
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Generation  Generation
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Router == nil {
		vb.RequiredField("Router")
	}
	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Sheets == nil {
		vb.RequiredField("Sheets")
	}
	if c.Turns == nil {
		vb.RequiredField("Turns")
	}
	if c.Memories == nil {
		vb.RequiredField("Memories")
	}
	if c.Recorder == nil {
		vb.RequiredField("Recorder")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Generation.MaxRetries < 0 {
		vb.InvalidField("Generation.MaxRetries", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	router   router.Service
	registry actions.Registry
	resolver d20.Resolver
	world    world.Repository
	sheets   charactersheet.Service
	turns    conversation.Repository
	memories memory.Repository
	recorder audit.Recorder
	clock    clock.Clock
	idGen    idgen.Generator
	gen      Generation

	mu       sync.RWMutex
	sessions map[string]*session
}

var _ Service = (*orchestrator)(nil)

// NewOrchestrator creates a dialogue orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		router:   cfg.Router,
		registry: cfg.Registry,
		resolver: cfg.Resolver,
		world:    cfg.World,
		sheets:   cfg.Sheets,
		turns:    cfg.Turns,
		memories: cfg.Memories,
		recorder: cfg.Recorder,
		clock:    cfg.Clock,
		idGen:    cfg.IDGenerator,
		gen:      cfg.Generation,
		sessions: make(map[string]*session),
	}, nil
}

func (o *orchestrator) StartConversation(ctx context.Context, input *StartConversationInput) (*StartConversationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.NPCID == "" {
		vb.RequiredField("NPCID")
	}
	if input.PlayerID == "" {
		vb.RequiredField("PlayerID")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.world.GetActor(ctx, input.NPCID); err != nil {
		return nil, errors.Wrapf(err, "failed to load npc %s", input.NPCID)
	}
	if _, err := o.world.GetActor(ctx, input.PlayerID); err != nil {
		return nil, errors.Wrapf(err, "failed to load player %s", input.PlayerID)
	}

	now := o.clock.Now()
	sess := &session{
		now: o.clock.Now,
		conv: Conversation{
			ID:        o.idGen.Generate(),
			NPCID:     input.NPCID,
			PlayerID:  input.PlayerID,
			State:     StateIdle,
			StartedAt: now,
			UpdatedAt: now,
		},
	}

	o.mu.Lock()
	o.sessions[sess.conv.ID] = sess
	o.mu.Unlock()

	slog.Info("Conversation started",
		"conversation_id", sess.conv.ID,
		"npc_id", input.NPCID,
		"player_id", input.PlayerID)

	return &StartConversationOutput{Conversation: sess.snapshot()}, nil
}

func (o *orchestrator) EndConversation(ctx context.Context, input *EndConversationInput) (*EndConversationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	sess, ok := o.sessions[input.ConversationID]
	delete(o.sessions, input.ConversationID)
	o.mu.Unlock()
	if !ok {
		return nil, errors.NotFoundf("conversation %s not found", input.ConversationID)
	}

	sess.end()
	conv := sess.snapshot()
	slog.Info("Conversation ended", "conversation_id", conv.ID, "turns", conv.Turns)

	out := &EndConversationOutput{}
	if input.ClearHistory {
		cleared, err := o.turns.Clear(ctx, conversation.ClearInput{NPCID: conv.NPCID, PlayerID: conv.PlayerID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to clear history")
		}
		out.TurnsDeleted = cleared.TurnsDeleted
	}
	return out, nil
}

func (o *orchestrator) GetConversation(_ context.Context, input *GetConversationInput) (*GetConversationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sess, err := o.session(input.ConversationID)
	if err != nil {
		return nil, err
	}
	return &GetConversationOutput{Conversation: sess.snapshot()}, nil
}

func (o *orchestrator) session(id string) (*session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	sess, ok := o.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("conversation %s not found", id)
	}
	return sess, nil
}

func (o *orchestrator) SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.InvalidArgument("text is required")
	}

	sess, err := o.session(input.ConversationID)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "dialogue.SendMessage")
	defer span.End()

	t, err := sess.begin(ctx, func(c *Conversation) error {
		// A new utterance abandons any roll that was still pending
		c.PendingDice = nil
		c.PendingAction = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer t.finish()

	conv := sess.snapshot()
	span.SetAttributes(
		attribute.String("dialogue.conversation_id", conv.ID),
		attribute.String("dialogue.npc_id", conv.NPCID),
	)

	npc, player, err := o.participants(t.ctx, conv)
	if err != nil {
		return nil, t.abort(err)
	}

	req := o.buildRequest(t.ctx, conv, text, nil)
	o.saveTurns(t.ctx, conv, conversation.Turn{Role: string(llm.RoleUser), Content: text})

	res, err := o.router.GenerateWithRetry(t.ctx, req, o.gen.MaxRetries)
	if err != nil {
		return nil, t.abort(err)
	}
	span.SetAttributes(
		attribute.String("llm.provider", res.Provider),
		attribute.Bool("llm.fallback", res.IsFallback),
	)

	result, err := o.handleReply(t, conv, npc, player, res)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("dialogue.state", string(result.State)))
	return &SendMessageOutput{Turn: result}, nil
}

// handleReply parses a reply and either parks the conversation on a dice
// request or dispatches the requested action
func (o *orchestrator) handleReply(t *turn, conv *Conversation, npc, player *entities.Actor, res *llm.Result) (*TurnResult, error) {
	if !t.advance(StateParsingResponse, nil) {
		return nil, errors.Canceled("request superseded")
	}

	parsed := parser.Parse(res.Content)
	result := newTurnResult(conv.ID, res, parsed)
	o.saveTurns(t.ctx, conv, conversation.Turn{Role: string(llm.RoleAssistant), Content: parsed.Display})

	switch {
	case parsed.Dice != nil:
		if !t.advance(StateAwaitingDiceRoll, pending(parsed.Dice, parsed.Action)) {
			return nil, errors.Canceled("request superseded")
		}
		result.State = StateAwaitingDiceRoll
		slog.Info("Awaiting dice roll",
			"conversation_id", conv.ID,
			"skill", parsed.Dice.Skill,
			"dc", parsed.Dice.DC)

	case parsed.Action != nil:
		if !t.advance(StateExecutingAction, nil) {
			return nil, errors.Canceled("request superseded")
		}
		result.Outcome = o.execute(t.ctx, npc, player, parsed.Action, false)
		result.State = StateDone

		if result.Outcome.RequiresDiceRoll {
			dice := &parser.DiceRequest{
				Skill:  string(result.Outcome.DiceSkill),
				DC:     result.Outcome.DiceDC,
				Reason: result.Outcome.Error,
			}
			result.Dice = dice
			result.State = StateAwaitingDiceRoll
			t.advance(StateAwaitingDiceRoll, pending(dice, parsed.Action))
		} else {
			t.advance(StateDone, completed)
		}

	default:
		if !t.advance(StateDone, completed) {
			return nil, errors.Canceled("request superseded")
		}
		result.State = StateDone
	}

	return result, nil
}

func (o *orchestrator) ResolveDiceRoll(ctx context.Context, input *ResolveDiceRollInput) (*ResolveDiceRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Roll != nil && (input.Roll.Base < 1 || input.Roll.Base > d20.Sides) {
		return nil, errors.InvalidArgumentf("roll must be between 1 and %d", d20.Sides)
	}

	sess, err := o.session(input.ConversationID)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "dialogue.ResolveDiceRoll")
	defer span.End()

	var (
		dice   *parser.DiceRequest
		action *parser.ActionRequest
	)
	t, err := sess.begin(ctx, func(c *Conversation) error {
		if c.State != StateAwaitingDiceRoll || c.PendingDice == nil {
			return errors.FailedPreconditionf("conversation %s is not awaiting a dice roll", c.ID)
		}
		dice, action = c.PendingDice, c.PendingAction
		c.PendingDice = nil
		c.PendingAction = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer t.finish()

	conv := sess.snapshot()
	span.SetAttributes(
		attribute.String("dialogue.conversation_id", conv.ID),
		attribute.String("dice.skill", dice.Skill),
		attribute.Int("dice.dc", dice.DC),
	)

	npc, player, err := o.participants(t.ctx, conv)
	if err != nil {
		t.advance(StateAwaitingDiceRoll, pending(dice, action))
		return nil, err
	}

	outcome, err := o.roll(t.ctx, input.Roll, dice, npc, player)
	if err != nil {
		t.advance(StateAwaitingDiceRoll, pending(dice, action))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("dice.success", outcome.Success))
	o.recordRoll(t.ctx, npc, player, outcome)

	utterance := fmt.Sprintf("*rolls %s: %s - %s*", outcome.Skill, outcome.Summary(), outcome.Label())
	req := o.buildRequest(t.ctx, conv, utterance, outcome)
	o.saveTurns(t.ctx, conv, conversation.Turn{Role: string(llm.RoleUser), Content: utterance})

	res, err := o.router.GenerateWithRetry(t.ctx, req, o.gen.MaxRetries)
	if err != nil {
		return nil, t.abort(err)
	}

	if !t.advance(StateParsingResponse, nil) {
		return nil, errors.Canceled("request superseded")
	}
	parsed := parser.Parse(res.Content)
	result := newTurnResult(conv.ID, res, parsed)
	result.Roll = outcome
	result.Dice = nil
	o.saveTurns(t.ctx, conv, conversation.Turn{Role: string(llm.RoleAssistant), Content: parsed.Display})

	if parsed.Dice != nil {
		slog.Debug("Ignoring dice request in roll follow-up", "conversation_id", conv.ID)
	}

	if action == nil {
		action = parsed.Action
	}
	result.Action = action

	if outcome.Success && action != nil {
		if !t.advance(StateExecutingAction, nil) {
			return nil, errors.Canceled("request superseded")
		}
		result.Outcome = o.execute(t.ctx, npc, player, action, true)
	}

	t.advance(StateDone, completed)
	result.State = StateDone
	return &ResolveDiceRollOutput{Turn: result}, nil
}

// roll uses the supplied outcome or rolls for the player against the NPC
func (o *orchestrator) roll(ctx context.Context, supplied *d20.Outcome, dice *parser.DiceRequest, npc, player *entities.Actor) (*d20.Outcome, error) {
	if supplied != nil {
		// Only the die and modifier come from the caller. The pending check
		// decides the DC and success.
		outcome := d20.NewOutcome(supplied.Base, supplied.Modifier, dice.DC)
		outcome.Skill = dice.Skill
		outcome.Reason = dice.Reason
		return outcome, nil
	}

	out, err := o.resolver.Roll(ctx, &d20.RollInput{
		Actor:       player,
		Counterpart: npc,
		Skill:       dice.Skill,
		DC:          dice.DC,
		Reason:      dice.Reason,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve dice roll")
	}
	return out.Outcome, nil
}

// execute dispatches an action. Once dispatched it runs to completion even if
// the request is superseded.
func (o *orchestrator) execute(ctx context.Context, npc, player *entities.Actor, action *parser.ActionRequest, diceSuccess bool) *actions.Outcome {
	req := actions.NewRequest(npc, player, action)
	req.WasDiceSuccess = diceSuccess
	return o.registry.Execute(context.WithoutCancel(ctx), req)
}

func (o *orchestrator) participants(ctx context.Context, conv *Conversation) (*entities.Actor, *entities.Actor, error) {
	npc, err := o.world.GetActor(ctx, conv.NPCID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load npc %s", conv.NPCID)
	}
	player, err := o.world.GetActor(ctx, conv.PlayerID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load player %s", conv.PlayerID)
	}
	return npc, player, nil
}

// buildRequest gathers prompt context. Every lookup here is best effort.
func (o *orchestrator) buildRequest(ctx context.Context, conv *Conversation, utterance string, dice *d20.Outcome) *llm.Request {
	in := &prompt.Input{
		Commands:    o.commands(),
		Utterance:   utterance,
		Dice:        dice,
		MaxHistory:  o.gen.MaxHistory,
		MaxMemories: o.gen.MaxMemories,
	}

	sheet, err := o.sheets.GetCharacterSheet(ctx, &charactersheet.GetCharacterSheetInput{
		NPCID:    conv.NPCID,
		PlayerID: conv.PlayerID,
	})
	if err != nil {
		slog.Warn("Character sheet unavailable", "npc_id", conv.NPCID, "error", err)
	} else {
		in.Sheet = sheet.Sheet
	}

	if dice == nil {
		wc, err := o.sheets.FindWorldContext(ctx, &charactersheet.FindWorldContextInput{
			Text:       utterance,
			ExcludeIDs: []string{conv.NPCID, conv.PlayerID},
		})
		if err != nil {
			slog.Warn("World context unavailable", "npc_id", conv.NPCID, "error", err)
		} else {
			in.WorldContext = wc.Snippets
		}
	}

	in.History = o.history(ctx, conv)
	in.Memories = o.activeMemories(ctx, conv.NPCID)

	req := prompt.Build(in)
	if o.gen.MaxTokens > 0 {
		req.MaxTokens = o.gen.MaxTokens
	}
	if o.gen.Temperature > 0 {
		req.Temperature = o.gen.Temperature
	}
	if o.gen.TopP > 0 {
		req.TopP = o.gen.TopP
	}
	if o.gen.Timeout > 0 {
		req.Timeout = o.gen.Timeout
	}
	return req
}

func (o *orchestrator) commands() []prompt.Command {
	names := o.registry.Names()
	out := make([]prompt.Command, 0, len(names))
	for _, name := range names {
		cmd := prompt.Command{Name: name}
		if h, ok := o.registry.Lookup(name); ok {
			cmd.Description = h.Description()
		}
		out = append(out, cmd)
	}
	return out
}

func (o *orchestrator) history(ctx context.Context, conv *Conversation) []llm.Message {
	if o.gen.MaxHistory <= 0 {
		return nil
	}

	out, err := o.turns.Recent(ctx, conversation.RecentInput{
		NPCID:    conv.NPCID,
		PlayerID: conv.PlayerID,
		Limit:    o.gen.MaxHistory,
	})
	if err != nil {
		slog.Warn("Conversation history unavailable", "conversation_id", conv.ID, "error", err)
		return nil
	}

	messages := make([]llm.Message, 0, len(out.Turns))
	for _, tr := range out.Turns {
		if strings.TrimSpace(tr.Content) == "" {
			continue
		}
		messages = append(messages, llm.Message{Role: llm.Role(tr.Role), Content: tr.Content})
	}
	return messages
}

func (o *orchestrator) activeMemories(ctx context.Context, npcID string) []*entities.Memory {
	if o.gen.MaxMemories <= 0 {
		return nil
	}

	day, err := o.world.CurrentDay(ctx)
	if err != nil {
		slog.Warn("Game day unavailable", "error", err)
	}

	memories, err := o.memories.ActiveMemories(ctx, npcID, day, o.gen.MaxMemories)
	if err != nil {
		slog.Warn("NPC memories unavailable", "npc_id", npcID, "error", err)
		return nil
	}
	return memories
}

// saveTurns stores turns. Failures are logged and dropped.
func (o *orchestrator) saveTurns(ctx context.Context, conv *Conversation, turns ...conversation.Turn) {
	kept := make([]conversation.Turn, 0, len(turns))
	for _, tr := range turns {
		if strings.TrimSpace(tr.Content) == "" {
			continue
		}
		tr.ConversationID = conv.ID
		kept = append(kept, tr)
	}
	if len(kept) == 0 {
		return
	}

	_, err := o.turns.Append(ctx, conversation.AppendInput{
		NPCID:    conv.NPCID,
		PlayerID: conv.PlayerID,
		Turns:    kept,
	})
	if err != nil {
		slog.Warn("Failed to store conversation turns", "conversation_id", conv.ID, "error", err)
	}
}

// recordRoll queues the memory and game event for a resolved check
func (o *orchestrator) recordRoll(ctx context.Context, npc, player *entities.Actor, outcome *d20.Outcome) {
	day, err := o.world.CurrentDay(ctx)
	if err != nil {
		slog.Warn("Game day unavailable", "error", err)
	}

	verb, sentiment := "failed", -DiceMemorySentiment
	if outcome.Success {
		verb, sentiment = "succeeded at", DiceMemorySentiment
	}
	description := fmt.Sprintf("%s %s a %s check (%s)", player.DisplayName(), verb, outcome.Skill, outcome.Summary())
	if outcome.Reason != "" {
		description += ": " + outcome.Reason
	}

	err = o.recorder.RecordMemory(ctx, &entities.Memory{
		NPCID:        npc.ID,
		Kind:         entities.MemoryDiceRoll,
		Description:  description,
		Sentiment:    sentiment,
		GameDay:      day,
		ExpiresOnDay: day + DiceMemoryDays,
		Active:       true,
	})
	if err != nil {
		slog.Warn("Failed to record dice memory", "npc_id", npc.ID, "error", err)
	}

	err = o.recorder.RecordEvent(ctx, &entities.GameEvent{
		Type:        entities.EventDiceRoll,
		PrimaryID:   player.ID,
		SecondaryID: npc.ID,
		Description: description,
		Data: map[string]any{
			"skill":            outcome.Skill,
			"base":             outcome.Base,
			"modifier":         outcome.Modifier,
			"total":            outcome.Total,
			"dc":               outcome.DC,
			"success":          outcome.Success,
			"critical_success": outcome.CriticalSuccess,
			"critical_failure": outcome.CriticalFailure,
		},
		GameDay:   day,
		Generated: true,
	})
	if err != nil {
		slog.Warn("Failed to record dice event", "npc_id", npc.ID, "error", err)
	}
}

func newTurnResult(conversationID string, res *llm.Result, parsed *parser.Result) *TurnResult {
	return &TurnResult{
		ConversationID: conversationID,
		Display:        parsed.Display,
		Provider:       res.Provider,
		Model:          res.Model,
		IsFallback:     res.IsFallback,
		Action:         parsed.Action,
		Dice:           parsed.Dice,
	}
}

func pending(dice *parser.DiceRequest, action *parser.ActionRequest) func(*Conversation) {
	return func(c *Conversation) {
		c.PendingDice = dice
		c.PendingAction = action
	}
}

func completed(c *Conversation) {
	c.Turns++
}
