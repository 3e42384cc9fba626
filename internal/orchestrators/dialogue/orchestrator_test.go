package dialogue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	auditmock "github.com/KirkDiggler/rpg-dialogue/internal/audit/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	d20mock "github.com/KirkDiggler/rpg-dialogue/internal/engine/d20/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	routermock "github.com/KirkDiggler/rpg-dialogue/internal/llm/router/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/orchestrators/dialogue"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/conversation"
	conversationmock "github.com/KirkDiggler/rpg-dialogue/internal/repositories/conversation/mock"
	memorymock "github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
	"github.com/KirkDiggler/rpg-dialogue/internal/services/charactersheet"
	"github.com/KirkDiggler/rpg-dialogue/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	router   *routermock.MockService
	resolver *d20mock.MockResolver
	memories *memorymock.MockRepository
	recorder *auditmock.MockRecorder
	world    *world.InMemoryRepository
	turns    conversation.Repository
	cfg      *dialogue.Config
	service  dialogue.Service

	mu          sync.Mutex
	recMemories []*entities.Memory
	recEvents   []*entities.GameEvent
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.router = routermock.NewMockService(s.ctrl)
	s.resolver = d20mock.NewMockResolver(s.ctrl)
	s.memories = memorymock.NewMockRepository(s.ctrl)
	s.recorder = auditmock.NewMockRecorder(s.ctrl)
	s.recMemories = nil
	s.recEvents = nil

	s.recorder.EXPECT().RecordMemory(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *entities.Memory) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.recMemories = append(s.recMemories, m)
			return nil
		}).AnyTimes()
	s.recorder.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *entities.GameEvent) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.recEvents = append(s.recEvents, e)
			return nil
		}).AnyTimes()
	s.memories.EXPECT().ActiveMemories(gomock.Any(), gomock.Any(), gomock.Any(), 5).Return([]*entities.Memory{
		{NPCID: "lord_derthert", GameDay: 1, Description: "Agreed to patrol around Pravend", Sentiment: 5, Active: true},
	}, nil).AnyTimes()

	w, err := world.NewInMemory(world.DemoSeed())
	s.Require().NoError(err)
	s.world = w

	registry, err := actions.NewRegistry(&actions.Config{World: w, Recorder: s.recorder})
	s.Require().NoError(err)

	sheets, err := charactersheet.New(&charactersheet.Config{World: w})
	s.Require().NoError(err)

	client, _ := testutils.CreateTestRedisClient(s.T())
	turns, err := conversation.NewRedisRepository(&conversation.Config{Client: client, Clock: clock.New()})
	s.Require().NoError(err)
	s.turns = turns

	s.cfg = &dialogue.Config{
		Router:      s.router,
		Registry:    registry,
		Resolver:    s.resolver,
		World:       w,
		Sheets:      sheets,
		Turns:       turns,
		Memories:    s.memories,
		Recorder:    s.recorder,
		Clock:       clock.New(),
		IDGenerator: idgen.NewSequential("conv"),
		Generation: dialogue.Generation{
			MaxTokens:   512,
			Timeout:     30 * time.Second,
			MaxRetries:  1,
			MaxHistory:  10,
			MaxMemories: 5,
		},
	}
	s.service = s.newService(s.cfg)
}

func (s *OrchestratorTestSuite) newService(cfg *dialogue.Config) dialogue.Service {
	svc, err := dialogue.NewOrchestrator(cfg)
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) start(npcID string) *dialogue.Conversation {
	out, err := s.service.StartConversation(s.ctx, &dialogue.StartConversationInput{
		NPCID:    npcID,
		PlayerID: "player",
	})
	s.Require().NoError(err)
	return out.Conversation
}

func (s *OrchestratorTestSuite) reply(content string) *gomock.Call {
	return s.router.EXPECT().GenerateWithRetry(gomock.Any(), gomock.Any(), 1).Return(&llm.Result{
		Success:  true,
		Content:  content,
		Provider: "LM Studio",
		Model:    "loaded-model",
	}, nil)
}

func (s *OrchestratorTestSuite) party(id string) *entities.Party {
	p, err := s.world.GetParty(s.ctx, id)
	s.Require().NoError(err)
	return p
}

func (s *OrchestratorTestSuite) state(id string) dialogue.State {
	out, err := s.service.GetConversation(s.ctx, &dialogue.GetConversationInput{ConversationID: id})
	s.Require().NoError(err)
	return out.Conversation.State
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := dialogue.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = dialogue.NewOrchestrator(&dialogue.Config{})
	s.True(errors.IsInvalidArgument(err))

	cfg := *s.cfg
	cfg.Generation.MaxRetries = -1
	_, err = dialogue.NewOrchestrator(&cfg)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestStartConversation() {
	conv := s.start("lord_derthert")
	s.Equal("conv_1", conv.ID)
	s.Equal(dialogue.StateIdle, conv.State)
	s.Equal("lord_derthert", conv.NPCID)

	_, err := s.service.StartConversation(s.ctx, &dialogue.StartConversationInput{NPCID: "lord_ghost", PlayerID: "player"})
	s.True(errors.IsNotFound(err))

	_, err = s.service.StartConversation(s.ctx, &dialogue.StartConversationInput{NPCID: "lord_derthert"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestPlainReplyIsDone() {
	conv := s.start("lord_derthert")

	var captured *llm.Request
	s.reply("*nods* Greetings, Aldric.").Do(func(_ context.Context, req *llm.Request, _ int) {
		captured = req
	})

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{
		ConversationID: conv.ID,
		Text:           "Any news from Marunath?",
	})
	s.Require().NoError(err)

	turn := out.Turn
	s.Equal(dialogue.StateDone, turn.State)
	s.Equal("*nods* Greetings, Aldric.", turn.Display)
	s.Equal("LM Studio", turn.Provider)
	s.Nil(turn.Action)
	s.Nil(turn.Dice)
	s.Nil(turn.Outcome)

	s.Require().NotNil(captured)
	s.Equal(512, captured.MaxTokens)
	s.Equal(30*time.Second, captured.Timeout)
	s.Equal("lord_derthert", captured.NPCID)
	s.Require().Len(captured.Messages, 1)
	s.Equal("Any news from Marunath?", captured.Messages[0].Content)
	s.Contains(captured.System, "You are roleplaying as: Derthert")
	s.Contains(captured.System, "Marunath is a town held by Kingdom of Battania.")
	s.Contains(captured.System, `{"command": "follow"}`)
	s.Contains(captured.System, "- Day 1: Agreed to patrol around Pravend (positive)")

	history, err := s.turns.Recent(s.ctx, conversation.RecentInput{NPCID: "lord_derthert", PlayerID: "player"})
	s.Require().NoError(err)
	s.Require().Len(history.Turns, 2)
	s.Equal("user", history.Turns[0].Role)
	s.Equal("assistant", history.Turns[1].Role)
	s.Equal(conv.ID, history.Turns[1].ConversationID)

	s.Equal(dialogue.StateDone, s.state(conv.ID))
}

func (s *OrchestratorTestSuite) TestHistoryIsCarriedIntoNextTurn() {
	conv := s.start("lord_derthert")

	s.reply("Greetings.")
	_, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Hello"})
	s.Require().NoError(err)

	var captured *llm.Request
	s.reply("Farewell.").Do(func(_ context.Context, req *llm.Request, _ int) {
		captured = req
	})
	_, err = s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Goodbye"})
	s.Require().NoError(err)

	s.Require().Len(captured.Messages, 3)
	s.Equal(llm.Message{Role: llm.RoleUser, Content: "Hello"}, captured.Messages[0])
	s.Equal(llm.Message{Role: llm.RoleAssistant, Content: "Greetings."}, captured.Messages[1])
	s.Equal(llm.Message{Role: llm.RoleUser, Content: "Goodbye"}, captured.Messages[2])
}

func (s *OrchestratorTestSuite) TestActionIsExecuted() {
	conv := s.start("lord_derthert")
	s.reply("Aye, I will ride with you.\n```json\n{\"command\": \"follow\"}\n```")

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Follow me"})
	s.Require().NoError(err)

	turn := out.Turn
	s.Equal(dialogue.StateDone, turn.State)
	s.Equal("Aye, I will ride with you.", turn.Display)
	s.Require().NotNil(turn.Action)
	s.Equal(actions.Follow, turn.Action.Command)
	s.Require().NotNil(turn.Outcome)
	s.True(turn.Outcome.Success)
	s.Equal("Derthert will now follow you.", turn.Outcome.Message)

	s.Equal(entities.ObjectiveEscort, s.party("party_derthert").Objective.Kind)
}

func (s *OrchestratorTestSuite) TestTrustRejectionAwaitsRollThenExecutes() {
	conv := s.start("lord_caladog")
	s.reply(`*scowls* Perhaps. {"command": "follow"}`)

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Follow me"})
	s.Require().NoError(err)

	turn := out.Turn
	s.Equal(dialogue.StateAwaitingDiceRoll, turn.State)
	s.Equal("*scowls* Perhaps.", turn.Display)
	s.Require().NotNil(turn.Outcome)
	s.False(turn.Outcome.Success)
	s.True(turn.Outcome.RequiresDiceRoll)
	s.Require().NotNil(turn.Dice)
	s.Equal("charm", turn.Dice.Skill)
	s.Equal(10, turn.Dice.DC)
	s.Equal(entities.ObjectiveHold, s.party("party_caladog").Objective.Kind)

	snapshot, err := s.service.GetConversation(s.ctx, &dialogue.GetConversationInput{ConversationID: conv.ID})
	s.Require().NoError(err)
	s.Require().NotNil(snapshot.Conversation.PendingAction)
	s.Equal(actions.Follow, snapshot.Conversation.PendingAction.Command)

	var followUp *llm.Request
	s.reply("*sighs* Very well, lead on.").Do(func(_ context.Context, req *llm.Request, _ int) {
		followUp = req
	})

	roll := d20.NewOutcome(15, -2, 10)
	resolved, err := s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{
		ConversationID: conv.ID,
		Roll:           roll,
	})
	s.Require().NoError(err)

	turn = resolved.Turn
	s.Equal(dialogue.StateDone, turn.State)
	s.Require().NotNil(turn.Roll)
	s.True(turn.Roll.Success)
	s.Equal("charm", turn.Roll.Skill)
	s.Require().NotNil(turn.Outcome)
	s.True(turn.Outcome.Success)
	s.Equal(entities.ObjectiveEscort, s.party("party_caladog").Objective.Kind)

	s.Require().NotNil(followUp)
	s.Equal("dice_followup", followUp.Kind)
	s.Contains(followUp.System, "Result: SUCCEEDED")

	s.mu.Lock()
	defer s.mu.Unlock()
	var diceMemory *entities.Memory
	for _, m := range s.recMemories {
		if m.Kind == entities.MemoryDiceRoll {
			diceMemory = m
		}
	}
	s.Require().NotNil(diceMemory)
	s.Equal("lord_caladog", diceMemory.NPCID)
	s.Equal(dialogue.DiceMemorySentiment, diceMemory.Sentiment)
	s.Equal(1+dialogue.DiceMemoryDays, diceMemory.ExpiresOnDay)

	var diceEvent *entities.GameEvent
	for _, e := range s.recEvents {
		if e.Type == entities.EventDiceRoll {
			diceEvent = e
		}
	}
	s.Require().NotNil(diceEvent)
	s.Equal("player", diceEvent.PrimaryID)
	s.Equal(15, diceEvent.Data["base"])
	s.Equal(true, diceEvent.Data["success"])
}

func (s *OrchestratorTestSuite) awaitFollowRoll() *dialogue.Conversation {
	conv := s.start("lord_caladog")
	s.reply(`*scowls* Perhaps. {"command": "follow"}`)

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Follow me"})
	s.Require().NoError(err)
	s.Require().Equal(dialogue.StateAwaitingDiceRoll, out.Turn.State)
	s.Require().Equal(10, out.Turn.Dice.DC)
	return conv
}

func (s *OrchestratorTestSuite) TestSuppliedNaturalOneAlwaysFails() {
	conv := s.awaitFollowRoll()
	s.reply("*laughs* You'll have to do better than that.")

	resolved, err := s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{
		ConversationID: conv.ID,
		Roll:           &d20.Outcome{Base: 1, Total: 1, DC: 10, Success: true},
	})
	s.Require().NoError(err)

	turn := resolved.Turn
	s.Require().NotNil(turn.Roll)
	s.False(turn.Roll.Success)
	s.True(turn.Roll.CriticalFailure)
	s.Equal("charm", turn.Roll.Skill)
	s.Nil(turn.Outcome)
	s.Equal(entities.ObjectiveHold, s.party("party_caladog").Objective.Kind)
}

func (s *OrchestratorTestSuite) TestSuppliedRollUsesPendingDC() {
	conv := s.awaitFollowRoll()
	s.reply("No.")

	resolved, err := s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{
		ConversationID: conv.ID,
		Roll:           &d20.Outcome{Base: 8, Modifier: 0, Total: 30, DC: 5, Success: true},
	})
	s.Require().NoError(err)

	turn := resolved.Turn
	s.Require().NotNil(turn.Roll)
	s.Equal(8, turn.Roll.Total)
	s.Equal(10, turn.Roll.DC)
	s.False(turn.Roll.Success)
	s.Nil(turn.Outcome)
	s.Equal(entities.ObjectiveHold, s.party("party_caladog").Objective.Kind)
}

func (s *OrchestratorTestSuite) TestDiceRequestRolledByResolverFails() {
	conv := s.start("lord_derthert")
	s.reply("Convince me.\n```json\n{\"dice_request\": true, \"skill\": \"leadership\", \"dc\": 15, \"reason\": \"lend troops\"}\n```")

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Lend me troops"})
	s.Require().NoError(err)
	s.Equal(dialogue.StateAwaitingDiceRoll, out.Turn.State)
	s.Require().NotNil(out.Turn.Dice)
	s.Nil(out.Turn.Outcome)

	failed := d20.NewOutcome(3, 1, 15)
	failed.Skill = "leadership"
	s.resolver.EXPECT().Roll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *d20.RollInput) (*d20.RollOutput, error) {
			s.Equal("player", in.Actor.ID)
			s.Equal("lord_derthert", in.Counterpart.ID)
			s.Equal("leadership", in.Skill)
			s.Equal(15, in.DC)
			s.Equal("lend troops", in.Reason)
			return &d20.RollOutput{Outcome: failed}, nil
		})
	s.reply("*shakes head* Not today.\n```json\n{\"command\": \"follow\"}\n```")

	resolved, err := s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{ConversationID: conv.ID})
	s.Require().NoError(err)

	turn := resolved.Turn
	s.Equal(dialogue.StateDone, turn.State)
	s.False(turn.Roll.Success)
	s.Nil(turn.Outcome)
	s.Equal(entities.ObjectiveHold, s.party("party_derthert").Objective.Kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Require().NotEmpty(s.recMemories)
	last := s.recMemories[len(s.recMemories)-1]
	s.Equal(-dialogue.DiceMemorySentiment, last.Sentiment)
}

func (s *OrchestratorTestSuite) TestResolveDiceRollRequiresPendingRoll() {
	conv := s.start("lord_derthert")

	_, err := s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{ConversationID: conv.ID})
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
	s.Equal(dialogue.StateIdle, s.state(conv.ID))

	_, err = s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{
		ConversationID: conv.ID,
		Roll:           &d20.Outcome{Base: 21},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestNewMessageDropsPendingRoll() {
	conv := s.start("lord_derthert")
	s.reply(`{"dice_request": true}`)
	_, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Persuade"})
	s.Require().NoError(err)
	s.Equal(dialogue.StateAwaitingDiceRoll, s.state(conv.ID))

	s.reply("Never mind then.")
	_, err = s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Forget it"})
	s.Require().NoError(err)

	_, err = s.service.ResolveDiceRoll(s.ctx, &dialogue.ResolveDiceRollInput{ConversationID: conv.ID})
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestNewMessageSupersedesInFlight() {
	conv := s.start("lord_derthert")

	started := make(chan struct{})
	first := s.router.EXPECT().GenerateWithRetry(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, _ *llm.Request, _ int) (*llm.Result, error) {
			close(started)
			<-ctx.Done()
			return nil, errors.FromContext(ctx.Err(), "generation canceled")
		})
	s.reply("Second answer.").After(first)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "First"})
		errCh <- err
	}()
	<-started

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Second"})
	s.Require().NoError(err)
	s.Equal("Second answer.", out.Turn.Display)

	select {
	case err := <-errCh:
		s.True(errors.IsCanceled(err))
	case <-time.After(5 * time.Second):
		s.Fail("superseded request did not return")
	}
	s.Equal(dialogue.StateDone, s.state(conv.ID))
}

func (s *OrchestratorTestSuite) TestCallerCancellationReturnsToIdle() {
	conv := s.start("lord_derthert")

	ctx, cancel := context.WithCancel(s.ctx)
	s.router.EXPECT().GenerateWithRetry(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, _ *llm.Request, _ int) (*llm.Result, error) {
			cancel()
			return nil, errors.FromContext(ctx.Err(), "generation canceled")
		})

	_, err := s.service.SendMessage(ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Hello"})
	s.True(errors.IsCanceled(err))
	s.Equal(dialogue.StateIdle, s.state(conv.ID))
}

func (s *OrchestratorTestSuite) TestFallbackReplyIsReturned() {
	conv := s.start("lord_derthert")
	s.router.EXPECT().GenerateWithRetry(gomock.Any(), gomock.Any(), 1).Return(
		llm.NewFallbackResult("*seems lost in thought*"), nil)

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Hello"})
	s.Require().NoError(err)
	s.True(out.Turn.IsFallback)
	s.Equal(llm.FallbackProvider, out.Turn.Provider)
	s.Equal("*seems lost in thought*", out.Turn.Display)
}

func (s *OrchestratorTestSuite) TestStorageFailuresAreSwallowed() {
	turns := conversationmock.NewMockRepository(s.ctrl)
	turns.EXPECT().Recent(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("redis down")).AnyTimes()
	turns.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("redis down")).Times(2)

	cfg := *s.cfg
	cfg.Turns = turns
	s.service = s.newService(&cfg)

	conv := s.start("lord_derthert")
	s.reply("Greetings.")

	out, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Hello"})
	s.Require().NoError(err)
	s.Equal("Greetings.", out.Turn.Display)
}

func (s *OrchestratorTestSuite) TestSendMessageValidation() {
	_, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: "conv_404", Text: "Hello"})
	s.True(errors.IsNotFound(err))

	conv := s.start("lord_derthert")
	_, err = s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "   "})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.SendMessage(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestEndConversation() {
	conv := s.start("lord_derthert")
	s.reply("Greetings.")
	_, err := s.service.SendMessage(s.ctx, &dialogue.SendMessageInput{ConversationID: conv.ID, Text: "Hello"})
	s.Require().NoError(err)

	out, err := s.service.EndConversation(s.ctx, &dialogue.EndConversationInput{
		ConversationID: conv.ID,
		ClearHistory:   true,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), out.TurnsDeleted)

	_, err = s.service.GetConversation(s.ctx, &dialogue.GetConversationInput{ConversationID: conv.ID})
	s.True(errors.IsNotFound(err))

	_, err = s.service.EndConversation(s.ctx, &dialogue.EndConversationInput{ConversationID: conv.ID})
	s.True(errors.IsNotFound(err))
}
