package actions_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	auditmock "github.com/KirkDiggler/rpg-dialogue/internal/audit/mock"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
)

type ActionsTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	recorder *auditmock.MockRecorder
	world    *world.InMemoryRepository
	registry actions.Registry

	mu       sync.Mutex
	memories []*entities.Memory
	events   []*entities.GameEvent
}

func (s *ActionsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.recorder = auditmock.NewMockRecorder(s.ctrl)
	s.memories = nil
	s.events = nil

	s.recorder.EXPECT().RecordMemory(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *entities.Memory) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.memories = append(s.memories, m)
			return nil
		}).AnyTimes()
	s.recorder.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *entities.GameEvent) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.events = append(s.events, e)
			return nil
		}).AnyTimes()

	s.useSeed(world.DemoSeed())
}

func (s *ActionsTestSuite) useSeed(seed *world.Seed) {
	w, err := world.NewInMemory(seed)
	s.Require().NoError(err)
	s.world = w

	registry, err := actions.NewRegistry(&actions.Config{World: w, Recorder: s.recorder})
	s.Require().NoError(err)
	s.registry = registry
}

func (s *ActionsTestSuite) actor(id string) *entities.Actor {
	a, err := s.world.GetActor(s.ctx, id)
	s.Require().NoError(err)
	return a
}

func (s *ActionsTestSuite) request(npcID, command, target string) *actions.Request {
	return &actions.Request{
		Command: command,
		NPC:     s.actor(npcID),
		Player:  s.actor("player"),
		Target:  target,
	}
}

func (s *ActionsTestSuite) objective(partyID string) entities.Objective {
	p, err := s.world.GetParty(s.ctx, partyID)
	s.Require().NoError(err)
	return p.Objective
}

func amount(v int) *int {
	return &v
}

func (s *ActionsTestSuite) TestNewRegistryValidation() {
	_, err := actions.NewRegistry(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = actions.NewRegistry(&actions.Config{World: s.world})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Recorder")
}

func (s *ActionsTestSuite) TestRegistryLookup() {
	s.Equal([]string{"attack", "change_relation", "follow", "patrol", "siege", "unfollow"}, s.registry.Names())
	s.True(s.registry.Has("FOLLOW"))
	s.True(s.registry.Has(" Change_Relation "))
	s.False(s.registry.Has("dance"))

	h, ok := s.registry.Lookup("Siege")
	s.Require().True(ok)
	s.Equal(actions.Siege, h.Name())
	s.NotEmpty(h.Description())
}

func (s *ActionsTestSuite) TestRegisterValidation() {
	s.True(errors.IsInvalidArgument(s.registry.Register(nil)))
}

func (s *ActionsTestSuite) TestExecuteWithoutNPCOrCommand() {
	s.Equal("No NPC specified", s.registry.Execute(s.ctx, nil).Error)
	s.Equal("No NPC specified", s.registry.Execute(s.ctx, &actions.Request{Command: "follow"}).Error)
	s.Equal("No command specified", s.registry.Execute(s.ctx, s.request("lord_derthert", "  ", "")).Error)

	out := s.registry.Execute(s.ctx, s.request("lord_derthert", "Dance", ""))
	s.False(out.Success)
	s.Equal("Unknown command: Dance", out.Error)
	s.Empty(s.events)
}

func (s *ActionsTestSuite) TestFollow() {
	out := s.registry.Execute(s.ctx, s.request("lord_derthert", "Follow", ""))

	s.Require().True(out.Success, out.Error)
	s.Equal("Derthert will now follow you.", out.Message)
	s.Equal(entities.Objective{Kind: entities.ObjectiveEscort, TargetID: "party_player"}, s.objective("party_derthert"))

	s.Require().Len(s.memories, 1)
	s.Equal("lord_derthert", s.memories[0].NPCID)
	s.Equal("Agreed to follow the player", s.memories[0].Description)
	s.Equal(10, s.memories[0].Sentiment)
	s.Equal(entities.MemoryCommand, s.memories[0].Kind)
	s.Equal(1, s.memories[0].GameDay)
	s.True(s.memories[0].Active)

	s.Require().Len(s.events, 1)
	s.Equal(entities.EventPlayerCommand, s.events[0].Type)
	s.Equal("Executed follow command on Derthert", s.events[0].Description)
	s.Equal("player", s.events[0].SecondaryID)
	s.True(s.events[0].Generated)
}

func (s *ActionsTestSuite) TestFollowBelowTrustNeedsDice() {
	req := s.request("lord_caladog", actions.Follow, "")
	out := s.registry.Execute(s.ctx, req)

	s.False(out.Success)
	s.True(out.RequiresDiceRoll)
	s.Equal("Caladog dislikes you too much (relation: -30)", out.Error)
	s.Equal(entities.SkillCharm, out.DiceSkill)
	s.Equal(10, out.DiceDC)
	s.Equal(entities.ObjectiveHold, s.objective("party_caladog").Kind)
	s.Empty(s.memories)

	s.Require().Len(s.events, 1)
	s.Equal("Failed follow command on Caladog: Caladog dislikes you too much (relation: -30)", s.events[0].Description)

	req.WasDiceSuccess = true
	out = s.registry.Execute(s.ctx, req)
	s.True(out.Success, out.Error)
	s.Equal(entities.ObjectiveEscort, s.objective("party_caladog").Kind)
}

func (s *ActionsTestSuite) TestFollowWithoutPlayerParty() {
	h, ok := s.registry.Lookup(actions.Follow)
	s.Require().True(ok)

	req := s.request("lord_caladog", actions.Follow, "")
	req.Player.PartyID = ""

	s.False(h.CanExecute(s.ctx, req))
	s.Equal("Cannot find parties", h.ExplainRejection(s.ctx, req))

	out := s.registry.Execute(s.ctx, req)
	s.False(out.Success)
	s.False(out.RequiresDiceRoll, "a missing party is checked before trust")
	s.Equal("Cannot find parties", out.Error)
	s.Equal(entities.ObjectiveHold, s.objective("party_caladog").Kind)
}

func (s *ActionsTestSuite) TestGateOrder() {
	dead := s.request("lord_derthert", actions.Follow, "")
	dead.NPC.Dead = true
	s.Equal("Derthert is dead", s.registry.Execute(s.ctx, dead).Error)

	partyless := s.request("lord_derthert", actions.Follow, "")
	partyless.NPC.PartyID = ""
	s.Equal("Derthert has no party", s.registry.Execute(s.ctx, partyless).Error)

	follower := s.request("lord_caladog", actions.Patrol, "")
	follower.NPC.PartyID = "party_derthert"
	s.Equal("Caladog is not the party leader", s.registry.Execute(s.ctx, follower).Error)

	noTarget := s.request("lord_caladog", actions.Patrol, "")
	s.Equal("No target settlement specified", s.registry.Execute(s.ctx, noTarget).Error)

	badTarget := s.request("lord_caladog", actions.Patrol, "Atlantis")
	s.Equal("Cannot find settlement: Atlantis", s.registry.Execute(s.ctx, badTarget).Error)

	distrust := s.request("lord_caladog", actions.Patrol, "Marunath")
	out := s.registry.Execute(s.ctx, distrust)
	s.True(out.RequiresDiceRoll)
	s.Equal("Caladog doesn't trust you enough (relation: -30)", out.Error)

	// Trust comes last, so a request no roll could rescue fails outright
	ownTown := s.request("lord_derthert", actions.Siege, "Pravend")
	out = s.registry.Execute(s.ctx, ownTown)
	s.False(out.RequiresDiceRoll)
	s.Equal("Cannot besiege Pravend - not at war with Kingdom of Vlandia", out.Error)

	village := s.request("lord_derthert", actions.Siege, "Ryibelet")
	out = s.registry.Execute(s.ctx, village)
	s.False(out.RequiresDiceRoll)
	s.Equal("Ryibelet cannot be besieged (must be town or castle)", out.Error)

	sameSide := s.request("lord_caladog", actions.Attack, "Caladog")
	out = s.registry.Execute(s.ctx, sameSide)
	s.False(out.RequiresDiceRoll)
	s.Equal("Cannot attack Caladog - not at war", out.Error)
}

func (s *ActionsTestSuite) TestRejectionMatchesExplanation() {
	requests := []*actions.Request{
		s.request("lord_caladog", actions.Follow, ""),
		s.request("lord_caladog", actions.Patrol, ""),
		s.request("lord_derthert", actions.Attack, "Nobody"),
		s.request("lord_derthert", actions.Siege, "Druimmor Castle"),
		s.request("lord_derthert", actions.ChangeRelation, ""),
		{Command: actions.Unfollow, NPC: &entities.Actor{ID: "ghost", Name: "Ghost", Dead: true}},
	}

	for _, req := range requests {
		h, ok := s.registry.Lookup(req.Command)
		s.Require().True(ok)

		s.False(h.CanExecute(s.ctx, req), req.Command)
		reason := h.ExplainRejection(s.ctx, req)
		out := s.registry.Execute(s.ctx, req)

		s.False(out.Success, req.Command)
		s.Equal(reason, out.Error, req.Command)
	}
}

func (s *ActionsTestSuite) TestExplainRejectionWhenAllowed() {
	h, ok := s.registry.Lookup(actions.Follow)
	s.Require().True(ok)

	req := s.request("lord_derthert", actions.Follow, "")
	s.True(h.CanExecute(s.ctx, req))
	s.Equal(actions.UnknownReason, h.ExplainRejection(s.ctx, req))
}

func (s *ActionsTestSuite) TestUnfollowIgnoresTrust() {
	req := s.request("lord_caladog", actions.Unfollow, "")
	req.Player = nil

	out := s.registry.Execute(s.ctx, req)
	s.True(out.Success, out.Error)
	s.Equal("Caladog will no longer follow you.", out.Message)
	s.Equal(entities.ObjectiveHold, s.objective("party_caladog").Kind)
	s.Empty(s.memories)
}

func (s *ActionsTestSuite) TestPatrol() {
	out := s.registry.Execute(s.ctx, s.request("lord_derthert", actions.Patrol, "pravend"))

	s.Require().True(out.Success, out.Error)
	s.Equal("Derthert will patrol around Pravend.", out.Message)
	s.Equal(entities.Objective{Kind: entities.ObjectivePatrol, TargetID: "town_pravend"}, s.objective("party_derthert"))

	s.Require().Len(s.memories, 1)
	s.Equal("Agreed to patrol around Pravend", s.memories[0].Description)
	s.Equal(5, s.memories[0].Sentiment)
}

func (s *ActionsTestSuite) TestAttack() {
	out := s.registry.Execute(s.ctx, s.request("lord_derthert", actions.Attack, "Caladog"))

	s.Require().True(out.Success, out.Error)
	s.Equal("Derthert will attack Caladog.", out.Message)
	s.Equal(entities.Objective{Kind: entities.ObjectiveEngage, TargetID: "party_caladog"}, s.objective("party_derthert"))

	s.Require().Len(s.memories, 1)
	s.Equal(entities.MemoryCombat, s.memories[0].Kind)
	s.Equal("Agreed to attack Caladog", s.memories[0].Description)
	s.Equal(0, s.memories[0].Sentiment)
}

func (s *ActionsTestSuite) TestAttackTrustUsesLeadership() {
	out := s.registry.Execute(s.ctx, s.request("lord_caladog", actions.Attack, "Derthert"))

	s.True(out.RequiresDiceRoll)
	s.Equal(entities.SkillLeadership, out.DiceSkill)
	s.Equal("Caladog doesn't trust you enough for this (relation: -30)", out.Error)
}

func (s *ActionsTestSuite) TestAttackRequiresWar() {
	seed := world.DemoSeed()
	seed.Actors = append(seed.Actors, &entities.Actor{
		ID: "lady_ingalther", Name: "Ingalther", FactionID: "vlandia", PartyID: "party_ingalther",
	})
	seed.Parties = append(seed.Parties, &entities.Party{ID: "party_ingalther", LeaderID: "lady_ingalther", Troops: 60})
	s.useSeed(seed)

	out := s.registry.Execute(s.ctx, s.request("lord_derthert", actions.Attack, "Ingalther"))
	s.False(out.Success)
	s.False(out.RequiresDiceRoll)
	s.Equal("Cannot attack Ingalther - not at war", out.Error)
	s.Equal(entities.ObjectiveHold, s.objective("party_derthert").Kind)
}

func (s *ActionsTestSuite) TestSiege() {
	req := s.request("lord_derthert", actions.Siege, "Druimmor Castle")

	out := s.registry.Execute(s.ctx, req)
	s.True(out.RequiresDiceRoll)
	s.Equal("Derthert won't risk a siege for you (relation: 25)", out.Error)
	s.Equal(entities.SkillLeadership, out.DiceSkill)
	s.Equal(11, out.DiceDC)

	req.WasDiceSuccess = true
	out = s.registry.Execute(s.ctx, req)
	s.Require().True(out.Success, out.Error)
	s.Equal("Derthert will besiege Druimmor Castle.", out.Message)
	s.Equal(entities.Objective{Kind: entities.ObjectiveBesiege, TargetID: "castle_druimmor"}, s.objective("party_derthert"))

	s.Require().Len(s.memories, 1)
	s.Equal("Agreed to besiege Druimmor Castle", s.memories[0].Description)
	s.Equal(-5, s.memories[0].Sentiment)
	s.Equal(entities.MemoryCombat, s.memories[0].Kind)
}

func (s *ActionsTestSuite) TestSiegePreconditions() {
	village := s.request("lord_derthert", actions.Siege, "Ryibelet")
	village.WasDiceSuccess = true
	s.Equal("Ryibelet cannot be besieged (must be town or castle)", s.registry.Execute(s.ctx, village).Error)

	friendly := s.request("lord_derthert", actions.Siege, "Pravend")
	friendly.WasDiceSuccess = true
	s.Equal("Cannot besiege Pravend - not at war with Kingdom of Vlandia", s.registry.Execute(s.ctx, friendly).Error)

	seed := world.DemoSeed()
	for _, p := range seed.Parties {
		if p.ID == "party_derthert" {
			p.Troops = 50
		}
	}
	s.useSeed(seed)

	small := s.request("lord_derthert", actions.Siege, "Marunath")
	out := s.registry.Execute(s.ctx, small)
	s.False(out.RequiresDiceRoll, "troop strength is checked before trust")
	s.Equal("Derthert's party is too small for a siege", out.Error)

	small.WasDiceSuccess = true
	out = s.registry.Execute(s.ctx, small)
	s.False(out.RequiresDiceRoll)
	s.Equal("Derthert's party is too small for a siege", out.Error)
	s.Empty(s.memories)
}

func (s *ActionsTestSuite) TestChangeRelation() {
	missing := s.request("lord_derthert", actions.ChangeRelation, "")
	s.Equal("No amount specified", s.registry.Execute(s.ctx, missing).Error)

	large := s.request("lord_derthert", actions.ChangeRelation, "")
	large.Amount = amount(10)
	out := s.registry.Execute(s.ctx, large)
	s.True(out.RequiresDiceRoll)
	s.Equal("Large relation changes require a successful skill check", out.Error)
	s.Equal(entities.SkillCharm, out.DiceSkill)

	small := s.request("lord_derthert", actions.ChangeRelation, "")
	small.Amount = amount(3)
	out = s.registry.Execute(s.ctx, small)
	s.Require().True(out.Success, out.Error)
	s.Equal("Relation with Derthert improved by 3 (now 28).", out.Message)

	rel, err := s.world.Relation(s.ctx, "player", "lord_derthert")
	s.Require().NoError(err)
	s.Equal(28, rel)

	s.Require().Len(s.memories, 1)
	s.Equal("Had a positive conversation", s.memories[0].Description)
	s.Equal(10, s.memories[0].Sentiment)

	var changed *entities.GameEvent
	for _, e := range s.events {
		if e.Type == entities.EventRelationChanged {
			changed = e
		}
	}
	s.Require().NotNil(changed)
	s.Equal("Relation with Derthert changed from 25 to 28", changed.Description)
	s.Equal(map[string]any{"old_relation": 25, "new_relation": 28, "change": 3}, changed.Data)
}

func (s *ActionsTestSuite) TestChangeRelationLargeAfterRoll() {
	req := s.request("lord_derthert", actions.ChangeRelation, "")
	req.Amount = amount(-15)
	req.WasDiceSuccess = true

	out := s.registry.Execute(s.ctx, req)
	s.Require().True(out.Success, out.Error)
	s.Equal("Relation with Derthert worsened by 15 (now 10).", out.Message)
	s.Require().Len(s.memories, 1)
	s.Equal("Had a very negative interaction", s.memories[0].Description)
	s.Equal(-20, s.memories[0].Sentiment)
}

func TestActionsTestSuite(t *testing.T) {
	suite.Run(t, new(ActionsTestSuite))
}

func TestAuditFailureDoesNotFailAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := auditmock.NewMockRecorder(ctrl)
	recorder.EXPECT().RecordMemory(gomock.Any(), gomock.Any()).Return(errors.ResourceExhausted("audit queue is full"))
	recorder.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(errors.ResourceExhausted("audit queue is full"))

	w, err := world.NewInMemory(world.DemoSeed())
	require.NoError(t, err)
	registry, err := actions.NewRegistry(&actions.Config{World: w, Recorder: recorder})
	require.NoError(t, err)

	ctx := context.Background()
	npc, err := w.GetActor(ctx, "lord_derthert")
	require.NoError(t, err)
	player, err := w.GetActor(ctx, "player")
	require.NoError(t, err)

	out := registry.Execute(ctx, &actions.Request{Command: actions.Follow, NPC: npc, Player: player})
	assert.True(t, out.Success, out.Error)
}
