package bot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/grabble/internal/dependencies/mocks"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/bot"
	"github.com/mcoot/grabble/internal/services/room"
	"github.com/mcoot/grabble/internal/storage/memory"
	"github.com/mcoot/grabble/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store      *memory.Storage
	mockClock  *mocks.MockClock
	mockRandom *mocks.MockRandom

	rooms      *room.Service
	botService *bot.Service

	alice model.User
	ctx   context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mockRandom = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	s.ctx = context.Background()

	dict := testutil.NewWords("CAT", "DOG")
	s.rooms = room.New(s.store, dict, s.mockClock, s.mockRandom, nil, logger)
	s.botService = bot.NewService(s.store, s.rooms, dict, bot.DefaultStrategies(dict, s.mockRandom), s.mockClock, s.mockRandom, logger)

	s.alice = model.User{ID: "alice", DisplayName: "Alice"}
}

func (s *ServiceSuite) createRoom() model.RoomCode {
	s.mockRandom.QueueString("ROOM01")
	rm, err := s.rooms.CreateRoom(s.ctx, s.alice, room.CreateOptions{})
	s.Require().NoError(err)
	return rm.Code
}

// startWithBot starts a game with Alice in seat 0 and a bot in seat 1
func (s *ServiceSuite) startWithBot(strategy string) (model.RoomCode, *model.User) {
	code := s.createRoom()
	botUser, err := s.botService.AddBotToRoom(s.ctx, code, s.alice.ID, strategy)
	s.Require().NoError(err)
	_, _ = s.rooms.SetReady(s.ctx, code, s.alice.ID, true)
	_, err = s.rooms.StartGame(s.ctx, code, s.alice.ID)
	s.Require().NoError(err)
	return code, botUser
}

func (s *ServiceSuite) editGame(code model.RoomCode, fn func(g *model.GameState)) {
	rm, err := s.store.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	fn(rm.Game)
	s.Require().NoError(s.store.SaveRoom(s.ctx, rm))
}

func actionTypes(actions []bot.BotAction) []bot.BotActionType {
	out := make([]bot.BotActionType, len(actions))
	for i, a := range actions {
		out[i] = a.Type
	}
	return out
}

// AddBotToRoom tests

func (s *ServiceSuite) TestAddBotToRoom() {
	code := s.createRoom()

	botUser, err := s.botService.AddBotToRoom(s.ctx, code, s.alice.ID, model.BotStrategyGreedy)
	s.Require().NoError(err)

	s.True(botUser.IsBot)
	s.Equal("Greedy Bot 1", botUser.DisplayName)

	rm, _ := s.rooms.GetRoom(s.ctx, code)
	member := rm.GetMember(botUser.ID)
	s.Require().NotNil(member)
	s.True(member.Ready)

	stored, err := s.store.GetUser(s.ctx, botUser.ID)
	s.Require().NoError(err)
	s.Equal(model.BotStrategyGreedy, stored.BotStrategy)
}

func (s *ServiceSuite) TestAddBotUnknownStrategy() {
	code := s.createRoom()

	_, err := s.botService.AddBotToRoom(s.ctx, code, s.alice.ID, "clever")
	s.ErrorIs(err, bot.ErrUnknownStrategy)
}

func (s *ServiceSuite) TestAddBotRequiresHost() {
	code := s.createRoom()

	_, err := s.botService.AddBotToRoom(s.ctx, code, "someone", model.BotStrategyRandom)
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ServiceSuite) TestRemoveBotFromRoom() {
	code := s.createRoom()
	botUser, _ := s.botService.AddBotToRoom(s.ctx, code, s.alice.ID, model.BotStrategyRandom)

	s.Require().NoError(s.botService.RemoveBotFromRoom(s.ctx, code, s.alice.ID, botUser.ID))

	rm, _ := s.rooms.GetRoom(s.ctx, code)
	s.Nil(rm.GetMember(botUser.ID))
	_, err := s.store.GetUser(s.ctx, botUser.ID)
	s.ErrorIs(err, model.ErrUserNotFound)
}

// ProcessBotActions tests

func (s *ServiceSuite) TestProcessBotActionsWaitsForHuman() {
	code, _ := s.startWithBot(model.BotStrategyGreedy)

	actions, err := s.botService.ProcessBotActions(s.ctx, code)
	s.Require().NoError(err)
	s.Empty(actions)
}

func (s *ServiceSuite) TestGreedyBotClaimsWord() {
	code, _ := s.startWithBot(model.BotStrategyGreedy)
	s.editGame(code, func(g *model.GameState) {
		c, a := model.NewTile("C"), model.NewTile("A")
		g.Board.Set(model.Position{X: 0, Y: 6}, &c)
		g.Board.Set(model.Position{X: 1, Y: 6}, &a)
		g.Players[1].Rack = []model.Tile{model.NewTile("Q"), model.NewTile("T")}
	})
	_, err := s.rooms.EndTurn(s.ctx, code, s.alice.ID)
	s.Require().NoError(err)

	actions, err := s.botService.ProcessBotActions(s.ctx, code)
	s.Require().NoError(err)

	s.Equal([]bot.BotActionType{bot.ActionPlace, bot.ActionClaim}, actionTypes(actions))
	s.Equal([]model.Position{{X: 2, Y: 6}}, actions[0].Positions)
	s.Equal([]string{"CAT"}, actions[1].Words)
	s.Equal(5, actions[1].Score)

	game, _ := s.rooms.GetGame(s.ctx, code)
	s.Equal(5, game.Players[1].Score)
	s.Equal(model.PlayerID(0), game.CurrentPlayerID)
}

func (s *ServiceSuite) TestGreedyBotSwapsWithoutWords() {
	code, _ := s.startWithBot(model.BotStrategyGreedy)
	s.editGame(code, func(g *model.GameState) {
		g.Players[1].Rack = []model.Tile{model.NewTile("Q"), model.NewTile("Z")}
	})
	_, _ = s.rooms.EndTurn(s.ctx, code, s.alice.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, code)
	s.Require().NoError(err)

	s.Equal([]bot.BotActionType{bot.ActionSwap}, actionTypes(actions))
	game, _ := s.rooms.GetGame(s.ctx, code)
	s.Len(game.Players[1].Rack, model.RackSize)
	s.Equal(model.PlayerID(0), game.CurrentPlayerID)
}

func (s *ServiceSuite) TestRandomBotEndsTurnWithoutWords() {
	code, _ := s.startWithBot(model.BotStrategyRandom)
	s.editGame(code, func(g *model.GameState) {
		g.Players[1].Rack = []model.Tile{model.NewTile("Q")}
	})
	_, _ = s.rooms.EndTurn(s.ctx, code, s.alice.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, code)
	s.Require().NoError(err)

	s.Equal([]bot.BotActionType{bot.ActionPlace, bot.ActionEndTurn}, actionTypes(actions))
	game, _ := s.rooms.GetGame(s.ctx, code)
	s.Equal(1, game.Board.TileCount())
	s.Equal(model.PlayerID(0), game.CurrentPlayerID)
}

func (s *ServiceSuite) TestBotWinningEndsLoop() {
	code, _ := s.startWithBot(model.BotStrategyGreedy)
	s.editGame(code, func(g *model.GameState) {
		g.TargetScore = 5
		c, a := model.NewTile("C"), model.NewTile("A")
		g.Board.Set(model.Position{X: 0, Y: 6}, &c)
		g.Board.Set(model.Position{X: 1, Y: 6}, &a)
		g.Players[1].Rack = []model.Tile{model.NewTile("T")}
	})
	_, _ = s.rooms.EndTurn(s.ctx, code, s.alice.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, code)
	s.Require().NoError(err)

	s.Equal([]bot.BotActionType{bot.ActionPlace, bot.ActionClaim, bot.ActionGameComplete}, actionTypes(actions))
	rm, _ := s.rooms.GetRoom(s.ctx, code)
	s.Equal(model.RoomStatusWaiting, rm.Status)
	s.Equal("Greedy Bot 1", rm.GameHistory[0].Winner)
}
