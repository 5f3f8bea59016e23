package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/grabble/internal/dependencies/clock"
	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/services/engine"
	"github.com/mcoot/grabble/internal/services/room"
	"github.com/mcoot/grabble/internal/storage"
)

// ErrUnknownStrategy is returned when a bot is requested with a strategy
// that has not been registered
var ErrUnknownStrategy = errors.New("unknown bot strategy")

// MaxBotIterations is a safety limit for the ProcessBotActions loop
const MaxBotIterations = 100

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionPlace        BotActionType = "place"
	ActionClaim        BotActionType = "claim"
	ActionSwap         BotActionType = "swap"
	ActionEndTurn      BotActionType = "end_turn"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type      BotActionType    `json:"type"`
	PlayerID  model.PlayerID   `json:"player_id"`
	Positions []model.Position `json:"positions,omitempty"`
	Words     []string         `json:"words,omitempty"`
	Score     int              `json:"score,omitempty"`
}

// Service plays the seats held by bots
type Service struct {
	storage    storage.Storage
	rooms      room.ServiceInterface
	dictionary dictionary.Lookup
	strategies map[string]Strategy
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	rooms room.ServiceInterface,
	dict dictionary.Lookup,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:    store,
		rooms:      rooms,
		dictionary: dict,
		strategies: strategies,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// DefaultStrategies returns every built-in strategy keyed by name
func DefaultStrategies(dict dictionary.Lookup, rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom: NewRandomStrategy(rnd),
		model.BotStrategyGreedy: NewGreedyStrategy(dict, rnd),
	}
}

// CreateBotUser creates a new bot user and saves it to storage
func (s *Service) CreateBotUser(ctx context.Context, displayName, strategy string) (*model.User, error) {
	user := &model.User{
		ID:          model.UserID("bot_" + uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddBotToRoom creates a bot and seats it in the room.
// Only the host can add bots, and only between games.
func (s *Service) AddBotToRoom(ctx context.Context, code model.RoomCode, requester model.UserID, strategy string) (*model.User, error) {
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	rm, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	botCount := 0
	for _, m := range rm.Members {
		if m.User.IsBot {
			botCount++
		}
	}
	displayName := fmt.Sprintf("%s Bot %d", model.BotStrategyDisplayName(strategy), botCount+1)

	bot, err := s.CreateBotUser(ctx, displayName, strategy)
	if err != nil {
		return nil, err
	}

	if _, err := s.rooms.AddBot(ctx, code, requester, *bot); err != nil {
		_ = s.storage.DeleteUser(ctx, bot.ID)
		return nil, err
	}

	s.logger.Info("bot added to room",
		slog.String("room", string(code)),
		slog.String("bot_id", string(bot.ID)),
		slog.String("strategy", strategy))
	return bot, nil
}

// RemoveBotFromRoom removes a bot from the room and deletes its user
func (s *Service) RemoveBotFromRoom(ctx context.Context, code model.RoomCode, requester, botID model.UserID) error {
	if _, err := s.rooms.RemoveBot(ctx, code, requester, botID); err != nil {
		return err
	}
	return s.storage.DeleteUser(ctx, botID)
}

// ProcessBotActions plays bot turns until a human is to move or the game
// ends. It returns every action taken so callers can report them.
func (s *Service) ProcessBotActions(ctx context.Context, code model.RoomCode) ([]BotAction, error) {
	var actions []BotAction

	for iteration := 0; iteration < MaxBotIterations; iteration++ {
		rm, err := s.rooms.GetRoom(ctx, code)
		if err != nil {
			return actions, err
		}
		if rm.Status != model.RoomStatusPlaying || rm.Game == nil || rm.Game.Status != model.GameStatusPlaying {
			if len(actions) > 0 && rm.Game != nil && rm.Game.Status == model.GameStatusFinished {
				actions = append(actions, BotAction{Type: ActionGameComplete})
			}
			break
		}

		seat := rm.Game.CurrentPlayerID
		member := rm.MemberForSeat(seat)
		if member == nil || !member.User.IsBot {
			break
		}

		taken, err := s.playTurn(ctx, rm, member.User, seat)
		actions = append(actions, taken...)
		if err != nil {
			return actions, err
		}
	}

	return actions, nil
}

func (s *Service) playTurn(ctx context.Context, rm *model.Room, bot model.User, seat model.PlayerID) ([]BotAction, error) {
	var actions []BotAction
	move := s.strategyFor(bot).ChooseMove(ctx, rm.Game, seat)

	if len(move.Placements) > 0 {
		placed, err := s.rooms.PlaceTiles(ctx, rm.Code, bot.ID, move.Placements)
		if err != nil {
			return actions, err
		}
		actions = append(actions, BotAction{Type: ActionPlace, PlayerID: seat, Positions: placed.Positions})

		claimed, err := s.claim(ctx, rm.Code, bot.ID, seat)
		if err != nil {
			return actions, err
		}
		if claimed != nil {
			return append(actions, *claimed), nil
		}
	} else if len(move.Swap) > 0 && len(rm.Game.TileBag) > 0 {
		if _, err := s.rooms.SwapTiles(ctx, rm.Code, bot.ID, move.Swap); err != nil {
			return actions, err
		}
		return append(actions, BotAction{Type: ActionSwap, PlayerID: seat}), nil
	}

	if _, err := s.rooms.EndTurn(ctx, rm.Code, bot.ID); err != nil {
		return actions, err
	}
	return append(actions, BotAction{Type: ActionEndTurn, PlayerID: seat}), nil
}

// claim submits every word the bot's placements made. It returns nil if
// there was nothing valid to claim.
func (s *Service) claim(ctx context.Context, code model.RoomCode, botID model.UserID, seat model.PlayerID) (*BotAction, error) {
	rm, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	eng := engine.New(rm.Game, s.dictionary, s.random)
	claims := FindClaims(ctx, eng, seat, rm.TurnTiles)
	if len(claims) == 0 {
		return nil, nil
	}

	positions := make([][]model.Position, len(claims))
	words := make([]string, len(claims))
	for i, c := range claims {
		positions[i] = c.Positions
		words[i] = c.Word
	}

	outcome, err := s.rooms.ClaimWords(ctx, code, botID, positions)
	if err != nil {
		return nil, err
	}
	if !outcome.Result.Valid {
		s.logger.Warn("bot claim rejected", slog.String("room", string(code)), slog.Any("words", words))
		return nil, nil
	}

	return &BotAction{Type: ActionClaim, PlayerID: seat, Words: words, Score: outcome.Result.TotalScore}, nil
}

// strategyFor returns the bot's strategy, falling back to random
func (s *Service) strategyFor(bot model.User) Strategy {
	if st, ok := s.strategies[bot.BotStrategy]; ok {
		return st
	}
	if st, ok := s.strategies[model.BotStrategyRandom]; ok {
		return st
	}
	return NewRandomStrategy(s.random)
}
