package room

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/game"
)

// PlaceResult is the outcome of dropping rack tiles onto the board
type PlaceResult struct {
	Positions []model.Position `json:"positions"`
	Game      *model.GameState `json:"game"`
}

// ClaimOutcome is the outcome of a claim batch. When the batch is invalid
// nothing changed and the turn is still the claimant's.
type ClaimOutcome struct {
	Result   model.ClaimBatchResult `json:"result"`
	Game     *model.GameState       `json:"game"`
	Finished bool                   `json:"finished"`
}

// turn is one action by the seated player whose turn it is
type turn struct {
	room    *model.Room
	game    *game.Manager
	userID  model.UserID
	seat    model.PlayerID
	events  []model.Event
	discard bool
}

func (s *Service) newTurn(room *model.Room, userID model.UserID, seat model.PlayerID) *turn {
	return &turn{
		room:   room,
		game:   game.LoadGame(room.Game, s.dictionary, s.random),
		userID: userID,
		seat:   seat,
	}
}

func (s *Service) emit(t *turn, typ model.EventType, payload any) {
	t.events = append(t.events, model.Event{
		Type:      typ,
		Timestamp: s.clock.Now(),
		RoomCode:  t.room.Code,
		UserID:    t.userID,
		Payload:   payload,
	})
}

// withTurn loads the room, checks that userID holds the current seat and
// runs fn. The room is saved and events are published only if fn succeeds
// and does not discard the turn; otherwise the stored room is untouched.
func (s *Service) withTurn(ctx context.Context, code model.RoomCode, userID model.UserID, fn func(t *turn) error) (*turn, error) {
	unlock := s.lock(code)
	defer unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	member := room.GetMember(userID)
	if member == nil {
		return nil, model.ErrNotInRoom
	}
	if room.Status != model.RoomStatusPlaying || room.Game == nil || room.Game.Status != model.GameStatusPlaying {
		return nil, model.ErrGameNotInProgress
	}
	if member.Seat == nil {
		return nil, model.ErrNotInRoom
	}

	t := s.newTurn(room, userID, *member.Seat)
	if !t.game.IsPlayerTurn(t.seat) {
		return nil, model.ErrNotPlayerTurn
	}

	if err := fn(t); err != nil {
		return nil, err
	}
	if t.discard {
		return t, nil
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}
	s.publishAll(t.events, room.Game)
	return t, nil
}

// StartGame seats every member in join order and deals a new game.
// Only the host can start, and every member must be ready.
func (s *Service) StartGame(ctx context.Context, code model.RoomCode, requester model.UserID) (*model.GameState, error) {
	unlock := s.lock(code)
	defer unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := requireHost(room, requester); err != nil {
		return nil, err
	}
	if room.Status == model.RoomStatusPlaying {
		return nil, model.ErrGameInProgress
	}
	if len(room.Members) < model.MinPlayers {
		return nil, model.ErrNotEnoughPlayers
	}
	if !room.AllReady() {
		return nil, model.ErrPlayersNotReady
	}

	names := make([]string, len(room.Members))
	for i := range room.Members {
		names[i] = room.Members[i].User.DisplayName
		room.Members[i].Seat = model.PlayerID(i).Ptr()
	}

	mgr, err := game.CreateNewGame(names, room.Config.TargetScore, s.dictionary, s.random)
	if err != nil {
		return nil, err
	}

	room.Game = mgr.State()
	room.Status = model.RoomStatusPlaying
	room.TurnTiles = []model.Position{}

	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("room", string(code)),
		slog.Int("players", len(names)),
		slog.Int("target_score", room.Config.TargetScore))

	snapshot := room.Game.Clone()
	s.publisher.Publish(model.Event{
		Type:      model.EventGameStarted,
		Timestamp: s.clock.Now(),
		RoomCode:  code,
		UserID:    requester,
		Game:      snapshot,
	})
	return snapshot, nil
}

// PlaceTiles moves tiles from the player's rack onto the board. Each
// placement names a rack index and a column; the tiles fall under gravity.
// It returns where each tile landed, in placement order.
func (s *Service) PlaceTiles(ctx context.Context, code model.RoomCode, userID model.UserID, placements []model.RackPlacement) (*PlaceResult, error) {
	if len(placements) == 0 {
		return nil, fmt.Errorf("no placements: %w", model.ErrInvalidTileIndex)
	}

	var landed []model.Position
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		eng := t.game.Engine()

		indices := make([]int, len(placements))
		for i, p := range placements {
			indices[i] = p.TileIndex
		}
		tiles, err := eng.RemoveTilesFromRack(t.seat, indices)
		if err != nil {
			return err
		}

		drops := make([]model.TilePlacement, len(placements))
		for i, p := range placements {
			drops[i] = model.TilePlacement{Column: p.Column, Tile: tiles[i]}
		}
		landed, err = eng.PlaceTiles(drops, t.seat)
		if err != nil {
			return err
		}

		t.room.TurnTiles = append(t.room.TurnTiles, landed...)
		s.emit(t, model.EventTilesPlaced, model.TilesPlacedPayload{PlayerID: t.seat, Positions: landed})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PlaceResult{Positions: landed, Game: t.room.Game.Clone()}, nil
}

// RemoveTile takes one of the player's tiles placed this turn back into
// their rack. Tiles above it fall, and the turn's placements follow them.
func (s *Service) RemoveTile(ctx context.Context, code model.RoomCode, userID model.UserID, pos model.Position) (*model.GameState, error) {
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		if !t.room.IsTurnTile(pos) {
			return fmt.Errorf("position %s: %w", pos, model.ErrTileNotPlacedTurn)
		}
		tile := t.room.Game.Board.Get(pos)
		if tile == nil {
			return fmt.Errorf("position %s: %w", pos, model.ErrTileNotPlacedTurn)
		}
		if tile.Owner == nil || *tile.Owner != t.seat {
			return fmt.Errorf("position %s: %w", pos, model.ErrNotTileOwner)
		}

		var others []model.Position
		for _, p := range t.room.TurnTiles {
			if p != pos {
				others = append(others, p)
			}
		}

		eng := t.game.Engine()
		removed, moved, err := eng.RemoveTileTracking(pos, others)
		if err != nil {
			return err
		}
		if err := eng.ReturnTileToRack(t.seat, *removed); err != nil {
			return err
		}

		t.room.TurnTiles = append([]model.Position{}, moved...)
		s.emit(t, model.EventTileRemoved, model.TileRemovedPayload{PlayerID: t.seat, Position: pos, Tile: removed.Unplaced()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.room.Game.Clone(), nil
}

// SetBlankLetter assigns a letter to a blank tile the player placed this turn
func (s *Service) SetBlankLetter(ctx context.Context, code model.RoomCode, userID model.UserID, pos model.Position, letter string) (*model.GameState, error) {
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		if !t.room.IsTurnTile(pos) {
			return fmt.Errorf("position %s: %w", pos, model.ErrTileNotPlacedTurn)
		}
		if err := t.game.Engine().SetBlankLetter(pos, letter); err != nil {
			return err
		}
		assigned := t.room.Game.Board.Get(pos).BlankAssigned
		s.emit(t, model.EventBlankSet, model.BlankSetPayload{Position: pos, Letter: assigned})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.room.Game.Clone(), nil
}

// ValidateClaims checks a claim batch against the current turn without
// recording it
func (s *Service) ValidateClaims(ctx context.Context, code model.RoomCode, userID model.UserID, claims [][]model.Position) (model.ClaimBatchResult, error) {
	var result model.ClaimBatchResult
	_, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		t.discard = true
		var err error
		result, err = t.game.Engine().ProcessWordClaims(ctx, wordClaims(claims, t.seat), t.room.TurnTiles)
		return err
	})
	return result, err
}

// ClaimWords records a batch of words for the player. A valid batch scores,
// refills the rack and ends the turn, finishing the game if the player
// reached the target score. An invalid batch changes nothing.
func (s *Service) ClaimWords(ctx context.Context, code model.RoomCode, userID model.UserID, claims [][]model.Position) (*ClaimOutcome, error) {
	if len(claims) == 0 {
		return nil, model.ErrNoClaims
	}

	var result model.ClaimBatchResult
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		var err error
		result, err = t.game.Engine().ProcessWordClaims(ctx, wordClaims(claims, t.seat), t.room.TurnTiles)
		if err != nil {
			return err
		}
		if !result.Valid {
			t.discard = true
			return nil
		}

		s.logger.Info("words claimed",
			slog.String("room", string(t.room.Code)),
			slog.Int("player", int(t.seat)),
			slog.Int("words", len(result.Results)),
			slog.Int("score", result.TotalScore))
		s.emit(t, model.EventWordsClaimed, model.WordsClaimedPayload{PlayerID: t.seat, Result: result})

		return s.endTurn(t, true)
	})
	if err != nil {
		return nil, err
	}

	return &ClaimOutcome{
		Result:   result,
		Game:     t.room.Game.Clone(),
		Finished: t.room.Game.Status == model.GameStatusFinished,
	}, nil
}

// SwapTiles returns rack tiles to the bag for fresh ones. It uses the turn
// and is not allowed once tiles have been placed this turn.
func (s *Service) SwapTiles(ctx context.Context, code model.RoomCode, userID model.UserID, indices []int) (*model.GameState, error) {
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		if len(t.room.TurnTiles) > 0 {
			return model.ErrTurnHasPlacements
		}
		eng := t.game.Engine()
		swapped, err := eng.SwapTiles(t.seat, indices)
		if err != nil {
			return err
		}
		s.emit(t, model.EventTilesSwapped, model.TilesSwappedPayload{PlayerID: t.seat, Count: len(swapped)})

		if err := eng.AdvanceTurn(); err != nil {
			return err
		}
		s.turnChanged(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.room.Game.Clone(), nil
}

// EndTurn refills the player's rack and passes the turn. Tiles placed this
// turn stay on the board. When the bag and every rack are empty the game
// ends.
func (s *Service) EndTurn(ctx context.Context, code model.RoomCode, userID model.UserID) (*model.GameState, error) {
	t, err := s.withTurn(ctx, code, userID, func(t *turn) error {
		return s.endTurn(t, false)
	})
	if err != nil {
		return nil, err
	}
	return t.room.Game.Clone(), nil
}

func (s *Service) endTurn(t *turn, scored bool) error {
	eng := t.game.Engine()
	if err := eng.RefillPlayerRack(t.seat); err != nil {
		return err
	}
	t.room.TurnTiles = []model.Position{}

	// The turn passes before the win check, so a finished game's current
	// player is the seat after the winner
	if err := eng.AdvanceTurn(); err != nil {
		return err
	}

	if scored && eng.CheckWinCondition() != nil {
		s.finishGame(t)
		return nil
	}
	if !eng.CanContinueGame() {
		s.finishGame(t)
		return nil
	}

	s.turnChanged(t)
	return nil
}

func (s *Service) turnChanged(t *turn) {
	current := t.room.Game.CurrentPlayerID
	s.logger.Info("turn advanced", slog.String("room", string(t.room.Code)), slog.Int("player", int(current)))
	s.emit(t, model.EventTurnChanged, model.TurnChangedPayload{CurrentPlayerID: current})
}

// finishGame ends the game, records a summary and returns the room to
// waiting so a new game can be started
func (s *Service) finishGame(t *turn) {
	if !t.game.IsFinished() {
		t.game.EndGame()
	}
	winner, _ := t.game.Winner()

	summary := model.GameSummary{Winner: winner.Name, CompletedAt: s.clock.Now()}
	for _, p := range t.game.PlayerScores() {
		summary.Scores = append(summary.Scores, model.PlayerScore{Name: p.Name, Score: p.Score})
	}

	t.room.GameHistory = append(t.room.GameHistory, summary)
	t.room.Status = model.RoomStatusWaiting
	t.room.TurnTiles = []model.Position{}

	s.logger.Info("game finished",
		slog.String("room", string(t.room.Code)),
		slog.String("winner", winner.Name),
		slog.Int("score", winner.Score))
	s.emit(t, model.EventGameEnded, model.GameEndedPayload{WinnerID: t.room.Game.WinnerID, Summary: summary})
}

func wordClaims(claims [][]model.Position, seat model.PlayerID) []model.WordClaim {
	out := make([]model.WordClaim, len(claims))
	for i, positions := range claims {
		out[i] = model.WordClaim{Positions: positions, PlayerID: seat}
	}
	return out
}

// ServiceInterface is the set of room operations used by the API and bots
type ServiceInterface interface {
	CreateRoom(ctx context.Context, host model.User, opts CreateOptions) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	GetGame(ctx context.Context, code model.RoomCode) (*model.GameState, error)
	ActiveRoomCount(ctx context.Context) (int, error)
	JoinRoom(ctx context.Context, code model.RoomCode, user model.User, password string) (*model.Room, error)
	AddBot(ctx context.Context, code model.RoomCode, requester model.UserID, bot model.User) (*model.Room, error)
	RemoveBot(ctx context.Context, code model.RoomCode, requester, botID model.UserID) (*model.Room, error)
	LeaveRoom(ctx context.Context, code model.RoomCode, userID model.UserID) error
	SetReady(ctx context.Context, code model.RoomCode, userID model.UserID, ready bool) (*model.Room, error)
	UpdateConfig(ctx context.Context, code model.RoomCode, requester model.UserID, cfg model.RoomConfig) (*model.Room, error)
	StartGame(ctx context.Context, code model.RoomCode, requester model.UserID) (*model.GameState, error)
	PlaceTiles(ctx context.Context, code model.RoomCode, userID model.UserID, placements []model.RackPlacement) (*PlaceResult, error)
	RemoveTile(ctx context.Context, code model.RoomCode, userID model.UserID, pos model.Position) (*model.GameState, error)
	SetBlankLetter(ctx context.Context, code model.RoomCode, userID model.UserID, pos model.Position, letter string) (*model.GameState, error)
	ValidateClaims(ctx context.Context, code model.RoomCode, userID model.UserID, claims [][]model.Position) (model.ClaimBatchResult, error)
	ClaimWords(ctx context.Context, code model.RoomCode, userID model.UserID, claims [][]model.Position) (*ClaimOutcome, error)
	SwapTiles(ctx context.Context, code model.RoomCode, userID model.UserID, indices []int) (*model.GameState, error)
	EndTurn(ctx context.Context, code model.RoomCode, userID model.UserID) (*model.GameState, error)
}

var _ ServiceInterface = (*Service)(nil)
