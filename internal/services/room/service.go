// Package room is the relay between players and their games. It owns room
// membership and seating, enforces turn ownership, tracks the tiles placed
// during the current turn and publishes a snapshot after every change.
package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/grabble/internal/dependencies/clock"
	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/storage"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet avoids characters that are easy to confuse
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 20
)

// Publisher receives every event produced by a room change
type Publisher interface {
	Publish(event model.Event)
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(model.Event) {}

// CreateOptions configures a new room
type CreateOptions struct {
	TargetScore int
	Password    string
}

// Service manages rooms and relays game actions to each room's engine.
// Actions on one room are applied one at a time; rooms are independent.
type Service struct {
	storage    storage.Storage
	dictionary dictionary.Lookup
	clock      clock.Clock
	random     random.Random
	publisher  Publisher
	logger     *slog.Logger

	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

// New creates a new room Service
func New(
	storage storage.Storage,
	dict dictionary.Lookup,
	clk clock.Clock,
	rnd random.Random,
	publisher Publisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		storage:    storage,
		dictionary: dict,
		clock:      clk,
		random:     rnd,
		publisher:  publisher,
		logger:     logger.With(slog.String("component", "room-service")),
		locks:      make(map[model.RoomCode]*sync.Mutex),
	}
}

// lock serializes all changes to a single room
func (s *Service) lock(code model.RoomCode) func() {
	s.mu.Lock()
	l, ok := s.locks[code]
	if !ok {
		l = &sync.Mutex{}
		s.locks[code] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) forget(code model.RoomCode) {
	s.mu.Lock()
	delete(s.locks, code)
	s.mu.Unlock()
}

// CreateRoom creates a room with the given user as host
func (s *Service) CreateRoom(ctx context.Context, host model.User, opts CreateOptions) (*model.Room, error) {
	if opts.TargetScore < 0 {
		return nil, model.ErrInvalidTarget
	}
	cfg := model.DefaultRoomConfig()
	if opts.TargetScore > 0 {
		cfg.TargetScore = opts.TargetScore
	}

	var hash string
	if opts.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	room := &model.Room{
		Code:         code,
		Status:       model.RoomStatusWaiting,
		Members:      []model.RoomMember{{User: host, IsHost: true, JoinedAt: now}},
		Config:       cfg,
		PasswordHash: hash,
		GameHistory:  []model.GameSummary{},
		TurnTiles:    []model.Position{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("host", string(host.ID)),
		slog.Int("target_score", cfg.TargetScore),
		slog.Bool("password", hash != ""))
	return room, nil
}

func (s *Service) generateCode(ctx context.Context) (model.RoomCode, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.RoomCode(s.random.String(CodeLength, CodeAlphabet))
		if len(code) != CodeLength {
			continue
		}
		exists, err := s.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

// GetRoom retrieves a room by code
func (s *Service) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return s.storage.GetRoom(ctx, code)
}

// GetGame returns the room's current or most recent game
func (s *Service) GetGame(ctx context.Context, code model.RoomCode) (*model.GameState, error) {
	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Game == nil {
		return nil, model.ErrGameNotInProgress
	}
	return room.Game, nil
}

// ActiveRoomCount returns the number of live rooms
func (s *Service) ActiveRoomCount(ctx context.Context) (int, error) {
	codes, err := s.storage.ListRoomCodes(ctx)
	if err != nil {
		return 0, err
	}
	return len(codes), nil
}

// JoinRoom adds a user to a waiting room. Rooms with a password require it.
func (s *Service) JoinRoom(ctx context.Context, code model.RoomCode, user model.User, password string) (*model.Room, error) {
	unlock := s.lock(code)
	defer unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.GetMember(user.ID) != nil {
		return nil, model.ErrAlreadyInRoom
	}
	if room.Status == model.RoomStatusPlaying {
		return nil, model.ErrGameInProgress
	}
	if len(room.Members) >= model.MaxPlayers {
		return nil, model.ErrRoomFull
	}
	if room.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)); err != nil {
			return nil, model.ErrWrongPassword
		}
	}

	room.Members = append(room.Members, model.RoomMember{User: user, JoinedAt: s.clock.Now()})
	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("player joined room", slog.String("room", string(code)), slog.String("user", string(user.ID)))
	s.publishRoom(room, user.ID)
	return room, nil
}

// AddBot seats a bot user in a waiting room. Only the host can add bots.
// Bots are always ready.
func (s *Service) AddBot(ctx context.Context, code model.RoomCode, requester model.UserID, bot model.User) (*model.Room, error) {
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
	if len(room.Members) >= model.MaxPlayers {
		return nil, model.ErrRoomFull
	}

	room.Members = append(room.Members, model.RoomMember{User: bot, Ready: true, JoinedAt: s.clock.Now()})
	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoom(room, requester)
	return room, nil
}

// RemoveBot takes a bot out of a waiting room. Only the host can remove bots.
func (s *Service) RemoveBot(ctx context.Context, code model.RoomCode, requester, botID model.UserID) (*model.Room, error) {
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
	member := room.GetMember(botID)
	if member == nil {
		return nil, model.ErrNotInRoom
	}
	if !member.User.IsBot {
		return nil, model.ErrNotBot
	}

	removeMember(room, botID)
	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoom(room, requester)
	return room, nil
}

// LeaveRoom removes a user from a room. The host role passes to the longest
// standing human member. A room left with no humans is deleted. If a seated
// player leaves mid-game the game ends with the current scores.
func (s *Service) LeaveRoom(ctx context.Context, code model.RoomCode, userID model.UserID) error {
	unlock := s.lock(code)
	defer unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	member := room.GetMember(userID)
	if member == nil {
		return model.ErrNotInRoom
	}
	wasHost := member.IsHost
	wasSeated := member.Seat != nil

	removeMember(room, userID)

	if !hasHuman(room) {
		if err := s.storage.DeleteRoom(ctx, code); err != nil {
			return err
		}
		s.forget(code)
		s.logger.Info("room closed", slog.String("room", string(code)))
		return nil
	}

	if wasHost {
		for i := range room.Members {
			if !room.Members[i].User.IsBot {
				room.Members[i].IsHost = true
				break
			}
		}
	}

	var events []model.Event
	if wasSeated && room.Status == model.RoomStatusPlaying && room.Game != nil {
		t := s.newTurn(room, userID, 0)
		s.finishGame(t)
		events = t.events
	}

	if err := s.saveRoom(ctx, room); err != nil {
		return err
	}

	s.logger.Info("player left room", slog.String("room", string(code)), slog.String("user", string(userID)))
	s.publishRoom(room, userID)
	s.publishAll(events, room.Game)
	return nil
}

// SetReady marks a member ready or not ready to start
func (s *Service) SetReady(ctx context.Context, code model.RoomCode, userID model.UserID, ready bool) (*model.Room, error) {
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
	if room.Status == model.RoomStatusPlaying {
		return nil, model.ErrGameInProgress
	}

	member.Ready = ready
	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoom(room, userID)
	return room, nil
}

// UpdateConfig changes the room settings between games. Host only.
func (s *Service) UpdateConfig(ctx context.Context, code model.RoomCode, requester model.UserID, cfg model.RoomConfig) (*model.Room, error) {
	if cfg.TargetScore <= 0 {
		return nil, model.ErrInvalidTarget
	}

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

	room.Config = cfg
	if err := s.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoom(room, requester)
	return room, nil
}

func (s *Service) saveRoom(ctx context.Context, room *model.Room) error {
	room.UpdatedAt = s.clock.Now()
	return s.storage.SaveRoom(ctx, room)
}

func (s *Service) publishRoom(room *model.Room, userID model.UserID) {
	s.publisher.Publish(model.Event{
		Type:      model.EventRoomUpdate,
		Timestamp: s.clock.Now(),
		RoomCode:  room.Code,
		UserID:    userID,
		Payload:   room.Members,
	})
}

func (s *Service) publishAll(events []model.Event, snapshot *model.GameState) {
	for _, ev := range events {
		if snapshot != nil {
			ev.Game = snapshot.Clone()
		}
		s.publisher.Publish(ev)
	}
}

func requireHost(room *model.Room, userID model.UserID) error {
	host := room.GetHost()
	if host == nil || host.User.ID != userID {
		return model.ErrNotHost
	}
	return nil
}

func removeMember(room *model.Room, userID model.UserID) {
	for i, m := range room.Members {
		if m.User.ID == userID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			return
		}
	}
}

func hasHuman(room *model.Room) bool {
	for _, m := range room.Members {
		if !m.User.IsBot {
			return true
		}
	}
	return false
}
