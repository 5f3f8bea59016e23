package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are stored as encoded snapshots so callers never share game state
// with the store.
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	registeredUsers map[model.UserID]*model.RegisteredUser
	usernameIndex   map[string]model.UserID
	rooms           map[model.RoomCode][]byte
	dictionaryWords []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		registeredUsers: make(map[model.UserID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.UserID),
		rooms:           make(map[model.RoomCode][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.UserID] = &r
	s.usernameIndex[ru.Username] = ru.UserID
	return nil
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	userID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetRegisteredUser(ctx, userID)
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = data
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	data, ok := s.rooms[code]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrRoomNotFound
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) ListRoomCodes(ctx context.Context) ([]model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]model.RoomCode, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	return append([]string(nil), s.dictionaryWords...), nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = append([]string{}, words...)
	return nil
}
