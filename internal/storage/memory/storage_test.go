package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/grabble/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestUserRoundTrip() {
	user := &model.User{ID: "user-1", DisplayName: "Alice", IsGuest: true}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(*user, *retrieved)

	// Returned values are copies
	retrieved.DisplayName = "Mallory"
	again, _ := s.storage.GetUser(s.ctx, "user-1")
	s.Equal("Alice", again.DisplayName)
}

func (s *StorageSuite) TestUserNotFoundAndDelete() {
	_, err := s.storage.GetUser(s.ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)

	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "user-1"})
	s.Require().NoError(s.storage.DeleteUser(s.ctx, "user-1"))
	_, err = s.storage.GetUser(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestRegisteredUserByUsername() {
	ru := &model.RegisteredUser{UserID: "user-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredUser(s.ctx, ru))

	byName, err := s.storage.GetRegisteredUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byName.UserID)

	_, err = s.storage.GetRegisteredUserByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestRoomIsolatedFromCaller() {
	room := &model.Room{
		Code:    "ABC123",
		Status:  model.RoomStatusWaiting,
		Members: []model.RoomMember{{User: model.User{ID: "u1"}, IsHost: true}},
		Config:  model.DefaultRoomConfig(),
		Game: &model.GameState{
			Board:   model.NewBoard(),
			Players: []model.Player{{ID: 0, Name: "Alice", Rack: []model.Tile{model.NewTile("A")}}},
			Status:  model.GameStatusPlaying,
		},
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	room.Members[0].Ready = true
	room.Game.Players[0].Score = 50

	stored, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(stored.Members[0].Ready)
	s.Equal(0, stored.Game.Players[0].Score)
	s.Equal("A", stored.Game.Players[0].Rack[0].Letter)
}

func (s *StorageSuite) TestRoomLifecycle() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ZZZ999"})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})

	exists, _ = s.storage.RoomExists(s.ctx, "ABC123")
	s.True(exists)

	codes, err := s.storage.ListRoomCodes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.RoomCode{"ABC123", "ZZZ999"}, codes)

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABC123"))
	codes, _ = s.storage.ListRoomCodes(s.ctx)
	s.Equal([]model.RoomCode{"ZZZ999"}, codes)
}

func (s *StorageSuite) TestDictionaryWords() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"CAT", "DOG"}))
	words, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"CAT", "DOG"}, words)

	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, nil))
	words, err = s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Empty(words)
}
