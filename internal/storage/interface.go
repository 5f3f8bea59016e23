package storage

import (
	"context"

	"github.com/mcoot/grabble/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error)
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Room operations. A room carries its game state, so saving a room
	// persists the game snapshot with it.
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRoomCodes(ctx context.Context) ([]model.RoomCode, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
