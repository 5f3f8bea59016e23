package redis

import (
	"fmt"

	"github.com/mcoot/grabble/internal/model"
)

// Key prefix for all Grabble data
const keyPrefix = "grabble"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(userID model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// roomKey returns the Redis key for a Room and its game snapshot
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// roomIndexKey returns the Redis key for the SET of known room codes
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
