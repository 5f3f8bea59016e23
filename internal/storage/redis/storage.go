package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads and decodes a JSON value, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, out any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Guests and bots expire; registered users are kept
	var ttl time.Duration
	if user.IsGuest || user.IsBot {
		ttl = s.cfg.GuestUserTTL
	}
	return s.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	return s.client.Del(ctx, userKey(id)).Err()
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	var ru model.RegisteredUser
	if err := s.getJSON(ctx, registeredUserKey(userID), &ru, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	userID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetRegisteredUser(ctx, model.UserID(userID))
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomIndexKey(), string(room.Code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var room model.Room
	if err := s.getJSON(ctx, roomKey(code), &room, model.ErrRoomNotFound); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, roomKey(code))
	pipe.SRem(ctx, roomIndexKey(), string(code))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// ListRoomCodes returns the codes of live rooms. Codes whose room has
// expired are pruned from the index.
func (s *Storage) ListRoomCodes(ctx context.Context) ([]model.RoomCode, error) {
	members, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []model.RoomCode{}, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(members))
	for i, code := range members {
		checks[i] = pipe.Exists(ctx, roomKey(model.RoomCode(code)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	codes := make([]model.RoomCode, 0, len(members))
	var expired []any
	for i, code := range members {
		if checks[i].Val() > 0 {
			codes = append(codes, model.RoomCode(code))
		} else {
			expired = append(expired, code)
		}
	}
	if len(expired) > 0 {
		if err := s.client.SRem(ctx, roomIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	// Replace the whole set atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		members := make([]any, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
