package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/grabble/internal/dependencies/clock"
	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/services/auth"
	"github.com/mcoot/grabble/internal/services/bot"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/services/room"
	"github.com/mcoot/grabble/internal/sse"
	"github.com/mcoot/grabble/internal/storage"
	"github.com/mcoot/grabble/internal/storage/memory"
	redisstorage "github.com/mcoot/grabble/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	AuthService       *auth.Service
	RoomService       *room.Service
	BotService        *bot.Service
	HubManager        *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the path to the dictionary file (optional).
	// If empty, words saved in storage are used, then the built-in list.
	DictionaryPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired and the
// dictionary loaded
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), random.New(), authCfg, logger)

	if err := app.loadDictionary(ctx, cfg.DictionaryPath, logger); err != nil {
		return nil, err
	}

	return app, nil
}

// loadDictionary prefers the configured file, then words a previous run
// saved to storage, then the built-in list
func (a *App) loadDictionary(ctx context.Context, path string, logger *slog.Logger) error {
	if path != "" {
		if err := a.DictionaryService.LoadFromFile(ctx, path); err != nil {
			return fmt.Errorf("loading dictionary: %w", err)
		}
		logger.Info("dictionary loaded",
			slog.String("source", path),
			slog.Int("words", a.DictionaryService.WordCount()))
		return nil
	}

	if err := a.DictionaryService.LoadFromStorage(ctx); err == nil {
		logger.Info("dictionary loaded",
			slog.String("source", "storage"),
			slog.Int("words", a.DictionaryService.WordCount()))
		return nil
	}

	logger.Warn("no dictionary configured, using built-in word list")
	return a.DictionaryService.LoadFallback()
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	dictService := dictionary.New(store)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	roomService := room.New(store, dictService, clk, rnd, broadcaster, logger)
	botService := bot.NewService(store, roomService, dictService, bot.DefaultStrategies(dictService, rnd), clk, rnd, logger)
	authService := auth.New(store, clk, logger, authCfg)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		AuthService:       authService,
		RoomService:       roomService,
		BotService:        botService,
		HubManager:        hubManager,
	}
}

// Close releases storage connections
func (a *App) Close() error {
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
