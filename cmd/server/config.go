package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/grabble/internal/api"
	"github.com/mcoot/grabble/internal/factory"
	redisstorage "github.com/mcoot/grabble/internal/storage/redis"
)

// config is everything the server reads from its environment
type config struct {
	factory         factory.Config
	server          api.ServerConfig
	logLevel        slog.Level
	cleanupInterval time.Duration
}

// loadConfig reads the environment. getenv is os.Getenv outside tests.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		factory: factory.Config{
			DictionaryPath: getenv("DICTIONARY_PATH"),
			StorageType:    getenv("STORAGE_TYPE"),
		},
		server:          api.DefaultServerConfig(),
		logLevel:        slog.LevelInfo,
		cleanupInterval: 5 * time.Minute,
	}

	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return config{}, fmt.Errorf("invalid PORT %q", port)
		}
		cfg.server.Port = p
	}
	cfg.server.Host = getenv("HOST")

	if level := getenv("LOG_LEVEL"); level != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
	}

	if cfg.factory.StorageType == factory.StorageTypeRedis {
		redisURL := getenv("REDIS_URL")
		if redisURL == "" {
			return config{}, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		if ttl := getenv("ROOM_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return config{}, fmt.Errorf("invalid ROOM_TTL %q: %w", ttl, err)
			}
			redisCfg.RoomTTL = d
		}
		cfg.factory.RedisConfig = &redisCfg
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
