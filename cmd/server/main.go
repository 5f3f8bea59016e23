package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/grabble/internal/api"
	"github.com/mcoot/grabble/internal/factory"
)

func main() {
	// A missing .env is fine; the real environment still applies
	_ = godotenv.Load(envOrDefault("ENV_FILE", ".env"))

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.logLevel,
	}))
	slog.SetDefault(logger)
	cfg.factory.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg.factory)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		RoomService: app.RoomService,
		BotService:  app.BotService,
		Dictionary:  app.DictionaryService,
		HubManager:  app.HubManager,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", router)

	server := api.NewServer(mux, cfg.server, logger)

	go runCleanup(ctx, app, cfg.cleanupInterval, logger)

	// Event streams never go idle, so close them before the server waits
	// for connections to drain
	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		app.HubManager.CloseAll()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// runCleanup periodically drops expired sessions and hubs nobody watches
func runCleanup(ctx context.Context, app *factory.App, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions := app.AuthService.CleanExpiredSessions()
			hubs := app.HubManager.CleanupEmptyHubs()
			if sessions > 0 || hubs > 0 {
				logger.Info("cleanup complete",
					slog.Int("expired_sessions", sessions),
					slog.Int("empty_hubs", hubs))
			}
		}
	}
}
