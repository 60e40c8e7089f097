package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/BorDevTech/games-server/internal/api"
	"github.com/BorDevTech/games-server/internal/factory"
	"github.com/BorDevTech/games-server/internal/persist"
	redisstorage "github.com/BorDevTech/games-server/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	persistCfg := persist.DefaultConfig()
	if path := os.Getenv("SNAPSHOT_PATH"); path != "" {
		persistCfg.Path = path
	}
	cfg.PersistConfig = persistCfg

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Memory backend: hydrate from the snapshot file and start the keeper
	var keeperDone sync.WaitGroup
	if app.Keeper != nil {
		if err := app.Keeper.Load(ctx); err != nil {
			logger.Error("failed to load snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		keeperDone.Add(1)
		go func() {
			defer keeperDone.Done()
			app.Keeper.Run(ctx)
		}()
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		SessionService:   app.SessionService,
		RoomRegistry:     app.RoomRegistry,
		GameStateService: app.GameStateService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			serverConfig.Port = p
		}
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Wait for the keeper's final flush so a clean exit loses nothing
	keeperDone.Wait()

	logger.Info("server stopped")
}
