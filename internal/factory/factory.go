package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/BorDevTech/games-server/internal/dependencies/clock"
	"github.com/BorDevTech/games-server/internal/dependencies/random"
	"github.com/BorDevTech/games-server/internal/persist"
	"github.com/BorDevTech/games-server/internal/services/gamestate"
	"github.com/BorDevTech/games-server/internal/services/room"
	"github.com/BorDevTech/games-server/internal/services/session"
	"github.com/BorDevTech/games-server/internal/storage"
	"github.com/BorDevTech/games-server/internal/storage/memory"
	redisstorage "github.com/BorDevTech/games-server/internal/storage/redis"
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
	SessionService   *session.Service
	RoomRegistry     *room.Registry
	GameStateService *gamestate.Service

	// Keeper drives snapshot persistence for the memory backend.
	// Nil when Redis owns durability.
	Keeper *persist.Keeper
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SessionConfig holds session service settings (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// PersistConfig holds snapshot settings for the memory backend (optional)
	PersistConfig persist.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	clk := clock.New()
	rnd := random.New()

	sessionCfg := cfg.SessionConfig
	if sessionCfg.TTL == 0 {
		sessionCfg = session.DefaultConfig()
	}

	switch storageType {
	case StorageTypeMemory:
		store := memory.New()
		app := newWithDependencies(store, clk, rnd, sessionCfg, logger)

		persistCfg := cfg.PersistConfig
		if persistCfg.Path == "" {
			persistCfg.Path = persist.DefaultConfig().Path
		}
		app.Keeper = persist.New(store, app.SessionService, clk, persistCfg, logger)
		return app, nil

	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return newWithDependencies(store, clk, rnd, sessionCfg, logger), nil

	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	sessionService := session.New(store, clk, rnd, sessionCfg, logger)
	roomRegistry := room.NewRegistry(store, clk, rnd, logger)
	gameStateService := gamestate.New(store, clk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		SessionService:   sessionService,
		RoomRegistry:     roomRegistry,
		GameStateService: gameStateService,
	}
}
