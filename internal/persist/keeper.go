// Package persist provides durability for the memory-backed store: a
// single JSON snapshot file, flushed on a fixed interval whenever the
// store has changed, plus an hourly expired-session sweep.
//
// The guarantee this buys is deliberately modest: on an unclean exit, at
// most one flush interval of recent writes may be lost. A clean shutdown
// always flushes synchronously before the process exits.
package persist

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/BorDevTech/games-server/internal/dependencies/clock"
	"github.com/BorDevTech/games-server/internal/storage/memory"
	"github.com/BorDevTech/games-server/internal/storage/snapshot"
)

// Sweeper purges expired entries; satisfied by the session service
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Config holds configuration for the persistence keeper
type Config struct {
	// Path is the snapshot file location
	Path string
	// FlushInterval is how often dirty state is written out
	FlushInterval time.Duration
	// SweepInterval is how often expired sessions are purged
	SweepInterval time.Duration
}

// DefaultConfig returns default persistence configuration
func DefaultConfig() Config {
	return Config{
		Path:          "data/portal.json",
		FlushInterval: 10 * time.Second,
		SweepInterval: time.Hour,
	}
}

// Keeper owns the snapshot file lifecycle for a memory store
type Keeper struct {
	store   *memory.Storage
	sweeper Sweeper
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config

	// Generation last written to disk; the store is dirty when its
	// current generation differs. Only touched from Load/Flush, which the
	// Run goroutine serializes.
	flushedGen uint64
}

// New creates a Keeper for the given store
func New(store *memory.Storage, sweeper Sweeper, clk clock.Clock, cfg Config, logger *slog.Logger) *Keeper {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	return &Keeper{
		store:   store,
		sweeper: sweeper,
		clock:   clk,
		logger:  logger,
		cfg:     cfg,
	}
}

// Load hydrates the store from the snapshot file. A missing file is the
// expected cold start; a corrupt file is logged and treated the same way.
// Neither is an error.
func (k *Keeper) Load(ctx context.Context) error {
	data, err := snapshot.Read(k.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			k.logger.Info("no snapshot file, starting empty", slog.String("path", k.cfg.Path))
		} else {
			k.logger.Warn("unreadable snapshot, starting empty",
				slog.String("path", k.cfg.Path),
				slog.String("error", err.Error()),
			)
		}
		k.flushedGen = k.store.Generation()
		return nil
	}

	if err := k.store.Restore(ctx, data); err != nil {
		return err
	}
	k.flushedGen = k.store.Generation()

	k.logger.Info("snapshot loaded",
		slog.String("path", k.cfg.Path),
		slog.Int("rooms", len(data.Rooms)),
		slog.Int("game_sessions", len(data.GameSessions)),
		slog.Int("player_sessions", len(data.PlayerSessions)),
	)
	return nil
}

// Flush writes the current state to disk if anything changed since the
// last flush. Returns without touching the file when the store is clean.
func (k *Keeper) Flush(ctx context.Context) error {
	if k.store.Generation() == k.flushedGen {
		return nil
	}

	data, gen, err := k.store.Dump(ctx)
	if err != nil {
		return err
	}
	data.LastUpdated = k.clock.Now()

	if err := snapshot.Write(k.cfg.Path, data); err != nil {
		return err
	}
	k.flushedGen = gen
	return nil
}

// Run drives the flush and sweep timers until the context is cancelled,
// then performs a final synchronous flush. Flush failures are logged and
// the process keeps serving from memory.
func (k *Keeper) Run(ctx context.Context) {
	flushTicker := time.NewTicker(k.cfg.FlushInterval)
	defer flushTicker.Stop()
	sweepTicker := time.NewTicker(k.cfg.SweepInterval)
	defer sweepTicker.Stop()

	for {
		select {
		case <-flushTicker.C:
			if err := k.Flush(ctx); err != nil {
				k.logger.Error("snapshot flush failed", slog.String("error", err.Error()))
			}

		case <-sweepTicker.C:
			if k.sweeper == nil {
				continue
			}
			if _, err := k.sweeper.SweepExpired(ctx); err != nil {
				k.logger.Error("session sweep failed", slog.String("error", err.Error()))
			}

		case <-ctx.Done():
			// Shutdown: force one last flush so a clean exit loses nothing
			if err := k.Flush(context.Background()); err != nil {
				k.logger.Error("final snapshot flush failed", slog.String("error", err.Error()))
			}
			return
		}
	}
}
