package gamestate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/BorDevTech/games-server/internal/dependencies/clock"
	"github.com/BorDevTech/games-server/internal/keyedmutex"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage"
)

// Service is the game-state cache: the latest opaque game payload per
// room, versioned so stale writers can be detected. The payload schema
// belongs to the game occupying the room and is never validated here.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	locks *keyedmutex.KeyedMutex[model.RoomCode]
}

// New creates a new game-state Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger,
		locks:   keyedmutex.New[model.RoomCode](),
	}
}

// Get returns the current state blob for a room
func (s *Service) Get(ctx context.Context, code model.RoomCode) (*model.GameState, error) {
	return s.storage.GetGameState(ctx, normalize(code))
}

// Set overwrites the room's state unconditionally, creating it if absent.
// This is the legacy last-writer-wins path: two near-simultaneous writers
// will silently clobber each other, which is why Update exists. The
// version still advances so pollers can tell something changed.
func (s *Service) Set(ctx context.Context, code model.RoomCode, state json.RawMessage, action string, playerID model.PlayerID) (*model.GameState, error) {
	code = normalize(code)
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	version := int64(1)
	if existing, err := s.storage.GetGameState(ctx, code); err == nil {
		version = existing.Version + 1
	} else if !errors.Is(err, model.ErrGameStateNotFound) {
		return nil, err
	}

	return s.save(ctx, code, version, state, action, playerID)
}

// Update is the compare-and-swap path: the write is applied only if the
// caller's expectedVersion matches the stored version, otherwise
// ErrVersionConflict is returned and the caller should re-read and retry.
// expectedVersion 0 means "create"; it conflicts if state already exists.
func (s *Service) Update(ctx context.Context, code model.RoomCode, expectedVersion int64, state json.RawMessage, action string, playerID model.PlayerID) (*model.GameState, error) {
	code = normalize(code)
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	existing, err := s.storage.GetGameState(ctx, code)
	switch {
	case errors.Is(err, model.ErrGameStateNotFound):
		if expectedVersion != 0 {
			return nil, model.ErrGameStateNotFound
		}
	case err != nil:
		return nil, err
	default:
		if existing.Version != expectedVersion {
			s.logger.Debug("rejected stale game-state write",
				slog.String("room", string(code)),
				slog.Int64("expected", expectedVersion),
				slog.Int64("actual", existing.Version),
			)
			return nil, model.ErrVersionConflict
		}
	}

	return s.save(ctx, code, expectedVersion+1, state, action, playerID)
}

// Delete removes a room's state. Idempotent; reports whether state was
// actually removed.
func (s *Service) Delete(ctx context.Context, code model.RoomCode) (bool, error) {
	code = normalize(code)
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	_, err := s.storage.GetGameState(ctx, code)
	if errors.Is(err, model.ErrGameStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.storage.DeleteGameState(ctx, code); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) save(ctx context.Context, code model.RoomCode, version int64, state json.RawMessage, action string, playerID model.PlayerID) (*model.GameState, error) {
	now := s.clock.Now()
	gs := &model.GameState{
		RoomCode:     code,
		Version:      version,
		State:        state,
		LastAction:   action,
		LastPlayerID: playerID,
		LastUpdated:  now,
		SyncedAt:     now,
	}
	if err := s.storage.SaveGameState(ctx, gs); err != nil {
		return nil, err
	}
	return gs, nil
}

func normalize(code model.RoomCode) model.RoomCode {
	return model.NormalizeRoomCode(string(code))
}
