package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Durability and multi-instance sharing come from Redis itself, so the
// file snapshot keeper is not used with this backend.
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

	// Verify connection
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

func (s *Storage) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) get(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// scanAll collects every value matching the pattern. The room and session
// populations are small (single portal instance), so SCAN is acceptable.
func (s *Storage) scanAll(ctx context.Context, pattern string, visit func(data []byte) error) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Key expired between SCAN and GET
				continue
			}
			return err
		}
		if err := visit(data); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	return s.set(ctx, sessionKey(session.ID), session, s.cfg.SessionTTL)
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var session model.Session
	if err := s.get(ctx, sessionKey(id), &session, model.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	var sessions []*model.Session
	err := s.scanAll(ctx, sessionScanPattern, func(data []byte) error {
		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}
		sessions = append(sessions, &session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	return s.set(ctx, roomKey(room.Code), room, s.cfg.RoomTTL)
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var room model.Room
	if err := s.get(ctx, roomKey(code), &room, model.ErrRoomNotFound); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, roomKey(code)).Err()
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	var rooms []*model.Room
	err := s.scanAll(ctx, roomScanPattern, func(data []byte) error {
		var room model.Room
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		rooms = append(rooms, &room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// Game-state operations

func (s *Storage) SaveGameState(ctx context.Context, state *model.GameState) error {
	return s.set(ctx, gameStateKey(state.RoomCode), state, s.cfg.GameStateTTL)
}

func (s *Storage) GetGameState(ctx context.Context, code model.RoomCode) (*model.GameState, error) {
	var state model.GameState
	if err := s.get(ctx, gameStateKey(code), &state, model.ErrGameStateNotFound); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Storage) DeleteGameState(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, gameStateKey(code)).Err()
}

func (s *Storage) ListGameStates(ctx context.Context) ([]*model.GameState, error) {
	var states []*model.GameState
	err := s.scanAll(ctx, gameStateScanPattern, func(data []byte) error {
		var state model.GameState
		if err := json.Unmarshal(data, &state); err != nil {
			return err
		}
		states = append(states, &state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return states, nil
}
