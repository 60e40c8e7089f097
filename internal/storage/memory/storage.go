package memory

import (
	"context"
	"sync"

	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage"
	"github.com/BorDevTech/games-server/internal/storage/snapshot"
)

// Storage is an in-memory implementation of the storage interface.
// Every mutation bumps a generation counter so the persistence keeper can
// tell whether anything changed since the last flush without wrapping
// every method in dirty-flag bookkeeping.
//
// The store owns its values: saves copy in and reads copy out, so callers
// can mutate what they hold without racing the snapshot flush or other
// readers.
type Storage struct {
	mu sync.RWMutex

	sessions   map[model.SessionID]*model.Session
	rooms      map[model.RoomCode]*model.Room
	gameStates map[model.RoomCode]*model.GameState

	generation uint64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:   make(map[model.SessionID]*model.Session),
		rooms:      make(map[model.RoomCode]*model.Room),
		gameStates: make(map[model.RoomCode]*model.GameState),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Generation returns the current mutation counter. Two equal values mean
// no mutation happened in between.
func (s *Storage) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	s.generation++
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.generation++
	}
	return nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Clone())
	}
	return sessions, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	s.generation++
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		delete(s.rooms, code)
		s.generation++
	}
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room.Clone())
	}
	return rooms, nil
}

// Game-state operations

func (s *Storage) SaveGameState(ctx context.Context, state *model.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameStates[state.RoomCode] = state.Clone()
	s.generation++
	return nil
}

func (s *Storage) GetGameState(ctx context.Context, code model.RoomCode) (*model.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.gameStates[code]
	if !ok {
		return nil, model.ErrGameStateNotFound
	}
	return state.Clone(), nil
}

func (s *Storage) DeleteGameState(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gameStates[code]; ok {
		delete(s.gameStates, code)
		s.generation++
	}
	return nil
}

func (s *Storage) ListGameStates(ctx context.Context) ([]*model.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make([]*model.GameState, 0, len(s.gameStates))
	for _, state := range s.gameStates {
		states = append(states, state.Clone())
	}
	return states, nil
}

// Snapshot support

// Dump deep-copies the three maps into a snapshot document while holding
// the read lock, so the caller can marshal the result without racing
// later mutations. The generation at the time of the copy is returned so
// callers can record what was flushed.
func (s *Storage) Dump(ctx context.Context) (*snapshot.Data, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := &snapshot.Data{
		Rooms:          make([]snapshot.RoomEntry, 0, len(s.rooms)),
		GameSessions:   make([]snapshot.GameStateEntry, 0, len(s.gameStates)),
		PlayerSessions: make([]snapshot.SessionEntry, 0, len(s.sessions)),
	}
	for code, room := range s.rooms {
		data.Rooms = append(data.Rooms, snapshot.RoomEntry{Key: code, Value: room.Clone()})
	}
	for code, state := range s.gameStates {
		data.GameSessions = append(data.GameSessions, snapshot.GameStateEntry{Key: code, Value: state.Clone()})
	}
	for id, session := range s.sessions {
		data.PlayerSessions = append(data.PlayerSessions, snapshot.SessionEntry{Key: id, Value: session.Clone()})
	}
	return data, s.generation, nil
}

// Restore replaces the store contents with a snapshot document
func (s *Storage) Restore(ctx context.Context, data *snapshot.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = make(map[model.RoomCode]*model.Room, len(data.Rooms))
	for _, e := range data.Rooms {
		if e.Value != nil {
			s.rooms[e.Key] = e.Value.Clone()
		}
	}
	s.gameStates = make(map[model.RoomCode]*model.GameState, len(data.GameSessions))
	for _, e := range data.GameSessions {
		if e.Value != nil {
			s.gameStates[e.Key] = e.Value.Clone()
		}
	}
	s.sessions = make(map[model.SessionID]*model.Session, len(data.PlayerSessions))
	for _, e := range data.PlayerSessions {
		if e.Value != nil {
			s.sessions[e.Key] = e.Value.Clone()
		}
	}
	s.generation++
	return nil
}
