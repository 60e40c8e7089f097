package storage

import (
	"context"

	"github.com/BorDevTech/games-server/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	ListSessions(ctx context.Context) ([]*model.Session, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Game-state operations
	SaveGameState(ctx context.Context, state *model.GameState) error
	GetGameState(ctx context.Context, code model.RoomCode) (*model.GameState, error)
	DeleteGameState(ctx context.Context, code model.RoomCode) error
	ListGameStates(ctx context.Context) ([]*model.GameState, error)
}
