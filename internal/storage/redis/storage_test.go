package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/BorDevTech/games-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.RoomTTL = time.Hour
	cfg.GameStateTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:        "sess_abc",
		PlayerID:  "p_1234",
		Username:  "Alice",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess_abc")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "sess_nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExpiresWithTTL() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "sess_abc"})

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "sess_abc")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestListSessions() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "sess_a"})
	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "sess_b"})

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Len(sessions, 2)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		Code: "ABC123",
		Name: "Test Room",
		Players: []model.RoomPlayer{
			{ID: "p1", Username: "Alice", IsHost: true},
		},
		MaxPlayers: 4,
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.Name, retrieved.Name)
	s.Require().Len(retrieved.Players, 1)
	s.True(retrieved.Players[0].IsHost)
}

func (s *StorageSuite) TestRoomExists() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})

	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomExists(s.ctx, "ZZZ999")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})

	err := s.storage.DeleteRoom(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRooms() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "AAA111"})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "BBB222"})

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

// Game-state tests

func (s *StorageSuite) TestSaveAndGetGameState() {
	state := &model.GameState{
		RoomCode: "ABC123",
		Version:  5,
		State:    []byte(`{"deck":[1,2,3]}`),
	}

	err := s.storage.SaveGameState(s.ctx, state)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGameState(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(int64(5), retrieved.Version)
	s.JSONEq(`{"deck":[1,2,3]}`, string(retrieved.State))
}

func (s *StorageSuite) TestGetGameStateNotFound() {
	_, err := s.storage.GetGameState(s.ctx, "ZZZ999")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

func (s *StorageSuite) TestDeleteGameState() {
	_ = s.storage.SaveGameState(s.ctx, &model.GameState{RoomCode: "ABC123"})

	err := s.storage.DeleteGameState(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetGameState(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}
