package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BorDevTech/games-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:       "sess_abc",
		PlayerID: "p_1234",
		Username: "Alice",
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess_abc")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Username)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "sess_nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "sess_abc"})

	err := s.storage.DeleteSession(s.ctx, "sess_abc")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "sess_abc")
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
	room := &model.Room{Code: "ABC123", Name: "Test"}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal("Test", retrieved.Name)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "ZZZ999")
	s.ErrorIs(err, model.ErrRoomNotFound)
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

// Game-state tests

func (s *StorageSuite) TestSaveAndGetGameState() {
	state := &model.GameState{RoomCode: "ABC123", Version: 3}

	err := s.storage.SaveGameState(s.ctx, state)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGameState(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(int64(3), retrieved.Version)
}

func (s *StorageSuite) TestGetGameStateNotFound() {
	_, err := s.storage.GetGameState(s.ctx, "ZZZ999")
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

// Generation tests

func (s *StorageSuite) TestGenerationAdvancesOnMutation() {
	before := s.storage.Generation()

	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})
	s.Greater(s.storage.Generation(), before)
}

func (s *StorageSuite) TestGenerationStableOnReads() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})
	before := s.storage.Generation()

	_, _ = s.storage.GetRoom(s.ctx, "ABC123")
	_, _ = s.storage.ListRooms(s.ctx)
	_, _ = s.storage.RoomExists(s.ctx, "ABC123")

	s.Equal(before, s.storage.Generation())
}

func (s *StorageSuite) TestGenerationStableOnNoOpDelete() {
	before := s.storage.Generation()

	_ = s.storage.DeleteRoom(s.ctx, "ZZZ999")
	_ = s.storage.DeleteSession(s.ctx, "sess_nope")
	_ = s.storage.DeleteGameState(s.ctx, "ZZZ999")

	s.Equal(before, s.storage.Generation())
}

// Ownership tests: the store copies on save and on read, so callers can
// mutate what they hold without affecting stored state

func (s *StorageSuite) TestSavedRoomIsDetachedFromCaller() {
	room := &model.Room{Code: "ABC123", Players: []model.RoomPlayer{{ID: "p_1"}}}
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Name = "changed"
	room.Players[0].Ready = true

	stored, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(stored.Name)
	s.False(stored.Players[0].Ready)
}

func (s *StorageSuite) TestRetrievedRoomIsDetachedFromStore() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123", Players: []model.RoomPlayer{{ID: "p_1"}}})

	first, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	first.Players = append(first.Players, model.RoomPlayer{ID: "p_2"})
	first.Players[0].Ready = true

	second, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(second.Players, 1)
	s.False(second.Players[0].Ready)
}

func (s *StorageSuite) TestDumpIsDetachedFromStore() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123", Players: []model.RoomPlayer{{ID: "p_1"}}})

	data, _, err := s.storage.Dump(s.ctx)
	s.Require().NoError(err)

	room, _ := s.storage.GetRoom(s.ctx, "ABC123")
	room.Players[0].Ready = true
	_ = s.storage.SaveRoom(s.ctx, room)

	s.Require().Len(data.Rooms, 1)
	s.False(data.Rooms[0].Value.Players[0].Ready)
}

// Marshalling a dump must never race writes to the same rooms; run with
// the race detector enabled
func (s *StorageSuite) TestDumpSafeAgainstConcurrentMutation() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			room, err := s.storage.GetRoom(s.ctx, "ABC123")
			if err != nil {
				return
			}
			room.Players = append(room.Players, model.RoomPlayer{ID: model.PlayerID(fmt.Sprintf("p_%d", i))})
			_ = s.storage.SaveRoom(s.ctx, room)
		}
	}()

	for i := 0; i < 200; i++ {
		data, _, err := s.storage.Dump(s.ctx)
		s.Require().NoError(err)
		_, err = json.Marshal(data)
		s.Require().NoError(err)
	}
	<-done
}

// Dump / Restore tests

func (s *StorageSuite) TestDumpAndRestoreRoundTrip() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveSession(s.ctx, &model.Session{ID: "sess_a", Username: "Alice", CreatedAt: now})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABC123", Name: "Test"})
	_ = s.storage.SaveGameState(s.ctx, &model.GameState{RoomCode: "ABC123", Version: 2})

	data, gen, err := s.storage.Dump(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.storage.Generation(), gen)
	s.Len(data.Rooms, 1)
	s.Len(data.GameSessions, 1)
	s.Len(data.PlayerSessions, 1)

	fresh := New()
	err = fresh.Restore(s.ctx, data)
	s.Require().NoError(err)

	session, err := fresh.GetSession(s.ctx, "sess_a")
	s.Require().NoError(err)
	s.Equal("Alice", session.Username)

	room, err := fresh.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal("Test", room.Name)

	state, err := fresh.GetGameState(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(int64(2), state.Version)
}

func (s *StorageSuite) TestRestoreReplacesExistingContents() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{Code: "OLD111"})

	data, _, _ := New().Dump(s.ctx)
	err := s.storage.Restore(s.ctx, data)
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "OLD111")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
