package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BorDevTech/games-server/internal/dependencies/mocks"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage/memory"
	"github.com/BorDevTech/games-server/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Create tests

func (s *ServiceSuite) TestCreateSucceeds() {
	session, err := s.service.Create(s.ctx, "", "Alice", nil)
	s.Require().NoError(err)

	s.NotEmpty(session.ID)
	s.True(len(session.ID) > len("sess_"))
	s.Equal("Alice", session.Username)
	s.NotEmpty(session.PlayerID)
	s.Nil(session.CurrentRoom)
}

func (s *ServiceSuite) TestCreatePersistsSession() {
	session, _ := s.service.Create(s.ctx, "", "Alice", nil)

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.Username)
}

func (s *ServiceSuite) TestCreateWithRoom() {
	room := model.RoomCode("ABC123")
	session, err := s.service.Create(s.ctx, "", "Alice", &room)
	s.Require().NoError(err)

	s.Require().NotNil(session.CurrentRoom)
	s.Equal(room, *session.CurrentRoom)
}

func (s *ServiceSuite) TestCreateRefreshesSameUsername() {
	first, _ := s.service.Create(s.ctx, "", "Alice", nil)
	s.clock.Advance(time.Hour)

	second, err := s.service.Create(s.ctx, first.ID, "Alice", nil)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(first.PlayerID, second.PlayerID)
	s.Equal(s.clock.Now(), second.LastActivity)
}

func (s *ServiceSuite) TestCreateRotatesOnUsernameChange() {
	first, _ := s.service.Create(s.ctx, "", "Alice", nil)

	second, err := s.service.Create(s.ctx, first.ID, "Bob", nil)
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.NotEqual(first.PlayerID, second.PlayerID)

	// The old session is gone
	_, err = s.storage.GetSession(s.ctx, first.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestCreateWithUnknownTokenMintsNew() {
	session, err := s.service.Create(s.ctx, "sess_bogus", "Alice", nil)
	s.Require().NoError(err)

	s.NotEqual(model.SessionID("sess_bogus"), session.ID)
}

// Player ID derivation tests

func (s *ServiceSuite) TestPlayerIDIsDeterministic() {
	s.random.QueueToken("fixed-token", "fixed-token")

	first, _ := s.service.Create(s.ctx, "", "Alice", nil)
	s.storage = memory.New()
	s.service = New(s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	second, _ := s.service.Create(s.ctx, "", "Alice", nil)

	s.Equal(first.PlayerID, second.PlayerID)
}

func (s *ServiceSuite) TestPlayerIDIsCaseInsensitiveOnUsername() {
	s.Equal(
		model.DerivePlayerID("sess_tok", "Alice"),
		model.DerivePlayerID("sess_tok", "ALICE"),
	)
}

func (s *ServiceSuite) TestPlayerIDFormat() {
	id := model.DerivePlayerID("sess_tok", "Alice")
	s.Len(string(id), len("p_")+16)
	s.Equal("p_", string(id)[:2])
}

// Get tests

func (s *ServiceSuite) TestGetSucceeds() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	session, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, session.ID)
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, "sess_nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestGetPurgesExpiredSession() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	s.clock.Advance(model.SessionTTL + time.Minute)

	_, err := s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)

	// Purged from storage, not just hidden
	_, err = s.storage.GetSession(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestGetDoesNotBumpActivity() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)
	createdAt := created.LastActivity

	s.clock.Advance(time.Hour)
	session, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(createdAt, session.LastActivity)
}

// Touch tests

func (s *ServiceSuite) TestTouchBumpsActivity() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	s.clock.Advance(time.Hour)
	session, err := s.service.Touch(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), session.LastActivity)
}

func (s *ServiceSuite) TestTouchKeepsSessionAlive() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	// Touch every 12 hours for 3 days; the session must survive
	for i := 0; i < 6; i++ {
		s.clock.Advance(12 * time.Hour)
		_, err := s.service.Touch(s.ctx, created.ID)
		s.Require().NoError(err)
	}
}

// SetCurrentRoom tests

func (s *ServiceSuite) TestSetCurrentRoom() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	room := model.RoomCode("ABC123")
	session, err := s.service.SetCurrentRoom(s.ctx, created.ID, &room)
	s.Require().NoError(err)
	s.Require().NotNil(session.CurrentRoom)
	s.Equal(room, *session.CurrentRoom)
}

func (s *ServiceSuite) TestClearCurrentRoom() {
	room := model.RoomCode("ABC123")
	created, _ := s.service.Create(s.ctx, "", "Alice", &room)

	session, err := s.service.SetCurrentRoom(s.ctx, created.ID, nil)
	s.Require().NoError(err)
	s.Nil(session.CurrentRoom)
}

// Delete tests

func (s *ServiceSuite) TestDeleteRemovesSession() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	err := s.service.Delete(s.ctx, created.ID)
	s.Require().NoError(err)

	_, err = s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestDeleteAbsentSessionIsNotError() {
	err := s.service.Delete(s.ctx, "sess_nope")
	s.NoError(err)
}

// SweepExpired tests

func (s *ServiceSuite) TestSweepRemovesOnlyExpired() {
	old, _ := s.service.Create(s.ctx, "", "Alice", nil)

	s.clock.Advance(model.SessionTTL + time.Minute)
	fresh, _ := s.service.Create(s.ctx, "", "Bob", nil)

	removed, err := s.service.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, removed) // Create already swept Alice opportunistically

	_, err = s.storage.GetSession(s.ctx, old.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.storage.GetSession(s.ctx, fresh.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestSweepIsIdempotent() {
	_, _ = s.service.Create(s.ctx, "", "Alice", nil)
	s.clock.Advance(model.SessionTTL + time.Minute)

	first, err := s.service.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, first)

	second, err := s.service.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, second)
}

func (s *ServiceSuite) TestSessionAtExactTTLIsAlive() {
	created, _ := s.service.Create(s.ctx, "", "Alice", nil)

	s.clock.Advance(model.SessionTTL)

	_, err := s.service.Get(s.ctx, created.ID)
	s.NoError(err)
}
