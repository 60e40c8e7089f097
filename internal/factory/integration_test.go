package factory

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/persist"
	"github.com/BorDevTech/games-server/internal/services/room"
	"github.com/BorDevTech/games-server/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: full portal flow from session creation to game completion
func (s *IntegrationSuite) TestCompletePortalFlow() {
	s.app.MockRandom.QueueString("ROOM01")

	// Step 1: Two players get sessions
	alice, err := s.app.SessionService.Create(s.ctx, "", "Alice", nil)
	s.Require().NoError(err)
	bob, err := s.app.SessionService.Create(s.ctx, "", "Bob", nil)
	s.Require().NoError(err)
	s.NotEqual(alice.PlayerID, bob.PlayerID)

	// Step 2: Alice creates a room
	hostPlayer := model.RoomPlayer{ID: alice.PlayerID, Username: alice.Username}
	rm, err := s.app.RoomRegistry.Create(s.ctx, hostPlayer, room.CreateParams{Name: "Card Night"})
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ROOM01"), rm.Code)

	// Step 3: Bob joins and both sessions track the room
	_, err = s.app.RoomRegistry.Join(s.ctx, rm.Code, model.RoomPlayer{ID: bob.PlayerID, Username: bob.Username})
	s.Require().NoError(err)
	_, err = s.app.SessionService.SetCurrentRoom(s.ctx, alice.ID, &rm.Code)
	s.Require().NoError(err)
	_, err = s.app.SessionService.SetCurrentRoom(s.ctx, bob.ID, &rm.Code)
	s.Require().NoError(err)

	// Step 4: Host starts the game and pushes state
	_, err = s.app.RoomRegistry.Start(s.ctx, rm.Code, alice.PlayerID)
	s.Require().NoError(err)

	state, err := s.app.GameStateService.Set(s.ctx, rm.Code, json.RawMessage(`{"turn":1}`), "deal", alice.PlayerID)
	s.Require().NoError(err)
	s.Equal(int64(1), state.Version)

	// Step 5: Bob plays a turn with compare-and-swap
	state, err = s.app.GameStateService.Update(s.ctx, rm.Code, 1, json.RawMessage(`{"turn":2}`), "move", bob.PlayerID)
	s.Require().NoError(err)
	s.Equal(int64(2), state.Version)

	// Step 6: Host finishes; room returns to waiting
	finished, err := s.app.RoomRegistry.Finish(s.ctx, rm.Code, alice.PlayerID)
	s.Require().NoError(err)
	s.False(finished.InGame)
	s.Equal(model.StatusWaiting, finished.GetPlayer(bob.PlayerID).Status)
}

// Test: everyone leaving tears down room and state
func (s *IntegrationSuite) TestAllPlayersLeavingDissolvesRoom() {
	s.app.MockRandom.QueueString("ROOM01")

	alice, _ := s.app.SessionService.Create(s.ctx, "", "Alice", nil)
	bob, _ := s.app.SessionService.Create(s.ctx, "", "Bob", nil)

	rm, _ := s.app.RoomRegistry.Create(s.ctx, model.RoomPlayer{ID: alice.PlayerID, Username: "Alice"}, room.CreateParams{})
	_, _ = s.app.RoomRegistry.Join(s.ctx, rm.Code, model.RoomPlayer{ID: bob.PlayerID, Username: "Bob"})
	_, _ = s.app.GameStateService.Set(s.ctx, rm.Code, json.RawMessage(`{}`), "", alice.PlayerID)

	s.Require().NoError(s.app.RoomRegistry.Leave(s.ctx, rm.Code, alice.PlayerID))
	s.Require().NoError(s.app.RoomRegistry.Leave(s.ctx, rm.Code, bob.PlayerID))

	_, err := s.app.RoomRegistry.Get(s.ctx, rm.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
	_, err = s.app.GameStateService.Get(s.ctx, rm.Code)
	s.ErrorIs(err, model.ErrGameStateNotFound)
}

// Test: state survives a flush/load cycle through the snapshot file
func (s *IntegrationSuite) TestSnapshotRoundTripAcrossRestart() {
	s.app.MockRandom.QueueString("ROOM01")
	path := filepath.Join(s.T().TempDir(), "portal.json")

	alice, _ := s.app.SessionService.Create(s.ctx, "", "Alice", nil)
	rm, _ := s.app.RoomRegistry.Create(s.ctx, model.RoomPlayer{ID: alice.PlayerID, Username: "Alice"}, room.CreateParams{})
	_, _ = s.app.GameStateService.Set(s.ctx, rm.Code, json.RawMessage(`{"turn":3}`), "move", alice.PlayerID)

	keeper := persist.New(s.app.Memory, s.app.SessionService, s.app.MockClock, persist.Config{Path: path}, testutil.NopLogger())
	s.Require().NoError(keeper.Flush(s.ctx))

	// Simulate a restart: fresh app, load the same file
	restarted := NewTestApp()
	keeper2 := persist.New(restarted.Memory, restarted.SessionService, restarted.MockClock, persist.Config{Path: path}, testutil.NopLogger())
	s.Require().NoError(keeper2.Load(s.ctx))

	reloaded, err := restarted.RoomRegistry.Get(s.ctx, rm.Code)
	s.Require().NoError(err)
	s.Equal(rm.Name, reloaded.Name)

	state, err := restarted.GameStateService.Get(s.ctx, rm.Code)
	s.Require().NoError(err)
	s.Equal(int64(1), state.Version)
	s.JSONEq(`{"turn":3}`, string(state.State))

	session, err := restarted.SessionService.Get(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(alice.PlayerID, session.PlayerID)
}

// Test: the factory rejects a redis config-less redis request
func (s *IntegrationSuite) TestFactoryValidatesStorageType() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(Config{StorageType: "bogus"})
	s.Error(err)
}

func (s *IntegrationSuite) TestFactoryDefaultsToMemoryWithKeeper() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Keeper)
	s.NotNil(app.SessionService)
	s.NotNil(app.RoomRegistry)
	s.NotNil(app.GameStateService)
}
