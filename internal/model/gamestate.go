package model

import (
	"encoding/json"
	"time"
)

// GameState is the opaque per-room game payload, kept separate from room
// metadata so game logic can evolve independently of lobby logic. The
// State payload belongs to whichever game occupies the room and is never
// validated by the store.
type GameState struct {
	RoomCode     RoomCode        `json:"roomCode"`
	Version      int64           `json:"version"`
	State        json.RawMessage `json:"state"`
	LastAction   string          `json:"lastAction,omitempty"`
	LastPlayerID PlayerID        `json:"lastPlayerId,omitempty"`
	LastUpdated  time.Time       `json:"lastUpdated"`
	SyncedAt     time.Time       `json:"syncedAt"`
}

// Clone returns a copy sharing no mutable state with the receiver
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	c := *g
	if g.State != nil {
		c.State = append(json.RawMessage(nil), g.State...)
	}
	return &c
}
