package request

import "encoding/json"

// CreateSessionRequest is the request body for creating/updating a session
type CreateSessionRequest struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId,omitempty"`
}

// UpdateSessionRequest is the request body for updating the current room.
// A null roomId clears it.
type UpdateSessionRequest struct {
	RoomID *string `json:"roomId"`
}

// RoomSettings mirrors model.RoomSettings on the wire
type RoomSettings struct {
	GameID          string `json:"gameId,omitempty"`
	AllowSpectators *bool  `json:"allowSpectators,omitempty"`
}

// CreateRoomRequest is the request body for POST /api/rooms. Two shapes
// are accepted: a lobby-create request (name/type/maxPlayers), or the
// legacy sync shape carrying roomId + roomState, which upserts the
// room's game-state blob.
type CreateRoomRequest struct {
	Name       string        `json:"name,omitempty"`
	Type       string        `json:"type,omitempty"`
	MaxPlayers int           `json:"maxPlayers,omitempty"`
	Settings   *RoomSettings `json:"settings,omitempty"`

	RoomID    string          `json:"roomId,omitempty"`
	RoomState json.RawMessage `json:"roomState,omitempty"`
}

// JoinRoomRequest is the request body for joining or leaving a room
type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

// ReadyRequest is the request body for toggling ready state
type ReadyRequest struct {
	RoomID string `json:"roomId"`
	Ready  bool   `json:"ready"`
}

// StartRequest is the request body for starting a game
type StartRequest struct {
	RoomID string `json:"roomId"`
}

// GameStateRequest is the request body for writing game state. When
// expectedVersion is present the write is compare-and-swap; otherwise it
// is an unconditional overwrite.
type GameStateRequest struct {
	State           json.RawMessage `json:"state"`
	LastAction      string          `json:"lastAction,omitempty"`
	ExpectedVersion *int64          `json:"expectedVersion,omitempty"`
}
