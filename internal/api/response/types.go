package response

import (
	"encoding/json"
	"time"

	"github.com/BorDevTech/games-server/internal/model"
)

// Session represents a session in API responses. The wire format is
// camelCase, matching what the portal's browser clients expect.
type Session struct {
	SessionID    string    `json:"sessionId"`
	PlayerID     string    `json:"playerId"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	CurrentRoom  *string   `json:"currentRoom"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	var room *string
	if s.CurrentRoom != nil {
		r := string(*s.CurrentRoom)
		room = &r
	}
	return Session{
		SessionID:    string(s.ID),
		PlayerID:     string(s.PlayerID),
		Username:     s.Username,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		CurrentRoom:  room,
	}
}

// RoomPlayer represents a room member
type RoomPlayer struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	HandCount int    `json:"handCount"`
	IsHost    bool   `json:"isHost"`
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
}

// RoomPlayerFromModel converts a model.RoomPlayer
func RoomPlayerFromModel(p model.RoomPlayer) RoomPlayer {
	return RoomPlayer{
		ID:        string(p.ID),
		Username:  p.Username,
		HandCount: p.HandCount,
		IsHost:    p.IsHost,
		Status:    string(p.Status),
		Ready:     p.Ready,
	}
}

// RoomSettings represents room settings
type RoomSettings struct {
	GameID          string `json:"gameId,omitempty"`
	AllowSpectators bool   `json:"allowSpectators"`
}

// Room represents a room in API responses
type Room struct {
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	HostID     string       `json:"hostId"`
	Players    []RoomPlayer `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	InGame     bool         `json:"inGame"`
	Settings   RoomSettings `json:"settings"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	players := make([]RoomPlayer, len(r.Players))
	for i, p := range r.Players {
		players[i] = RoomPlayerFromModel(p)
	}
	return Room{
		Code:       string(r.Code),
		Name:       r.Name,
		Type:       string(r.Type),
		HostID:     string(r.HostID),
		Players:    players,
		MaxPlayers: r.MaxPlayers,
		InGame:     r.InGame,
		Settings: RoomSettings{
			GameID:          r.Settings.GameID,
			AllowSpectators: r.Settings.AllowSpectators,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RoomList wraps a list of rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of rooms
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]Room, len(rooms))}
	for i, r := range rooms {
		out.Rooms[i] = RoomFromModel(r)
	}
	return out
}

// GameState represents a game-state blob in API responses
type GameState struct {
	RoomCode     string          `json:"roomCode"`
	Version      int64           `json:"version"`
	State        json.RawMessage `json:"state"`
	LastAction   string          `json:"lastAction,omitempty"`
	LastPlayerID string          `json:"lastPlayerId,omitempty"`
	LastUpdated  time.Time       `json:"lastUpdated"`
	SyncedAt     time.Time       `json:"syncedAt"`
}

// GameStateFromModel converts a model.GameState
func GameStateFromModel(g *model.GameState) GameState {
	return GameState{
		RoomCode:     string(g.RoomCode),
		Version:      g.Version,
		State:        g.State,
		LastAction:   g.LastAction,
		LastPlayerID: string(g.LastPlayerID),
		LastUpdated:  g.LastUpdated,
		SyncedAt:     g.SyncedAt,
	}
}

// RoomDetail is a room together with its current game state, if any
type RoomDetail struct {
	Room
	GameState *GameState `json:"gameState,omitempty"`
}

// RoomDetailFromModel converts a room and optional state
func RoomDetailFromModel(r *model.Room, g *model.GameState) RoomDetail {
	detail := RoomDetail{Room: RoomFromModel(r)}
	if g != nil {
		gs := GameStateFromModel(g)
		detail.GameState = &gs
	}
	return detail
}

// DeleteResult reports whether a delete actually removed something
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// RealtimeInfo describes the (absent) realtime transport. Clients are
// expected to poll the REST endpoints at the advertised interval.
type RealtimeInfo struct {
	Available      bool   `json:"available"`
	Message        string `json:"message"`
	PollIntervalMs int    `json:"pollIntervalMs"`
}
