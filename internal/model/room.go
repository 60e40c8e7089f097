package model

import (
	"strings"
	"time"
)

// RoomCode is the 6-character join code identifying a room.
// Codes are uppercase alphanumeric and case-normalized at every boundary.
type RoomCode string

// RoomCodeLength is the length of generated room codes
const RoomCodeLength = 6

// RoomType controls whether a room is listed for quick play
type RoomType string

const (
	RoomTypePublic  RoomType = "public"
	RoomTypePrivate RoomType = "private"
)

// Room capacity bounds; Create clamps requested sizes into this range
const (
	MinRoomPlayers     = 2
	MaxRoomPlayers     = 10
	DefaultRoomPlayers = 4
)

// RoomSettings holds game-agnostic lobby settings
type RoomSettings struct {
	GameID          string `json:"gameId,omitempty"`
	AllowSpectators bool   `json:"allowSpectators"`
}

// DefaultRoomSettings returns the default settings for new rooms
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		AllowSpectators: true,
	}
}

// Room is a capacity-bounded grouping of players waiting to play or
// playing a single game instance
type Room struct {
	Code       RoomCode     `json:"code"`
	Name       string       `json:"name"`
	Type       RoomType     `json:"type"`
	HostID     PlayerID     `json:"hostId"`
	Players    []RoomPlayer `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	InGame     bool         `json:"inGame"`
	Settings   RoomSettings `json:"settings"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// NormalizeRoomCode uppercases and trims a raw room code
func NormalizeRoomCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// Clone returns a copy sharing no mutable state with the receiver
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = make([]RoomPlayer, len(r.Players))
	copy(c.Players, r.Players)
	return &c
}

// GetPlayer returns the player with the given id, or nil if not present
func (r *Room) GetPlayer(id PlayerID) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// GetHost returns the current host, or nil if the room has none
func (r *Room) GetHost() *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].IsHost {
			return &r.Players[i]
		}
	}
	return nil
}

// HasSeat reports whether another player can take a seat
func (r *Room) HasSeat() bool {
	return len(r.Players) < r.MaxPlayers
}
