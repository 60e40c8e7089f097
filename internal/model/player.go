package model

import "time"

// PlayerID uniquely identifies a player across the system.
// It is derived deterministically from the session token and username.
type PlayerID string

// PlayerStatus describes what a player is doing inside a room
type PlayerStatus string

const (
	StatusWaiting    PlayerStatus = "waiting"
	StatusPlaying    PlayerStatus = "playing"
	StatusSpectating PlayerStatus = "spectating"
	StatusInQueue    PlayerStatus = "in_queue"
)

// RoomPlayer is a player's membership in a room. It is owned by the Room
// and is not persisted independently.
type RoomPlayer struct {
	ID        PlayerID     `json:"id"`
	Username  string       `json:"username"`
	HandCount int          `json:"handCount"`
	IsHost    bool         `json:"isHost"`
	Status    PlayerStatus `json:"status"`
	Ready     bool         `json:"ready"`
	JoinedAt  time.Time    `json:"joinedAt"`
}
