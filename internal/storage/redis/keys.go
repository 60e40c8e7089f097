package redis

import (
	"fmt"

	"github.com/BorDevTech/games-server/internal/model"
)

// Key prefix for all portal data
const keyPrefix = "gamesrv"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// gameStateKey returns the Redis key for a GameState
func gameStateKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:gamestate:%s", keyPrefix, code)
}

// Scan patterns for listing
const (
	sessionScanPattern   = keyPrefix + ":session:*"
	roomScanPattern      = keyPrefix + ":room:*"
	gameStateScanPattern = keyPrefix + ":gamestate:*"
)
