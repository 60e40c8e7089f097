package model

import (
	"hash/fnv"
	"strings"
	"time"
)

// SessionID is the opaque token stored in the player's cookie
type SessionID string

// SessionTTL is how long a session stays live without activity
const SessionTTL = 24 * time.Hour

// Session binds an anonymous cookie token to a display name and,
// optionally, the room the player is currently in
type Session struct {
	ID           SessionID `json:"id"`
	PlayerID     PlayerID  `json:"playerId"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	CurrentRoom  *RoomCode `json:"currentRoom,omitempty"`
}

// Clone returns a copy sharing no mutable state with the receiver
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.CurrentRoom != nil {
		room := *s.CurrentRoom
		c.CurrentRoom = &room
	}
	return &c
}

// DerivePlayerID computes the stable player identity for a session token and
// username. The same token with the same username always yields the same id;
// changing the username rotates it. FNV-1a, deliberately non-cryptographic.
func DerivePlayerID(id SessionID, username string) PlayerID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(string(id) + strings.ToLower(username)))
	const hexdigits = "0123456789abcdef"
	sum := h.Sum64()
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexdigits[sum&0xf]
		sum >>= 4
	}
	return PlayerID("p_" + string(buf))
}
