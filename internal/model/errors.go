package model

import "errors"

// Common errors used across the application
var (
	// Session errors. A missing session is an expected outcome (expired or
	// never created), not a transport failure.
	ErrSessionNotFound = errors.New("session not found")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("player is already in room")
	ErrNotInRoom       = errors.New("player is not in room")
	ErrNotHost         = errors.New("player is not the host")
	ErrGameInProgress  = errors.New("game is in progress")
	ErrInvalidRoomCode = errors.New("invalid room code")

	// Game-state errors
	ErrGameStateNotFound = errors.New("game state not found")
	ErrVersionConflict   = errors.New("game state version conflict")
)
