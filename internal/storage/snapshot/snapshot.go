// Package snapshot implements the on-disk JSON layout for the file-backed
// store: a single document holding the three key/value collections as
// [key, value] pairs plus a lastUpdated timestamp.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BorDevTech/games-server/internal/model"
)

// Data is the full persisted state of the portal
type Data struct {
	Rooms          []RoomEntry      `json:"rooms"`
	GameSessions   []GameStateEntry `json:"gameSessions"`
	PlayerSessions []SessionEntry   `json:"playerSessions"`
	LastUpdated    time.Time        `json:"lastUpdated"`
}

// RoomEntry is a [code, room] pair
type RoomEntry struct {
	Key   model.RoomCode
	Value *model.Room
}

// GameStateEntry is a [code, state] pair
type GameStateEntry struct {
	Key   model.RoomCode
	Value *model.GameState
}

// SessionEntry is a [token, session] pair
type SessionEntry struct {
	Key   model.SessionID
	Value *model.Session
}

func marshalPair(key, value any) ([]byte, error) {
	return json.Marshal([2]any{key, value})
}

func unmarshalPair(data []byte, key, value any) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], key); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], value)
}

// MarshalJSON encodes the entry as a [key, value] tuple
func (e RoomEntry) MarshalJSON() ([]byte, error) { return marshalPair(e.Key, e.Value) }

// UnmarshalJSON decodes a [key, value] tuple
func (e *RoomEntry) UnmarshalJSON(data []byte) error { return unmarshalPair(data, &e.Key, &e.Value) }

// MarshalJSON encodes the entry as a [key, value] tuple
func (e GameStateEntry) MarshalJSON() ([]byte, error) { return marshalPair(e.Key, e.Value) }

// UnmarshalJSON decodes a [key, value] tuple
func (e *GameStateEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &e.Key, &e.Value)
}

// MarshalJSON encodes the entry as a [key, value] tuple
func (e SessionEntry) MarshalJSON() ([]byte, error) { return marshalPair(e.Key, e.Value) }

// UnmarshalJSON decodes a [key, value] tuple
func (e *SessionEntry) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &e.Key, &e.Value)
}

// Read loads a snapshot from disk. The caller decides how to treat a
// missing or corrupt file; both are expected on cold start.
func Read(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &data, nil
}

// Write persists a snapshot atomically: write to a temp file in the same
// directory, then rename over the target so readers never observe a
// partial document.
func Write(path string, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
