package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Room:
		o.printRoom(v)
	case RoomDetail:
		o.printRoomDetail(v)
	case RoomList:
		o.printRoomList(v)
	case GameState:
		o.printGameState(v)
	case DeleteResult:
		o.printDeleteResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	SessionID    string    `json:"sessionId"`
	PlayerID     string    `json:"playerId"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	CurrentRoom  *string   `json:"currentRoom"`
}

// RoomPlayer response type
type RoomPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
}

// Room response type
type Room struct {
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	HostID     string       `json:"hostId"`
	Players    []RoomPlayer `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	InGame     bool         `json:"inGame"`
}

// RoomDetail response type
type RoomDetail struct {
	Room
	GameState *GameState `json:"gameState,omitempty"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// GameState response type
type GameState struct {
	RoomCode    string          `json:"roomCode"`
	Version     int64           `json:"version"`
	State       json.RawMessage `json:"state"`
	LastAction  string          `json:"lastAction,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// DeleteResult response type
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.SessionID)
	fmt.Printf("Player: %s (%s)\n", s.Username, s.PlayerID)
	if s.CurrentRoom != nil {
		fmt.Printf("Room: %s\n", *s.CurrentRoom)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.Code, r.Name)
	fmt.Printf("Type: %s\n", r.Type)
	inGameStr := "waiting"
	if r.InGame {
		inGameStr = "in game"
	}
	fmt.Printf("State: %s\n", inGameStr)
	fmt.Printf("Players (%d/%d):\n", len(r.Players), r.MaxPlayers)
	for _, p := range r.Players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		readyStr := ""
		if p.Ready {
			readyStr = " [ready]"
		}
		fmt.Printf("  - %s (%s) - %s%s%s\n", p.Username, p.ID, p.Status, hostStr, readyStr)
	}
}

func (o *Output) printRoomDetail(d RoomDetail) {
	o.printRoom(d.Room)
	if d.GameState != nil {
		fmt.Println()
		o.printGameState(*d.GameState)
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No public rooms")
		return
	}
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		state := "waiting"
		if r.InGame {
			state = "in game"
		}
		fmt.Printf("  %s  %-20s %d/%d  %s\n", r.Code, r.Name, len(r.Players), r.MaxPlayers, state)
	}
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game State: %s (version %d)\n", g.RoomCode, g.Version)
	if g.LastAction != "" {
		fmt.Printf("Last Action: %s\n", g.LastAction)
	}
	fmt.Printf("Updated: %s\n", g.LastUpdated.Format(time.RFC3339))
	fmt.Printf("State: %s\n", string(g.State))
}

func (o *Output) printDeleteResult(d DeleteResult) {
	if d.Deleted {
		fmt.Println("Deleted")
	} else {
		fmt.Println("Nothing to delete")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
