package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/BorDevTech/games-server/internal/dependencies/clock"
	"github.com/BorDevTech/games-server/internal/dependencies/random"
	"github.com/BorDevTech/games-server/internal/keyedmutex"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage"
)

// RoomCodeAlphabet is the characters used in room codes.
// Uppercase alphanumeric, matching the 6-character code format.
const RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry manages room lifecycle and membership. All read-check-write
// sequences for a room (join, leave, start) are serialized by a per-room
// mutex so concurrent joins can never overshoot MaxPlayers.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	locks *keyedmutex.KeyedMutex[model.RoomCode]
}

// NewRegistry creates a new room Registry
func NewRegistry(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
		locks:   keyedmutex.New[model.RoomCode](),
	}
}

// CreateParams holds the caller-supplied settings for a new room
type CreateParams struct {
	Name       string
	Type       model.RoomType
	MaxPlayers int
	Settings   model.RoomSettings
}

// Create makes a new room with the given player as sole member and host.
// The generated code is guaranteed unique among live rooms: generation
// retries until a free code is found.
func (r *Registry) Create(ctx context.Context, host model.RoomPlayer, params CreateParams) (*model.Room, error) {
	now := r.clock.Now()

	roomType := params.Type
	if roomType != model.RoomTypePrivate {
		roomType = model.RoomTypePublic
	}

	maxPlayers := params.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = model.DefaultRoomPlayers
	}
	if maxPlayers < model.MinRoomPlayers {
		maxPlayers = model.MinRoomPlayers
	}
	if maxPlayers > model.MaxRoomPlayers {
		maxPlayers = model.MaxRoomPlayers
	}

	var code model.RoomCode
	for {
		code = model.RoomCode(r.random.String(model.RoomCodeLength, RoomCodeAlphabet))
		exists, err := r.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	name := params.Name
	if name == "" {
		name = fmt.Sprintf("%s's room", host.Username)
	}

	host.IsHost = true
	host.Status = model.StatusWaiting
	host.JoinedAt = now

	room := &model.Room{
		Code:       code,
		Name:       name,
		Type:       roomType,
		HostID:     host.ID,
		Players:    []model.RoomPlayer{host},
		MaxPlayers: maxPlayers,
		InGame:     false,
		Settings:   params.Settings,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// CreateWithCode makes a room under a caller-chosen code. Used by the
// state sync path, where clients mint codes locally before the room
// exists server-side. The code must be 6 uppercase alphanumerics after
// normalization; a live room under that code is returned as-is.
func (r *Registry) CreateWithCode(ctx context.Context, code model.RoomCode, host model.RoomPlayer, params CreateParams) (*model.Room, error) {
	code = normalize(code)
	if !validCode(code) {
		return nil, model.ErrInvalidRoomCode
	}

	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	existing, err := r.storage.GetRoom(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrRoomNotFound) {
		return nil, err
	}

	now := r.clock.Now()

	maxPlayers := params.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = model.DefaultRoomPlayers
	}

	name := params.Name
	if name == "" {
		name = fmt.Sprintf("%s's room", host.Username)
	}

	host.IsHost = true
	host.Status = model.StatusWaiting
	host.JoinedAt = now

	room := &model.Room{
		Code:       code,
		Name:       name,
		Type:       model.RoomTypePublic,
		HostID:     host.ID,
		Players:    []model.RoomPlayer{host},
		MaxPlayers: maxPlayers,
		InGame:     false,
		Settings:   params.Settings,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func validCode(code model.RoomCode) bool {
	if len(code) != model.RoomCodeLength {
		return false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Get retrieves a room by code, case-insensitively
func (r *Registry) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return r.storage.GetRoom(ctx, normalize(code))
}

// Join adds a player to a room. Joining while a game is in progress makes
// the player a spectator. The capacity check and the append run under the
// room's mutex, so the last free seat goes to exactly one caller.
func (r *Registry) Join(ctx context.Context, code model.RoomCode, player model.RoomPlayer) (*model.Room, error) {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.GetPlayer(player.ID) != nil {
		return nil, model.ErrAlreadyInRoom
	}

	if !room.HasSeat() {
		return nil, model.ErrRoomFull
	}

	player.IsHost = false
	player.Ready = false
	player.JoinedAt = r.clock.Now()
	if room.InGame {
		if !room.Settings.AllowSpectators {
			return nil, model.ErrGameInProgress
		}
		player.Status = model.StatusSpectating
	} else {
		player.Status = model.StatusWaiting
	}

	room.Players = append(room.Players, player)
	room.UpdatedAt = r.clock.Now()

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Leave removes a player from a room. If the host leaves a non-empty
// room, the next-joined player is promoted; an empty room is deleted
// together with its game state.
func (r *Registry) Leave(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	member := room.GetPlayer(playerID)
	if member == nil {
		return model.ErrNotInRoom
	}
	wasHost := member.IsHost

	for i := range room.Players {
		if room.Players[i].ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		if err := r.storage.DeleteGameState(ctx, code); err != nil {
			return err
		}
		return r.storage.DeleteRoom(ctx, code)
	}

	if wasHost {
		// Players are ordered by join time, so index 0 is next in line
		room.Players[0].IsHost = true
		room.HostID = room.Players[0].ID
		r.logger.Info("host handoff",
			slog.String("room", string(code)),
			slog.String("new_host", string(room.HostID)),
		)
	}

	room.UpdatedAt = r.clock.Now()
	return r.storage.SaveRoom(ctx, room)
}

// SetReady updates a player's ready flag
func (r *Registry) SetReady(ctx context.Context, code model.RoomCode, playerID model.PlayerID, ready bool) (*model.Room, error) {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrNotInRoom
	}

	player.Ready = ready
	room.UpdatedAt = r.clock.Now()

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Start flips the room into its in-game state. Host only.
func (r *Registry) Start(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error) {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	host := room.GetHost()
	if host == nil || host.ID != playerID {
		return nil, model.ErrNotHost
	}
	if room.InGame {
		return nil, model.ErrGameInProgress
	}

	room.InGame = true
	for i := range room.Players {
		if room.Players[i].Status == model.StatusWaiting {
			room.Players[i].Status = model.StatusPlaying
		}
	}
	room.UpdatedAt = r.clock.Now()

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Finish returns the room to its waiting state after a game. Host only.
func (r *Registry) Finish(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error) {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	host := room.GetHost()
	if host == nil || host.ID != playerID {
		return nil, model.ErrNotHost
	}

	room.InGame = false
	for i := range room.Players {
		room.Players[i].Status = model.StatusWaiting
		room.Players[i].Ready = false
	}
	room.UpdatedAt = r.clock.Now()

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListPublic returns public rooms, oldest first
func (r *Registry) ListPublic(ctx context.Context) ([]*model.Room, error) {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	public := rooms[:0]
	for _, room := range rooms {
		if room.Type == model.RoomTypePublic {
			public = append(public, room)
		}
	}
	sortByAge(public)
	return public, nil
}

// ListAll returns every live room, oldest first. Admin/debug only.
func (r *Registry) ListAll(ctx context.Context) ([]*model.Room, error) {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	sortByAge(rooms)
	return rooms, nil
}

// Delete removes a room and its game state. Idempotent; reports whether a
// room was actually removed.
func (r *Registry) Delete(ctx context.Context, code model.RoomCode) (bool, error) {
	code = normalize(code)
	r.locks.Lock(code)
	defer r.locks.Unlock(code)

	exists, err := r.storage.RoomExists(ctx, code)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := r.storage.DeleteGameState(ctx, code); err != nil {
		return false, err
	}
	if err := r.storage.DeleteRoom(ctx, code); err != nil {
		return false, err
	}
	return true, nil
}

// QuickPlay joins the first public room with a free seat and no game in
// progress, creating a fresh public room when none qualifies. Candidates
// are re-checked under the room lock by Join, so a seat lost to a
// concurrent joiner just moves on to the next candidate.
func (r *Registry) QuickPlay(ctx context.Context, player model.RoomPlayer) (*model.Room, error) {
	rooms, err := r.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range rooms {
		if candidate.InGame || !candidate.HasSeat() {
			continue
		}
		room, err := r.Join(ctx, candidate.Code, player)
		switch {
		case err == nil:
			return room, nil
		case errors.Is(err, model.ErrAlreadyInRoom):
			// Already seated here; treat quick play as a no-op
			return r.Get(ctx, candidate.Code)
		case errors.Is(err, model.ErrRoomFull),
			errors.Is(err, model.ErrRoomNotFound),
			errors.Is(err, model.ErrGameInProgress):
			continue
		default:
			return nil, err
		}
	}

	return r.Create(ctx, player, CreateParams{
		Type:     model.RoomTypePublic,
		Settings: model.DefaultRoomSettings(),
	})
}

func normalize(code model.RoomCode) model.RoomCode {
	return model.NormalizeRoomCode(string(code))
}

func sortByAge(rooms []*model.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].Code < rooms[j].Code
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
}
