package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BorDevTech/games-server/internal/api/apierr"
	"github.com/BorDevTech/games-server/internal/api/middleware"
	"github.com/BorDevTech/games-server/internal/api/request"
	"github.com/BorDevTech/games-server/internal/api/response"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/services/gamestate"
	"github.com/BorDevTech/games-server/internal/services/room"
	"github.com/BorDevTech/games-server/internal/services/session"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms    *room.Registry
	states   *gamestate.Service
	sessions *session.Service
	logger   *slog.Logger
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(rooms *room.Registry, states *gamestate.Service, sessions *session.Service, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		states:   states,
		sessions: sessions,
		logger:   logger,
	}
}

// Get handles GET /api/rooms. With ?roomId= it returns that room plus
// its game state; without, the public room list.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		rooms, err := h.rooms.ListPublic(r.Context())
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
		return
	}

	code := model.NormalizeRoomCode(roomID)
	rm, err := h.rooms.Get(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	state, err := h.states.Get(r.Context(), code)
	if err != nil && !errors.Is(err, model.ErrGameStateNotFound) {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomDetailFromModel(rm, state))
}

// Post handles POST /api/rooms. Two request shapes share this endpoint:
// the lobby shape creates a room with a fresh code; the sync shape
// (roomId + roomState) upserts the room's game-state blob, creating the
// room under the client-chosen code when it does not exist yet.
func (h *RoomHandler) Post(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	if len(req.RoomState) > 0 {
		h.sync(w, r, sess, req)
		return
	}

	params := room.CreateParams{
		Name:       req.Name,
		Type:       model.RoomType(req.Type),
		MaxPlayers: req.MaxPlayers,
		Settings:   model.DefaultRoomSettings(),
	}
	if req.Settings != nil {
		if req.Settings.GameID != "" {
			params.Settings.GameID = req.Settings.GameID
		}
		if req.Settings.AllowSpectators != nil {
			params.Settings.AllowSpectators = *req.Settings.AllowSpectators
		}
	}

	rm, err := h.rooms.Create(r.Context(), playerFromSession(sess), params)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if _, err := h.sessions.SetCurrentRoom(r.Context(), sess.ID, &rm.Code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}

// sync is the legacy state-push path behind POST /api/rooms
func (h *RoomHandler) sync(w http.ResponseWriter, r *http.Request, sess *model.Session, req request.CreateRoomRequest) {
	if req.RoomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId is required with roomState"))
		return
	}

	code := model.NormalizeRoomCode(req.RoomID)
	rm, err := h.rooms.CreateWithCode(r.Context(), code, playerFromSession(sess), room.CreateParams{
		Settings: model.DefaultRoomSettings(),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	state, err := h.states.Set(r.Context(), rm.Code, req.RoomState, "sync", sess.PlayerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomDetailFromModel(rm, state))
}

// Delete handles DELETE /api/rooms?roomId=
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId query parameter is required"))
		return
	}

	deleted, err := h.rooms.Delete(r.Context(), model.NormalizeRoomCode(roomID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeleteResult{Deleted: deleted})
}

// Join handles POST /api/rooms/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.RoomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId is required"))
		return
	}

	rm, err := h.rooms.Join(r.Context(), model.RoomCode(req.RoomID), playerFromSession(sess))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if _, err := h.sessions.SetCurrentRoom(r.Context(), sess.ID, &rm.Code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leave handles POST /api/rooms/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.RoomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId is required"))
		return
	}

	if err := h.rooms.Leave(r.Context(), model.RoomCode(req.RoomID), sess.PlayerID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if _, err := h.sessions.SetCurrentRoom(r.Context(), sess.ID, nil); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Ready handles POST /api/rooms/ready
func (h *RoomHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.RoomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId is required"))
		return
	}

	rm, err := h.rooms.SetReady(r.Context(), model.RoomCode(req.RoomID), sess.PlayerID, req.Ready)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Start handles POST /api/rooms/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.RoomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId is required"))
		return
	}

	rm, err := h.rooms.Start(r.Context(), model.RoomCode(req.RoomID), sess.PlayerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// QuickPlay handles POST /api/rooms/quickplay
func (h *RoomHandler) QuickPlay(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	rm, err := h.rooms.QuickPlay(r.Context(), playerFromSession(sess))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if _, err := h.sessions.SetCurrentRoom(r.Context(), sess.ID, &rm.Code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

func playerFromSession(sess *model.Session) model.RoomPlayer {
	return model.RoomPlayer{
		ID:       sess.PlayerID,
		Username: sess.Username,
	}
}
