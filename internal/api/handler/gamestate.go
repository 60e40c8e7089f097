package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BorDevTech/games-server/internal/api/apierr"
	"github.com/BorDevTech/games-server/internal/api/middleware"
	"github.com/BorDevTech/games-server/internal/api/request"
	"github.com/BorDevTech/games-server/internal/api/response"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/services/gamestate"
)

// GameStateHandler handles game-state endpoints
type GameStateHandler struct {
	states *gamestate.Service
	logger *slog.Logger
}

// NewGameStateHandler creates a new GameStateHandler
func NewGameStateHandler(states *gamestate.Service, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		states: states,
		logger: logger,
	}
}

// Get handles GET /api/game-state?roomId=
func (h *GameStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId query parameter is required"))
		return
	}

	state, err := h.states.Get(r.Context(), model.RoomCode(roomID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(state))
}

// Post handles POST /api/game-state?roomId=. With expectedVersion the
// write is compare-and-swap; without, last-writer-wins.
func (h *GameStateHandler) Post(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId query parameter is required"))
		return
	}

	var req request.GameStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if len(req.State) == 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("state is required"))
		return
	}

	code := model.RoomCode(roomID)
	var state *model.GameState
	var err error
	if req.ExpectedVersion != nil {
		state, err = h.states.Update(r.Context(), code, *req.ExpectedVersion, req.State, req.LastAction, sess.PlayerID)
	} else {
		state, err = h.states.Set(r.Context(), code, req.State, req.LastAction, sess.PlayerID)
	}
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(state))
}

// Delete handles DELETE /api/game-state?roomId=
func (h *GameStateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("roomId query parameter is required"))
		return
	}

	deleted, err := h.states.Delete(r.Context(), model.RoomCode(roomID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeleteResult{Deleted: deleted})
}
