package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BorDevTech/games-server/internal/api/apierr"
	"github.com/BorDevTech/games-server/internal/api/middleware"
	"github.com/BorDevTech/games-server/internal/api/request"
	"github.com/BorDevTech/games-server/internal/api/response"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/services/room"
	"github.com/BorDevTech/games-server/internal/services/session"
)

// SessionCookieMaxAge is how long the browser keeps the session cookie.
// Longer than the server-side idle TTL so returning players present
// their old token and get a clean "expired" rather than a silent reset.
const SessionCookieMaxAge = 7 * 24 * time.Hour

// MaxUsernameLength bounds usernames on the way in
const MaxUsernameLength = 32

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessions *session.Service
	rooms    *room.Registry
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *session.Service, rooms *room.Registry, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		rooms:    rooms,
		logger:   logger,
	}
}

// Create handles POST /api/session. Create-or-refresh: an existing live
// token with the same username is refreshed, otherwise a new session is
// minted. The token travels back both in the body and as a cookie.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if len(username) > MaxUsernameLength {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username too long"))
		return
	}

	var roomCode *model.RoomCode
	if req.RoomID != "" {
		code := model.NormalizeRoomCode(req.RoomID)
		roomCode = &code
	}

	current := middleware.ExtractToken(r)

	// A username change rotates the player identity, so pull the old
	// player out of their room first; otherwise the departed identity
	// would hold its seat (or the host slot) forever
	if current != "" {
		existing, err := h.sessions.Get(r.Context(), current)
		if err == nil && existing.Username != username && existing.CurrentRoom != nil {
			err := h.rooms.Leave(r.Context(), *existing.CurrentRoom, existing.PlayerID)
			if err != nil && !errors.Is(err, model.ErrNotInRoom) && !errors.Is(err, model.ErrRoomNotFound) {
				apierr.WriteError(w, err)
				return
			}
		}
	}

	sess, err := h.sessions.Create(r.Context(), current, username, roomCode)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.setCookie(w, sess.ID)
	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Get handles GET /api/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Update handles PUT /api/session: moves the session between rooms.
// The target room must exist; a null roomId clears the field.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	var roomCode *model.RoomCode
	if req.RoomID != nil && *req.RoomID != "" {
		code := model.NormalizeRoomCode(*req.RoomID)
		if _, err := h.rooms.Get(r.Context(), code); err != nil {
			apierr.WriteError(w, err)
			return
		}
		roomCode = &code
	}

	updated, err := h.sessions.SetCurrentRoom(r.Context(), sess.ID, roomCode)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(updated))
}

// Delete handles DELETE /api/session: logs the player out. If the player
// was in a room they leave it first, triggering host handoff or room
// cleanup as usual.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if sess.CurrentRoom != nil {
		err := h.rooms.Leave(r.Context(), *sess.CurrentRoom, sess.PlayerID)
		if err != nil && !errors.Is(err, model.ErrNotInRoom) && !errors.Is(err, model.ErrRoomNotFound) {
			apierr.WriteError(w, err)
			return
		}
	}

	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.clearCookie(w)
	response.NoContent(w)
}

func (h *SessionHandler) setCookie(w http.ResponseWriter, id model.SessionID) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    string(id),
		Path:     "/",
		MaxAge:   int(SessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *SessionHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
