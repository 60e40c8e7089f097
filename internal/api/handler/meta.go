package handler

import (
	"net/http"

	"github.com/BorDevTech/games-server/internal/api/apierr"
	"github.com/BorDevTech/games-server/internal/api/response"
)

// PollIntervalMs is the polling cadence advertised to clients in place
// of a realtime transport
const PollIntervalMs = 2000

// MetaHandler handles the informational endpoints
type MetaHandler struct{}

// NewMetaHandler creates a new MetaHandler
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Websocket handles GET /api/websocket. There is no websocket transport;
// this endpoint tells clients so explicitly and points them at polling.
func (h *MetaHandler) Websocket(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.RealtimeInfo{
		Available:      false,
		Message:        "Realtime transport is not available; poll the REST endpoints instead",
		PollIntervalMs: PollIntervalMs,
	})
}

// Account handles /api/account. Persistent accounts do not exist; play
// is anonymous via sessions.
func (h *MetaHandler) Account(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotImplementedError("Accounts are not supported; play is anonymous via /api/session"))
}

// Health handles GET /api/health
func (h *MetaHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
