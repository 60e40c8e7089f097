package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BorDevTech/games-server/internal/api/handler"
	apimiddleware "github.com/BorDevTech/games-server/internal/api/middleware"
	"github.com/BorDevTech/games-server/internal/middleware"
	"github.com/BorDevTech/games-server/internal/services/gamestate"
	"github.com/BorDevTech/games-server/internal/services/room"
	"github.com/BorDevTech/games-server/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	SessionService   *session.Service
	RoomRegistry     *room.Registry
	GameStateService *gamestate.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionService, cfg.RoomRegistry, cfg.Logger)
	roomHandler := handler.NewRoomHandler(cfg.RoomRegistry, cfg.GameStateService, cfg.SessionService, cfg.Logger)
	stateHandler := handler.NewGameStateHandler(cfg.GameStateService, cfg.Logger)
	metaHandler := handler.NewMetaHandler()

	requireSession := apimiddleware.RequireSession(cfg.SessionService)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger, apimiddleware.PanicHandler))
	api.Use(middleware.RequestID())
	api.Use(middleware.Logging(cfg.Logger))

	// Session bootstrap (no auth: this is how a session comes to exist)
	api.HandleFunc("/session", sessionHandler.Create).Methods(http.MethodPost)

	// Session management (requires the session being managed)
	sessionProtected := api.PathPrefix("/session").Subrouter()
	sessionProtected.Use(requireSession)
	sessionProtected.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessionProtected.HandleFunc("", sessionHandler.Update).Methods(http.MethodPut)
	sessionProtected.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)

	// Room browsing is public; everything that mutates needs a session
	api.HandleFunc("/rooms", roomHandler.Get).Methods(http.MethodGet)

	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(requireSession)
	rooms.HandleFunc("", roomHandler.Post).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.Delete).Methods(http.MethodDelete)
	rooms.HandleFunc("/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/ready", roomHandler.Ready).Methods(http.MethodPost)
	rooms.HandleFunc("/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/quickplay", roomHandler.QuickPlay).Methods(http.MethodPost)

	// Game state: reads are public for spectators, writes need a session
	api.HandleFunc("/game-state", stateHandler.Get).Methods(http.MethodGet)

	states := api.PathPrefix("/game-state").Subrouter()
	states.Use(requireSession)
	states.HandleFunc("", stateHandler.Post).Methods(http.MethodPost)
	states.HandleFunc("", stateHandler.Delete).Methods(http.MethodDelete)

	// Informational endpoints
	api.HandleFunc("/websocket", metaHandler.Websocket).Methods(http.MethodGet)
	api.HandleFunc("/account", metaHandler.Account)
	api.HandleFunc("/health", metaHandler.Health).Methods(http.MethodGet)

	return r
}
