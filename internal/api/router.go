package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/numberparty/numberparty/internal/api/handler"
	apimiddleware "github.com/numberparty/numberparty/internal/api/middleware"
	"github.com/numberparty/numberparty/internal/api/sse"
	"github.com/numberparty/numberparty/internal/middleware"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/conn"
	"github.com/numberparty/numberparty/internal/services/engine"
	"github.com/numberparty/numberparty/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Registry    *registry.Registry
	Engine      *engine.Engine
	ConnManager *conn.Manager
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	AdminKey    apimiddleware.AdminKeyConfig
	CORSOrigins []string

	DefaultNumberRange model.NumberRange
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.Engine, cfg.ConnManager,
		cfg.HubManager, cfg.Broadcaster, cfg.DefaultNumberRange)
	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Engine, cfg.ConnManager,
		cfg.HubManager, cfg.Broadcaster)
	eventsHandler := handler.NewEventsHandler(cfg.Registry, cfg.ConnManager,
		cfg.HubManager, cfg.Broadcaster)

	adminKeyMiddleware := apimiddleware.AdminKey(cfg.AdminKey)
	connTokenMiddleware := apimiddleware.ConnToken()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.CORS(cfg.CORSOrigins))

	// Room creation and admin recovery re-authenticate with the admin key
	keyed := api.PathPrefix("/rooms").Subrouter()
	keyed.Use(adminKeyMiddleware)
	keyed.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	keyed.HandleFunc("/{code}/admin/reconnect", roomHandler.AdminReconnect).Methods(http.MethodPost)

	// Joining needs no credentials; it mints the player's token
	api.HandleFunc("/rooms/{code}/join", playerHandler.Join).Methods(http.MethodPost)

	// Everything else presents a previously minted token
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(connTokenMiddleware)

	// Admin commands
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/operations", roomHandler.Operation).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/sacrifice", roomHandler.Sacrifice).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/end", roomHandler.End).Methods(http.MethodPost)

	// Player commands
	rooms.HandleFunc("/{code}/guesses", playerHandler.Guesses).Methods(http.MethodPut)
	rooms.HandleFunc("/{code}/bet", playerHandler.Bet).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/submit", playerHandler.Submit).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reconnect", playerHandler.Reconnect).Methods(http.MethodPost)

	// Event stream
	rooms.HandleFunc("/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
