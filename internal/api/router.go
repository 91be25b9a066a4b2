package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sketchgame/internal/api/handler"
	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/services/registry"
	"github.com/mcoot/sketchgame/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Registry   *registry.Registry
	HubManager *sse.HubManager
	Clock      clock.Clock
	// WebSocket serves /ws; the route is omitted when nil
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.HubManager, cfg.Clock)
	healthHandler := handler.NewHealthHandler(cfg.Registry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/results", roomHandler.Results).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/events", roomHandler.Events).Methods(http.MethodGet)

	if cfg.WebSocket != nil {
		r.Handle("/ws", recoveryMiddleware(loggingMiddleware(cfg.WebSocket))).Methods(http.MethodGet)
	}

	return r
}
