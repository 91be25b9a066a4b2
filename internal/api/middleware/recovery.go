package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/sketchgame/internal/api/apierr"
	"github.com/mcoot/sketchgame/internal/middleware"
)

// Recovery creates panic recovery middleware for the API. Websocket upgrade
// requests only get a status line; after a hijack net/http discards it.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	if websocket.IsWebSocketUpgrade(r) {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	apierr.WriteError(w, apierr.NewInternalError())
}
