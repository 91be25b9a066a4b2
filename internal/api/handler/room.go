package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mcoot/sketchgame/internal/api/apierr"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/registry"
	"github.com/mcoot/sketchgame/internal/web/sse"
)

// RoomHandler serves the read-only room endpoints. All play happens over
// the websocket.
type RoomHandler struct {
	registry   *registry.Registry
	hubManager *sse.HubManager
	clock      clock.Clock
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(reg *registry.Registry, hubManager *sse.HubManager, clk clock.Clock) *RoomHandler {
	return &RoomHandler{
		registry:   reg,
		hubManager: hubManager,
		clock:      clk,
	}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms := h.registry.List()
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms, Count: len(rooms)})
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := h.registry.Get(roomID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	view, err := actor.View()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// Results handles GET /api/v1/rooms/{id}/results. Results remain available
// after the room itself has been torn down.
func (h *RoomHandler) Results(w http.ResponseWriter, r *http.Request) {
	id := registry.NormalizeID(roomID(r))
	results, err := h.registry.Results(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if results == nil {
		results = []*model.GameResult{}
	}

	response.JSON(w, http.StatusOK, response.Results{RoomID: id, Games: results})
}

// Events handles GET /api/v1/rooms/{id}/events, a spectator stream of the
// room's public events starting with the current state
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	actor, err := h.registry.Get(roomID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	view, err := actor.View()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(actor.ID())
	// The room may have closed while the hub was being created
	if _, err := h.registry.Get(actor.ID()); err != nil {
		h.hubManager.RemoveHub(actor.ID())
		apierr.WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, hub, uuid.NewString(), model.Event{
		Type:      model.EventStateUpdate,
		RoomID:    actor.ID(),
		Timestamp: h.clock.Now(),
		Payload:   view,
	})
}

func roomID(r *http.Request) model.RoomID {
	return model.RoomID(mux.Vars(r)["id"])
}
