package handler

import (
	"net/http"

	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/services/registry"
)

// HealthHandler reports liveness
type HealthHandler struct {
	registry *registry.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Rooms: h.registry.Count()})
}
