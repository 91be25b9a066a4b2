package room

import (
	"github.com/mcoot/sketchgame/internal/model"
)

// drawer resolves the requester and checks they hold the pencil
func (r *Room) drawer(connID model.ConnID) (*model.Player, error) {
	p, err := r.requester(connID)
	if err != nil {
		return nil, err
	}
	if p.ID != r.drawerID {
		return nil, model.ErrNotAuthorized
	}
	if r.phase != model.PhaseDrawing {
		return nil, model.ErrInvalidPhase
	}
	return p, nil
}

// StartPath appends a new stroke to the canvas
func (r *Room) StartPath(connID model.ConnID, stroke model.Stroke) error {
	p, err := r.drawer(connID)
	if err != nil {
		return err
	}
	if err := r.canvas.Start(stroke); err != nil {
		return err
	}
	r.broadcastExcept(p.ID, r.event(model.EventPathStarted, model.StrokePayload{Stroke: stroke.Clone()}))
	return nil
}

// ContinuePath replaces the stroke being drawn
func (r *Room) ContinuePath(connID model.ConnID, stroke model.Stroke) error {
	p, err := r.drawer(connID)
	if err != nil {
		return err
	}
	ok, err := r.canvas.Continue(stroke)
	if err != nil || !ok {
		return err
	}
	r.broadcastExcept(p.ID, r.event(model.EventPathUpdated, model.StrokePayload{Stroke: stroke.Clone()}))
	return nil
}

// Undo removes the most recent stroke
func (r *Room) Undo(connID model.ConnID) error {
	p, err := r.drawer(connID)
	if err != nil {
		return err
	}
	if r.canvas.Undo() {
		r.broadcastExcept(p.ID, r.event(model.EventPathUndone, nil))
	}
	return nil
}

// ClearCanvas empties the drawing
func (r *Room) ClearCanvas(connID model.ConnID) error {
	p, err := r.drawer(connID)
	if err != nil {
		return err
	}
	r.canvas.Clear()
	r.broadcastExcept(p.ID, r.event(model.EventCanvasCleared, nil))
	return nil
}
