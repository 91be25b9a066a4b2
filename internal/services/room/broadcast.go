package room

import (
	"github.com/mcoot/sketchgame/internal/model"
)

func (r *Room) event(t model.EventType, payload any) model.Event {
	return model.Event{
		Type:      t,
		RoomID:    r.id,
		Timestamp: r.deps.Clock.Now(),
		Payload:   payload,
	}
}

// broadcast sends e to every connected player and publishes it
func (r *Room) broadcast(e model.Event) {
	r.broadcastExcept("", e)
}

// broadcastExcept sends e to every connected player but skip, and publishes it
func (r *Room) broadcastExcept(skip model.PlayerID, e model.Event) {
	for _, p := range r.players {
		if p.ID == skip {
			continue
		}
		if conn, ok := r.conns[p.ID]; ok {
			conn.Send(e)
		}
	}
	r.deps.Publisher.Publish(e)
}

func (r *Room) broadcastState() {
	r.broadcast(r.event(model.EventStateUpdate, r.View()))
}

// sendTo delivers a private event to one player, if connected
func (r *Room) sendTo(id model.PlayerID, e model.Event) {
	if conn, ok := r.conns[id]; ok {
		conn.Send(e)
	}
}

func (r *Room) systemMessage(text string) {
	r.messages = append(r.messages, model.ChatMessage{
		Kind: model.MessageSystem,
		Text: text,
		At:   r.deps.Clock.Now(),
	})
}
