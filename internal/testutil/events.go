package testutil

import (
	"sync"

	"github.com/mcoot/sketchgame/internal/model"
)

// EventLog records events in arrival order
type EventLog struct {
	mu     sync.Mutex
	events []model.Event
}

func (l *EventLog) record(e model.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// Events returns a copy of everything recorded
func (l *EventLog) Events() []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out
}

// OfType returns the recorded events of type t
func (l *EventLog) OfType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range l.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of recorded events of type t
func (l *EventLog) Count(t model.EventType) int {
	return len(l.OfType(t))
}

// Last returns the most recent event of type t
func (l *EventLog) Last(t model.EventType) (model.Event, bool) {
	events := l.OfType(t)
	if len(events) == 0 {
		return model.Event{}, false
	}
	return events[len(events)-1], true
}

// Reset forgets everything recorded so far
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// RecordingConn is a room connection that keeps every event it is sent
type RecordingConn struct {
	EventLog
	id model.ConnID
}

// NewRecordingConn creates a connection with the given id
func NewRecordingConn(id string) *RecordingConn {
	return &RecordingConn{id: model.ConnID(id)}
}

// ID returns the connection id
func (c *RecordingConn) ID() model.ConnID {
	return c.id
}

// Send records the event
func (c *RecordingConn) Send(e model.Event) {
	c.record(e)
}

// RecordingPublisher keeps every public event it is given
type RecordingPublisher struct {
	EventLog
}

// Publish records the event
func (p *RecordingPublisher) Publish(e model.Event) {
	p.record(e)
}
