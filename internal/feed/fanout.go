// Package feed carries public room events out of the room goroutines to
// spectator streams and other server processes.
package feed

import (
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/room"
)

type roomCloser interface {
	RoomClosed(id model.RoomID)
}

// Fanout forwards every event to each of its publishers in order
type Fanout struct {
	publishers []room.Publisher
}

// Ensure Fanout implements Publisher
var _ room.Publisher = (*Fanout)(nil)

// NewFanout creates a Fanout over the given publishers, skipping nils
func NewFanout(publishers ...room.Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish implements room.Publisher
func (f *Fanout) Publish(e model.Event) {
	for _, p := range f.publishers {
		p.Publish(e)
	}
}

// RoomClosed forwards the notification to publishers that keep per-room state
func (f *Fanout) RoomClosed(id model.RoomID) {
	for _, p := range f.publishers {
		if rc, ok := p.(roomCloser); ok {
			rc.RoomClosed(id)
		}
	}
}

// Len returns the number of publishers
func (f *Fanout) Len() int {
	return len(f.publishers)
}
