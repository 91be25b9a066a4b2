package room

import (
	"log/slog"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/scoring"
	"github.com/mcoot/sketchgame/internal/services/scribble"
)

// Connection is a player's transport handle
type Connection interface {
	ID() model.ConnID
	Send(event model.Event)
}

// Publisher receives every event that is visible to the whole room.
// Private events (word prompts, near-miss hints) are never published.
type Publisher interface {
	Publish(event model.Event)
}

// WordSource offers candidate words to drawers
type WordSource interface {
	PickChoices(n int) []string
}

// Loop schedules work onto the goroutine that owns a room
type Loop interface {
	// After runs fn on the room goroutine once d has elapsed
	After(d time.Duration, fn func()) clock.Timer
	// Go runs task on its own goroutine and then applies the callback it
	// returns on the room goroutine
	Go(task func() func())
}

// Hooks are invoked by a room on its own goroutine
type Hooks struct {
	// OnAbandoned fires when every player stayed disconnected for the grace period
	OnAbandoned func(id model.RoomID)
	// OnGameOver receives the final standings; it runs off the room goroutine
	OnGameOver func(result model.GameResult)
}

// Deps are the collaborators shared by all rooms
type Deps struct {
	Words      WordSource
	Scoring    scoring.Policy
	Classifier scribble.Classifier
	Publisher  Publisher
	Clock      clock.Clock
	Random     random.Random
	Logger     *slog.Logger
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}
