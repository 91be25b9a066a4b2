package room

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
)

const inboxSize = 1024

// Actor owns a Room and runs every operation on it from a single goroutine.
// Operations from transports, timer callbacks and classifier results are
// all queued on the same inbox.
type Actor struct {
	room   *Room
	clock  clock.Clock
	logger *slog.Logger

	inbox     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Ensure Actor implements Loop
var _ Loop = (*Actor)(nil)

// NewActor creates a room and starts its goroutine
func NewActor(id model.RoomID, cfg Config, deps Deps, hooks Hooks) *Actor {
	a := &Actor{
		clock:   deps.Clock,
		logger:  deps.Logger.With(slog.String("component", "room_actor"), slog.String("room_id", string(id))),
		inbox:   make(chan func(), inboxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	a.room = New(id, cfg, deps, a, hooks)
	go a.run()
	return a
}

func (a *Actor) run() {
	defer close(a.stopped)
	for {
		select {
		case fn := <-a.inbox:
			a.safely(func() error {
				fn()
				return nil
			})
		case <-a.done:
			a.safely(func() error {
				a.room.Close()
				return nil
			})
			return
		}
	}
}

// safely runs fn, converting a panic into a logged error so one bad
// operation cannot take down the process
func (a *Actor) safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("panic in room operation",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("room operation panicked: %v", rec)
		}
	}()
	return fn()
}

// post queues fn on the inbox, reporting false once the actor has stopped
func (a *Actor) post(fn func()) bool {
	select {
	case a.inbox <- fn:
		return true
	case <-a.done:
		return false
	}
}

// call runs fn on the room goroutine and waits for its result
func (a *Actor) call(fn func() error) error {
	reply := make(chan error, 1)
	if !a.post(func() { reply <- a.safely(fn) }) {
		return model.ErrRoomNotFound
	}
	select {
	case err := <-reply:
		return err
	case <-a.stopped:
		return model.ErrRoomNotFound
	}
}

// After implements Loop
func (a *Actor) After(d time.Duration, fn func()) clock.Timer {
	return a.clock.AfterFunc(d, func() {
		a.post(fn)
	})
}

// Go implements Loop
func (a *Actor) Go(task func() func()) {
	go func() {
		var cb func()
		err := a.safely(func() error {
			cb = task()
			return nil
		})
		if err != nil || cb == nil {
			return
		}
		a.post(cb)
	}()
}

// ID returns the room identifier
func (a *Actor) ID() model.RoomID {
	return a.room.ID()
}

// Create admits the creator of the room
func (a *Actor) Create(conn Connection, name, avatar string) (model.PlayerID, error) {
	var id model.PlayerID
	err := a.call(func() (err error) {
		id, err = a.room.Create(conn, name, avatar)
		return err
	})
	return id, err
}

// Join admits or restores a player
func (a *Actor) Join(conn Connection, name, avatar string) (model.PlayerID, error) {
	var id model.PlayerID
	err := a.call(func() (err error) {
		id, err = a.room.Join(conn, name, avatar)
		return err
	})
	return id, err
}

// StartGame starts a game of totalRounds rounds
func (a *Actor) StartGame(connID model.ConnID, totalRounds int) error {
	return a.call(func() error { return a.room.StartGame(connID, totalRounds) })
}

// PlayAgain resets a finished game
func (a *Actor) PlayAgain(connID model.ConnID) error {
	return a.call(func() error { return a.room.PlayAgain(connID) })
}

// ChooseWord picks the secret word
func (a *Actor) ChooseWord(connID model.ConnID, word string) error {
	return a.call(func() error { return a.room.ChooseWord(connID, word) })
}

// Guess submits a guess
func (a *Actor) Guess(connID model.ConnID, text string) error {
	return a.call(func() error { return a.room.Guess(connID, text) })
}

// StartPath appends a stroke
func (a *Actor) StartPath(connID model.ConnID, stroke model.Stroke) error {
	return a.call(func() error { return a.room.StartPath(connID, stroke) })
}

// ContinuePath replaces the current stroke
func (a *Actor) ContinuePath(connID model.ConnID, stroke model.Stroke) error {
	return a.call(func() error { return a.room.ContinuePath(connID, stroke) })
}

// Undo removes the last stroke
func (a *Actor) Undo(connID model.ConnID) error {
	return a.call(func() error { return a.room.Undo(connID) })
}

// ClearCanvas empties the canvas
func (a *Actor) ClearCanvas(connID model.ConnID) error {
	return a.call(func() error { return a.room.ClearCanvas(connID) })
}

// RequestScribbleCheck asks the classifier about the current drawing
func (a *Actor) RequestScribbleCheck(connID model.ConnID) error {
	return a.call(func() error { return a.room.RequestScribbleCheck(connID) })
}

// Disconnect marks the connection's player as gone
func (a *Actor) Disconnect(connID model.ConnID) error {
	return a.call(func() error { return a.room.Disconnect(connID) })
}

// View returns the masked room state
func (a *Actor) View() (model.RoomView, error) {
	var v model.RoomView
	err := a.call(func() error {
		v = a.room.View()
		return nil
	})
	return v, err
}

// Summary returns the listing entry for the room
func (a *Actor) Summary() (model.RoomSummary, error) {
	var s model.RoomSummary
	err := a.call(func() error {
		s = a.room.Summary()
		return nil
	})
	return s, err
}

// Close stops the room goroutine after cancelling its timers. It does not
// wait, so it is safe to call from a room callback.
func (a *Actor) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

// Wait blocks until the room goroutine has exited
func (a *Actor) Wait() {
	<-a.stopped
}
