package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/room"
	"github.com/mcoot/sketchgame/internal/storage"
)

const (
	// RoomIDLength is the length of generated room codes
	RoomIDLength = 6
	// RoomIDAlphabet avoids characters that are easy to confuse when typed
	RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxIDAttempts  = 32
	storageTimeout = 5 * time.Second
)

// ErrNoFreeRoomID is returned when no unused room code could be generated
var ErrNoFreeRoomID = errors.New("could not allocate a room id")

// RoomCloser is implemented by publishers that keep per-room state
type RoomCloser interface {
	RoomClosed(id model.RoomID)
}

// Registry maps room codes to running rooms
type Registry struct {
	cfg     room.Config
	deps    room.Deps
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.RWMutex
	rooms  map[model.RoomID]*room.Actor
	closed bool
}

// New creates an empty registry. Every room it creates shares deps.
func New(cfg room.Config, deps room.Deps, storage storage.Storage, logger *slog.Logger) *Registry {
	return &Registry{
		cfg:     cfg,
		deps:    deps,
		storage: storage,
		logger:  logger.With(slog.String("component", "registry")),
		rooms:   make(map[model.RoomID]*room.Actor),
	}
}

// CreateRoom allocates a new room with the caller as its owner
func (r *Registry) CreateRoom(ctx context.Context, conn room.Connection, name, avatar string) (*room.Actor, model.PlayerID, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len([]rune(trimmed)) > r.cfg.MaxNameLength {
		return nil, "", model.ErrInvalidName
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, "", model.ErrRoomNotFound
	}
	id, err := r.allocateIDLocked(ctx)
	if err != nil {
		r.mu.Unlock()
		return nil, "", err
	}
	record := &model.RoomRecord{ID: id, CreatedBy: trimmed, CreatedAt: r.deps.Clock.Now()}
	if err := r.storage.SaveRoomRecord(ctx, record); err != nil {
		r.mu.Unlock()
		return nil, "", fmt.Errorf("reserve room %s: %w", id, err)
	}
	actor := room.NewActor(id, r.cfg, r.deps, r.hooks())
	r.rooms[id] = actor
	r.mu.Unlock()

	playerID, err := actor.Create(conn, name, avatar)
	if err != nil {
		r.remove(id)
		return nil, "", err
	}

	r.logger.Info("room created", slog.String("room_id", string(id)), slog.Int("rooms", r.Count()))
	return actor, playerID, nil
}

// JoinRoom adds the caller to an existing room, or restores their
// disconnected player
func (r *Registry) JoinRoom(conn room.Connection, id model.RoomID, name, avatar string) (*room.Actor, model.PlayerID, error) {
	actor, err := r.Get(id)
	if err != nil {
		return nil, "", err
	}
	playerID, err := actor.Join(conn, name, avatar)
	if err != nil {
		return nil, "", err
	}
	return actor, playerID, nil
}

// Get returns the running room with the given code
func (r *Registry) Get(id model.RoomID) (*room.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actor, ok := r.rooms[NormalizeID(id)]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return actor, nil
}

// List returns a summary of every running room ordered by code
func (r *Registry) List() []model.RoomSummary {
	r.mu.RLock()
	actors := make([]*room.Actor, 0, len(r.rooms))
	for _, a := range r.rooms {
		actors = append(actors, a)
	}
	r.mu.RUnlock()

	summaries := make([]model.RoomSummary, 0, len(actors))
	for _, a := range actors {
		s, err := a.Summary()
		if err != nil {
			// Closed between the snapshot and the call
			continue
		}
		summaries = append(summaries, s)
	}
	slices.SortFunc(summaries, func(a, b model.RoomSummary) int {
		return strings.Compare(string(a.RoomID), string(b.RoomID))
	})
	return summaries
}

// Count returns the number of running rooms
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Results returns the stored results of finished games in a room. Results
// outlive the room itself.
func (r *Registry) Results(ctx context.Context, id model.RoomID) ([]*model.GameResult, error) {
	return r.storage.GetGameResults(ctx, NormalizeID(id))
}

// Shutdown closes every room and waits for their goroutines to exit
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	actors := make([]*room.Actor, 0, len(r.rooms))
	for id, a := range r.rooms {
		actors = append(actors, a)
		delete(r.rooms, id)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, a := range actors {
			a.Close()
		}
		for _, a := range actors {
			a.Wait()
			r.forget(ctx, a.ID())
		}
	}()

	select {
	case <-done:
		r.logger.Info("registry shut down", slog.Int("rooms", len(actors)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NormalizeID upper-cases a typed room code
func NormalizeID(id model.RoomID) model.RoomID {
	return model.RoomID(strings.ToUpper(strings.TrimSpace(string(id))))
}

func (r *Registry) hooks() room.Hooks {
	return room.Hooks{
		OnAbandoned: r.remove,
		OnGameOver:  r.saveResult,
	}
}

// allocateIDLocked generates a code unused both here and in storage, which
// may be shared with other server processes
func (r *Registry) allocateIDLocked(ctx context.Context) (model.RoomID, error) {
	for range maxIDAttempts {
		id := model.RoomID(r.deps.Random.String(RoomIDLength, RoomIDAlphabet))
		if _, ok := r.rooms[id]; ok {
			continue
		}
		exists, err := r.storage.RoomExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", ErrNoFreeRoomID
}

// remove drops a room from the registry and releases its code
func (r *Registry) remove(id model.RoomID) {
	r.mu.Lock()
	actor, ok := r.rooms[id]
	delete(r.rooms, id)
	r.mu.Unlock()
	if !ok {
		return
	}

	actor.Close()
	r.forget(context.Background(), id)
	r.logger.Info("room removed", slog.String("room_id", string(id)), slog.Int("rooms", r.Count()))
}

// forget releases the stored room record and any per-room publisher state
func (r *Registry) forget(ctx context.Context, id model.RoomID) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	if err := r.storage.DeleteRoomRecord(ctx, id); err != nil {
		r.logger.Warn("failed to delete room record",
			slog.String("room_id", string(id)),
			slog.String("error", err.Error()))
	}
	if rc, ok := r.deps.Publisher.(RoomCloser); ok {
		rc.RoomClosed(id)
	}
}

func (r *Registry) saveResult(result model.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := r.storage.SaveGameResult(ctx, &result); err != nil {
		r.logger.Error("failed to save game result",
			slog.String("room_id", string(result.RoomID)),
			slog.String("error", err.Error()))
		return
	}
	r.logger.Info("game result saved", slog.String("room_id", string(result.RoomID)))
}
