// Package ws is the player transport: one websocket per player, carrying
// JSON actions in and room events out.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/registry"
)

// errMalformedAction covers undecodable envelopes and payloads. It is not
// reported back to the client.
var errMalformedAction = errors.New("malformed action")

const createTimeout = 5 * time.Second

// Config tunes the socket limits
type Config struct {
	MessagesPerSecond float64
	Burst             int
	MaxMessageSize    int64
	CheckOrigin       func(r *http.Request) bool
}

// DefaultConfig allows a steady stream of stroke updates with short bursts
func DefaultConfig() Config {
	return Config{
		MessagesPerSecond: 60,
		Burst:             120,
		MaxMessageSize:    64 * 1024,
	}
}

// Handler upgrades HTTP requests to player sockets and routes their
// actions to rooms
type Handler struct {
	registry *registry.Registry
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler
func NewHandler(reg *registry.Registry, clk clock.Clock, logger *slog.Logger, cfg Config) *Handler {
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		registry: reg,
		clock:    clk,
		logger:   logger.With(slog.String("component", "ws")),
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		h.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(model.ConnID(uuid.NewString()), conn, h)
	h.logger.Info("ws client connected",
		slog.String("conn_id", string(client.id)),
		slog.String("remote_addr", r.RemoteAddr))

	go client.writePump()
	go client.readPump()
}

// dispatch decodes one inbound message and applies it
func (h *Handler) dispatch(c *Client, data []byte) {
	var action model.Action
	if err := json.Unmarshal(data, &action); err != nil {
		h.report(c, fmt.Errorf("%w: %w", errMalformedAction, err))
		return
	}
	if err := h.apply(c, action); err != nil {
		h.report(c, fmt.Errorf("%s: %w", action.Type, err))
	}
}

func (h *Handler) apply(c *Client, action model.Action) error {
	switch action.Type {
	case model.ActionCreateRoom:
		if c.actor != nil {
			return model.ErrAlreadyInRoom
		}
		p, err := decode[model.CreateRoomAction](action.Payload)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
		defer cancel()
		actor, _, err := h.registry.CreateRoom(ctx, c, p.Name, p.Avatar)
		if err != nil {
			return err
		}
		c.actor = actor
		return nil

	case model.ActionJoinRoom:
		if c.actor != nil {
			return model.ErrAlreadyInRoom
		}
		p, err := decode[model.JoinRoomAction](action.Payload)
		if err != nil {
			return err
		}
		actor, _, err := h.registry.JoinRoom(c, p.RoomID, p.Name, p.Avatar)
		if err != nil {
			return err
		}
		c.actor = actor
		return nil
	}

	if c.actor == nil {
		return model.ErrNotInRoom
	}
	err := h.applyInRoom(c, action)
	if errors.Is(err, model.ErrRoomNotFound) {
		// The room was torn down under us; allow joining another
		c.actor = nil
	}
	return err
}

func (h *Handler) applyInRoom(c *Client, action model.Action) error {
	a := c.actor
	switch action.Type {
	case model.ActionStartGame:
		p, err := decode[model.StartGameAction](action.Payload)
		if err != nil {
			return err
		}
		return a.StartGame(c.id, p.TotalRounds)

	case model.ActionPlayAgain:
		return a.PlayAgain(c.id)

	case model.ActionWordChosen:
		p, err := decode[model.WordChosenAction](action.Payload)
		if err != nil {
			return err
		}
		return a.ChooseWord(c.id, p.Word)

	case model.ActionSubmitGuess:
		p, err := decode[model.SubmitGuessAction](action.Payload)
		if err != nil {
			return err
		}
		return a.Guess(c.id, p.Text)

	case model.ActionStartPath:
		p, err := decode[model.PathAction](action.Payload)
		if err != nil {
			return err
		}
		return a.StartPath(c.id, p.Stroke)

	case model.ActionContinuePath:
		p, err := decode[model.PathAction](action.Payload)
		if err != nil {
			return err
		}
		return a.ContinuePath(c.id, p.Stroke)

	case model.ActionUndo:
		return a.Undo(c.id)

	case model.ActionClearCanvas:
		return a.ClearCanvas(c.id)

	case model.ActionRequestScribbleCheck:
		return a.RequestScribbleCheck(c.id)
	}
	return fmt.Errorf("%w: unknown action type %q", errMalformedAction, action.Type)
}

// disconnect removes the client's player from its room, if any
func (h *Handler) disconnect(c *Client) {
	h.logger.Info("ws client disconnected", slog.String("conn_id", string(c.id)))
	if c.actor == nil {
		return
	}
	if err := c.actor.Disconnect(c.id); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		h.logger.Warn("failed to disconnect player",
			slog.String("conn_id", string(c.id)),
			slog.String("room_id", string(c.actor.ID())),
			slog.String("error", err.Error()))
	}
	c.actor = nil
}

// report sends user-facing errors back as operation-error events and logs
// everything else
func (h *Handler) report(c *Client, err error) {
	switch {
	case model.IsUserFacing(err):
		var roomID model.RoomID
		if c.actor != nil {
			roomID = c.actor.ID()
		}
		c.Send(model.Event{
			Type:      model.EventOperationError,
			RoomID:    roomID,
			Timestamp: h.clock.Now(),
			Payload:   model.OperationError(err),
		})
	case errors.Is(err, model.ErrNotAuthorized),
		errors.Is(err, model.ErrInvalidPhase),
		errors.Is(err, model.ErrInvalidStroke),
		errors.Is(err, errMalformedAction):
		c.logger.Debug("ws action ignored", slog.String("error", err.Error()))
	default:
		c.logger.Error("ws action failed", slog.String("error", err.Error()))
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %w", errMalformedAction, err)
	}
	return v, nil
}
