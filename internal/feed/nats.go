package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/room"
)

// SubjectPrefix is the root of every room event subject
const SubjectPrefix = "sketch.rooms"

// Conn is the part of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
}

// Ensure *nats.Conn satisfies Conn
var _ Conn = (*nats.Conn)(nil)

// NATSPublisher publishes public room events as JSON, one subject per room
type NATSPublisher struct {
	conn   Conn
	logger *slog.Logger
}

// Ensure NATSPublisher implements Publisher
var _ room.Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher creates a publisher on an established connection
func NewNATSPublisher(conn Conn, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:   conn,
		logger: logger.With(slog.String("component", "nats_feed")),
	}
}

// Subject returns the subject events for a room are published on
func Subject(id model.RoomID) string {
	return fmt.Sprintf("%s.%s.events", SubjectPrefix, id)
}

// AllRoomsSubject matches the event subjects of every room
func AllRoomsSubject() string {
	return SubjectPrefix + ".*.events"
}

// Publish implements room.Publisher. Failures are logged and dropped.
func (p *NATSPublisher) Publish(e model.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("failed to encode event",
			slog.String("room_id", string(e.RoomID)),
			slog.String("type", string(e.Type)),
			slog.String("error", err.Error()))
		return
	}
	if err := p.conn.Publish(Subject(e.RoomID), data); err != nil {
		p.logger.Warn("failed to publish event",
			slog.String("room_id", string(e.RoomID)),
			slog.String("type", string(e.Type)),
			slog.String("error", err.Error()))
	}
}

// Connect dials a NATS server, retrying in the background if it is not up yet
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	logger = logger.With(slog.String("component", "nats"))
	opts := []nats.Option{
		nats.Name("sketchgame"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logger.Info("nats connection established", slog.String("url", url))
	return nc, nil
}
