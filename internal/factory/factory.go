package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/feed"
	"github.com/mcoot/sketchgame/internal/services/registry"
	"github.com/mcoot/sketchgame/internal/services/room"
	"github.com/mcoot/sketchgame/internal/services/scoring"
	"github.com/mcoot/sketchgame/internal/services/scribble"
	"github.com/mcoot/sketchgame/internal/services/wordbank"
	"github.com/mcoot/sketchgame/internal/storage"
	"github.com/mcoot/sketchgame/internal/storage/memory"
	redisstorage "github.com/mcoot/sketchgame/internal/storage/redis"
	"github.com/mcoot/sketchgame/internal/web/sse"
	"github.com/mcoot/sketchgame/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock      clock.Clock
	Random     random.Random
	Classifier scribble.Classifier

	// Services
	Words      *wordbank.Service
	Registry   *registry.Registry
	HubManager *sse.HubManager
	Feed       *feed.Fanout
	WebSocket  *ws.Handler

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// WordsPath is the word corpus file (optional)
	// If empty, the corpus is loaded from storage or the built-in list
	WordsPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Room holds gameplay timings and limits
	// If zero value, defaults to room.DefaultConfig()
	Room room.Config
	// ClassifierURL is the scribble classifier endpoint (optional)
	// If empty, scribble checks are disabled
	ClassifierURL string
	// NATS receives public room events when set (optional)
	NATS feed.Conn
	// WebSocket holds socket limits
	// If zero value, defaults to ws.DefaultConfig()
	WebSocket ws.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), cfg, logger)
	app.Words.Load(context.Background(), cfg.WordsPath)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	roomCfg := cfg.Room
	if roomCfg == (room.Config{}) {
		roomCfg = room.DefaultConfig()
	}
	wsCfg := cfg.WebSocket
	if wsCfg.MessagesPerSecond == 0 {
		wsCfg = ws.DefaultConfig()
	}

	var classifier scribble.Classifier = scribble.Disabled{}
	if cfg.ClassifierURL != "" {
		classifier = scribble.NewClient(cfg.ClassifierURL, roomCfg.ClassifierTimeout, logger)
	}

	hubManager := sse.NewHubManager(logger)
	publishers := []room.Publisher{hubManager}
	if cfg.NATS != nil {
		publishers = append(publishers, feed.NewNATSPublisher(cfg.NATS, logger))
	}
	fanout := feed.NewFanout(publishers...)

	words := wordbank.New(store, rnd, logger)
	reg := registry.New(roomCfg, room.Deps{
		Words:      words,
		Scoring:    scoring.DefaultPolicy(),
		Classifier: classifier,
		Publisher:  fanout,
		Clock:      clk,
		Random:     rnd,
		Logger:     logger,
	}, store, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Classifier: classifier,
		Words:      words,
		Registry:   reg,
		HubManager: hubManager,
		Feed:       fanout,
		WebSocket:  ws.NewHandler(reg, clk, logger, wsCfg),
		logger:     logger,
	}
}

// Shutdown closes every room and spectator stream
func (a *App) Shutdown(ctx context.Context) error {
	start := time.Now()
	err := a.Registry.Shutdown(ctx)
	a.HubManager.Close()
	if closer, ok := a.Storage.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	a.logger.Info("application shut down", slog.Duration("duration", time.Since(start)))
	return err
}
