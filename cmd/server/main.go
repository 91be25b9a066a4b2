package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/mcoot/sketchgame/internal/api"
	"github.com/mcoot/sketchgame/internal/factory"
	"github.com/mcoot/sketchgame/internal/feed"
	"github.com/mcoot/sketchgame/internal/services/room"
	redisstorage "github.com/mcoot/sketchgame/internal/storage/redis"
)

const defaultWordsPath = "data/words.txt"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	roomCfg := room.DefaultConfig()
	if d, ok := durationEnv(logger, "ROOM_GRACE_PERIOD"); ok {
		roomCfg.GracePeriod = d
	}
	if d, ok := durationEnv(logger, "CLASSIFIER_TIMEOUT"); ok {
		roomCfg.ClassifierTimeout = d
	}

	cfg := factory.Config{
		WordsPath:     envOr("WORDS_PATH", defaultWordsPath),
		Logger:        logger,
		StorageType:   os.Getenv("STORAGE_TYPE"),
		Room:          roomCfg,
		ClassifierURL: os.Getenv("CLASSIFIER_URL"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			return 1
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	var nc *nats.Conn
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		var err error
		nc, err = feed.Connect(natsURL, logger)
		if err != nil {
			logger.Error("failed to connect to nats", slog.String("error", err.Error()))
			return 1
		}
		cfg.NATS = nc
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("word corpus ready",
		slog.String("source", string(app.Words.Source())),
		slog.Int("words", app.Words.WordCount()))

	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Registry:   app.Registry,
		HubManager: app.HubManager,
		Clock:      app.Clock,
		WebSocket:  app.WebSocket,
	})

	serverConfig := api.DefaultServerConfig()
	if port, ok := intEnv(logger, "PORT"); ok {
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)
	// Spectator streams never go idle on their own
	server.OnShutdown(app.HubManager.Close)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("application shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}
	if nc != nil {
		if err := nc.Drain(); err != nil {
			logger.Warn("nats drain failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
	return exitCode
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(logger *slog.Logger, key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("ignoring invalid duration", slog.String("key", key), slog.String("value", raw))
		return 0, false
	}
	return d, true
}

func intEnv(logger *slog.Logger, key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("ignoring invalid number", slog.String("key", key), slog.String("value", raw))
		return 0, false
	}
	return n, true
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
