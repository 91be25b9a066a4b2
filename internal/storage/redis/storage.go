package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room directory operations

func (s *Storage) SaveRoomRecord(ctx context.Context, record *model.RoomRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roomKey(record.ID), data, s.cfg.RoomRecordTTL).Err()
}

func (s *Storage) GetRoomRecord(ctx context.Context, id model.RoomID) (*model.RoomRecord, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var record model.RoomRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) DeleteRoomRecord(ctx context.Context, id model.RoomID) error {
	return s.client.Del(ctx, roomKey(id)).Err()
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Game result operations

func (s *Storage) SaveGameResult(ctx context.Context, result *model.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := resultsKey(result.RoomID)

	// Append, trim to the newest entries and refresh the TTL together
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if s.cfg.MaxResultsPerRoom > 0 {
		pipe.LTrim(ctx, key, -s.cfg.MaxResultsPerRoom, -1)
	}
	if s.cfg.ResultsTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.ResultsTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameResults(ctx context.Context, id model.RoomID) ([]*model.GameResult, error) {
	values, err := s.client.LRange(ctx, resultsKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.GameResult, 0, len(values))
	for _, val := range values {
		var result model.GameResult
		if err := json.Unmarshal([]byte(val), &result); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &result)
	}
	return results, nil
}

// Word corpus operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	words, err := s.client.LRange(ctx, wordsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrWordsNotLoaded
	}
	return words, nil
}

func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	key := wordsKey()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(words) > 0 {
		values := make([]any, len(words))
		for i, w := range words {
			values[i] = w
		}
		pipe.RPush(ctx, key, values...)
	}
	_, err := pipe.Exec(ctx)
	return err
}
