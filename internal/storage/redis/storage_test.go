package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sketchgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomRecordTTL = time.Hour
	cfg.ResultsTTL = time.Hour
	cfg.MaxResultsPerRoom = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Room directory tests

func (s *StorageSuite) TestSaveAndGetRoomRecord() {
	record := &model.RoomRecord{
		ID:        "ABC123",
		CreatedBy: "Alice",
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	err := s.storage.SaveRoomRecord(s.ctx, record)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoomRecord(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(record.ID, retrieved.ID)
	s.Equal(record.CreatedBy, retrieved.CreatedBy)
	s.True(record.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetRoomRecordNotFound() {
	_, err := s.storage.GetRoomRecord(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoomRecord(s.ctx, &model.RoomRecord{ID: "ABC123"})

	exists, err = s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteRoomRecord() {
	_ = s.storage.SaveRoomRecord(s.ctx, &model.RoomRecord{ID: "ABC123"})

	err := s.storage.DeleteRoomRecord(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetRoomRecord(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomRecordTTL() {
	_ = s.storage.SaveRoomRecord(s.ctx, &model.RoomRecord{ID: "ABC123"})

	ttl := s.mini.TTL(roomKey("ABC123"))
	s.True(ttl > 0, "Room record should have TTL")
}

func (s *StorageSuite) TestRoomRecordExpires() {
	_ = s.storage.SaveRoomRecord(s.ctx, &model.RoomRecord{ID: "ABC123"})

	s.mini.FastForward(2 * time.Hour)

	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)
}

// Game result tests

func (s *StorageSuite) TestSaveAndGetGameResults() {
	result := &model.GameResult{
		RoomID: "ABC123",
		Rounds: 3,
		Standings: []model.Standing{
			{PlayerID: "p1", Name: "Alice", Score: 90},
			{PlayerID: "p2", Name: "Bob", Score: 40},
		},
	}

	err := s.storage.SaveGameResult(s.ctx, result)
	s.Require().NoError(err)

	results, err := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(3, results[0].Rounds)
	s.Equal("Alice", results[0].Winner().Name)
}

func (s *StorageSuite) TestGameResultsAreTrimmedToNewest() {
	for i := 1; i <= 5; i++ {
		_ = s.storage.SaveGameResult(s.ctx, &model.GameResult{RoomID: "ABC123", Rounds: i})
	}

	results, err := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(3, results[0].Rounds)
	s.Equal(5, results[2].Rounds)
}

func (s *StorageSuite) TestGameResultsTTL() {
	_ = s.storage.SaveGameResult(s.ctx, &model.GameResult{RoomID: "ABC123"})

	ttl := s.mini.TTL(resultsKey("ABC123"))
	s.True(ttl > 0, "Results should have TTL")
}

func (s *StorageSuite) TestGetGameResultsSkipsInvalidData() {
	_, _ = s.mini.Lpush(resultsKey("ABC123"), "not json")
	_ = s.storage.SaveGameResult(s.ctx, &model.GameResult{RoomID: "ABC123", Rounds: 1})

	results, err := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(results, 1)
}

// Word corpus tests

func (s *StorageSuite) TestSaveAndGetWords() {
	words := []string{"apple", "banana", "ice cream"}

	err := s.storage.SaveWords(s.ctx, words)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestGetWordsNotLoaded() {
	_, err := s.storage.GetWords(s.ctx)
	s.ErrorIs(err, model.ErrWordsNotLoaded)
}

func (s *StorageSuite) TestSaveWordsReplacesExisting() {
	_ = s.storage.SaveWords(s.ctx, []string{"apple", "banana"})
	_ = s.storage.SaveWords(s.ctx, []string{"cherry"})

	retrieved, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"cherry"}, retrieved)
}

func (s *StorageSuite) TestWordsNoTTL() {
	_ = s.storage.SaveWords(s.ctx, []string{"apple"})

	ttl := s.mini.TTL(wordsKey())
	s.Equal(time.Duration(0), ttl, "Word corpus should not have TTL")
}
