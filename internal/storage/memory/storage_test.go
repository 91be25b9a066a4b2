package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sketchgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Room directory tests

func (s *StorageSuite) TestSaveAndGetRoomRecord() {
	record := &model.RoomRecord{ID: "ABC123", CreatedBy: "Alice", CreatedAt: time.Now()}

	err := s.storage.SaveRoomRecord(s.ctx, record)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoomRecord(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(record.ID, retrieved.ID)
	s.Equal("Alice", retrieved.CreatedBy)
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

	exists, _ := s.storage.RoomExists(s.ctx, "ABC123")
	s.False(exists)
}

func (s *StorageSuite) TestSavedRecordIsCopied() {
	record := &model.RoomRecord{ID: "ABC123", CreatedBy: "Alice"}
	_ = s.storage.SaveRoomRecord(s.ctx, record)

	record.CreatedBy = "Mallory"

	retrieved, _ := s.storage.GetRoomRecord(s.ctx, "ABC123")
	s.Equal("Alice", retrieved.CreatedBy)
}

// Game result tests

func (s *StorageSuite) TestSaveAndGetGameResults() {
	first := &model.GameResult{RoomID: "ABC123", Rounds: 3, Standings: []model.Standing{{Name: "Alice", Score: 80}}}
	second := &model.GameResult{RoomID: "ABC123", Rounds: 2, Standings: []model.Standing{{Name: "Bob", Score: 40}}}

	s.Require().NoError(s.storage.SaveGameResult(s.ctx, first))
	s.Require().NoError(s.storage.SaveGameResult(s.ctx, second))

	results, err := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(3, results[0].Rounds)
	s.Equal("Bob", results[1].Winner().Name)
}

func (s *StorageSuite) TestGetGameResultsEmpty() {
	results, err := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *StorageSuite) TestGameResultsAreTrimmed() {
	for i := 0; i < maxResultsPerRoom+5; i++ {
		_ = s.storage.SaveGameResult(s.ctx, &model.GameResult{RoomID: "ABC123", Rounds: i})
	}

	results, _ := s.storage.GetGameResults(s.ctx, "ABC123")
	s.Len(results, maxResultsPerRoom)
	s.Equal(5, results[0].Rounds, "oldest entries should be dropped first")
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
