package memory

import (
	"context"
	"sync"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/storage"
)

// maxResultsPerRoom bounds the kept history per room
const maxResultsPerRoom = 50

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms   map[model.RoomID]*model.RoomRecord
	results map[model.RoomID][]*model.GameResult
	words   []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:   make(map[model.RoomID]*model.RoomRecord),
		results: make(map[model.RoomID][]*model.GameResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room directory operations

func (s *Storage) SaveRoomRecord(ctx context.Context, record *model.RoomRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.rooms[record.ID] = &cp
	return nil
}

func (s *Storage) GetRoomRecord(ctx context.Context, id model.RoomID) (*model.RoomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *Storage) DeleteRoomRecord(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

// Game result operations

func (s *Storage) SaveGameResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *result
	cp.Standings = append([]model.Standing(nil), result.Standings...)

	list := append(s.results[result.RoomID], &cp)
	if len(list) > maxResultsPerRoom {
		list = list[len(list)-maxResultsPerRoom:]
	}
	s.results[result.RoomID] = list
	return nil
}

func (s *Storage) GetGameResults(ctx context.Context, id model.RoomID) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.results[id]
	out := make([]*model.GameResult, len(list))
	copy(out, list)
	return out, nil
}

// Word corpus operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrWordsNotLoaded
	}
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out, nil
}

func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]string, len(words))
	copy(s.words, words)
	return nil
}
