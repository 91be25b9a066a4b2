package storage

import (
	"context"

	"github.com/mcoot/sketchgame/internal/model"
)

// Storage defines the interface for data that outlives a single room
// instance: the room ID directory, finished game results and the word
// corpus. Live room state is never stored.
type Storage interface {
	// Room directory operations
	SaveRoomRecord(ctx context.Context, record *model.RoomRecord) error
	GetRoomRecord(ctx context.Context, id model.RoomID) (*model.RoomRecord, error)
	DeleteRoomRecord(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)

	// Game result operations, newest last
	SaveGameResult(ctx context.Context, result *model.GameResult) error
	GetGameResults(ctx context.Context, id model.RoomID) ([]*model.GameResult, error)

	// Word corpus operations
	GetWords(ctx context.Context) ([]string, error)
	SaveWords(ctx context.Context, words []string) error
}
