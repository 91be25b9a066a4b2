package redis

import (
	"fmt"

	"github.com/mcoot/sketchgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sketch"

// roomKey returns the Redis key for a RoomRecord
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// resultsKey returns the Redis key for the LIST of game results of a room
func resultsKey(id model.RoomID) string {
	return fmt.Sprintf("%s:results:%s", keyPrefix, id)
}

// wordsKey returns the Redis key for the word corpus LIST
func wordsKey() string {
	return fmt.Sprintf("%s:words", keyPrefix)
}
