package response

import "github.com/mcoot/sketchgame/internal/model"

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

// RoomList is the response for listing rooms
type RoomList struct {
	Rooms []model.RoomSummary `json:"rooms"`
	Count int                 `json:"count"`
}

// Results lists the finished games of a room, most recent first
type Results struct {
	RoomID model.RoomID         `json:"room_id"`
	Games  []*model.GameResult `json:"games"`
}
