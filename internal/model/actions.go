package model

import "encoding/json"

// ActionType identifies an inbound client action
type ActionType string

const (
	ActionCreateRoom           ActionType = "create-room"
	ActionJoinRoom             ActionType = "join-room"
	ActionStartGame            ActionType = "start-game"
	ActionPlayAgain            ActionType = "play-again"
	ActionWordChosen           ActionType = "word-chosen"
	ActionSubmitGuess          ActionType = "submit-guess"
	ActionStartPath            ActionType = "start-path"
	ActionContinuePath         ActionType = "continue-path"
	ActionUndo                 ActionType = "undo"
	ActionClearCanvas          ActionType = "clear-canvas"
	ActionRequestScribbleCheck ActionType = "request-scribble-check"
)

// Action is the envelope for every inbound message
type Action struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CreateRoomAction creates a room with the sender as owner
type CreateRoomAction struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// JoinRoomAction joins or rejoins an existing room
type JoinRoomAction struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	RoomID RoomID `json:"room_id"`
}

// StartGameAction starts a game; zero TotalRounds uses the room default
type StartGameAction struct {
	TotalRounds int `json:"total_rounds"`
}

// WordChosenAction is the drawer's pick from the offered words
type WordChosenAction struct {
	Word string `json:"word"`
}

// SubmitGuessAction is a guess or chat line
type SubmitGuessAction struct {
	Text string `json:"text"`
}

// PathAction carries a stroke for start-path and continue-path
type PathAction struct {
	Stroke Stroke `json:"stroke"`
}
