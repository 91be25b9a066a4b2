package model

import "time"

// EventType identifies an outbound notification
type EventType string

const (
	// Room lifecycle
	EventRoomCreated EventType = "room-created"
	EventRoomJoined  EventType = "room-joined"
	EventStateUpdate EventType = "state-update"
	EventTimerUpdate EventType = "timer-update"

	// Private to the drawer
	EventWordChoicePrompt EventType = "word-choice-prompt"
	EventDrawerWord       EventType = "drawer-word"

	// Canvas
	EventPathStarted   EventType = "path-started"
	EventPathUpdated   EventType = "path-updated"
	EventPathUndone    EventType = "path-undone"
	EventCanvasCleared EventType = "canvas-cleared"
	EventCanvasSync    EventType = "canvas-sync"

	// Guessing
	EventGuessBroadcast EventType = "guess-broadcast"
	EventNearMissHint   EventType = "near-miss-hint"
	EventRoundEnded     EventType = "round-ended"

	EventSkipVoteSuggestion EventType = "skip-vote-suggestion"
	EventOperationError     EventType = "operation-error"
)

// Event is a notification produced by a room
type Event struct {
	Type      EventType `json:"type"`
	RoomID    RoomID    `json:"room_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// RoomCreatedPayload is sent to the creator of a room
type RoomCreatedPayload struct {
	RoomID   RoomID   `json:"room_id"`
	PlayerID PlayerID `json:"player_id"`
}

// RoomJoinedPayload is sent to a joining player
type RoomJoinedPayload struct {
	RoomID   RoomID   `json:"room_id"`
	PlayerID PlayerID `json:"player_id"`
	Rejoined bool     `json:"rejoined"`
}

// TimerUpdatePayload carries the countdown
type TimerUpdatePayload struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// WordChoicePromptPayload offers candidate words to the drawer
type WordChoicePromptPayload struct {
	Words   []string `json:"words"`
	Seconds int      `json:"seconds"`
}

// DrawerWordPayload reveals the secret word to the drawer
type DrawerWordPayload struct {
	Word string `json:"word"`
}

// StrokePayload carries a stroke for path-started and path-updated
type StrokePayload struct {
	Stroke Stroke `json:"stroke"`
}

// CanvasSyncPayload replays the drawing log to a (re)joining player
type CanvasSyncPayload struct {
	Strokes []Stroke `json:"strokes"`
}

// GuessBroadcastPayload relays an incorrect guess as a chat line
type GuessBroadcastPayload struct {
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

// NearMissHintPayload is private feedback for a close guess
type NearMissHintPayload struct {
	Message string `json:"message"`
}

// RoundEndedPayload reveals the word at the end of a round
type RoundEndedPayload struct {
	RevealedWord string         `json:"revealed_word"`
	Reason       RoundEndReason `json:"reason"`
}

// SkipVoteSuggestionPayload carries the classifier's reasoning
type SkipVoteSuggestionPayload struct {
	Reason string `json:"reason"`
}

// OperationErrorPayload reports a user-facing failure
type OperationErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
