package model

import "time"

// RoomID is a short, human-typeable room identifier
type RoomID string

// Phase is the state of the per-room round machine
type Phase string

const (
	PhaseIdle         Phase = "idle"          // No active round
	PhaseChoosingWord Phase = "choosing_word" // Drawer is picking a word
	PhaseDrawing      Phase = "drawing"       // Countdown running, guesses accepted
	PhaseRoundEnding  Phase = "round_ending"  // Word revealed, cooling down
)

// RoundEndReason explains why a round finished
type RoundEndReason string

const (
	RoundEndGuessed RoundEndReason = "guessed"
	RoundEndTimeout RoundEndReason = "timeout"
)

// MessageKind distinguishes chat log entries
type MessageKind string

const (
	MessageSystem MessageKind = "system"
	MessageGuess  MessageKind = "guess"
)

// ChatMessage is an entry in the per-round message log
type ChatMessage struct {
	Kind       MessageKind `json:"kind"`
	PlayerName string      `json:"player_name,omitempty"`
	Text       string      `json:"text"`
	At         time.Time   `json:"at"`
}

// RoomView is the state broadcast to every participant. It only ever
// carries the masked word.
type RoomView struct {
	RoomID           RoomID        `json:"room_id"`
	Phase            Phase         `json:"phase"`
	IsGameOver       bool          `json:"is_game_over"`
	Round            int           `json:"round"`
	TotalRounds      int           `json:"total_rounds"`
	OwnerID          PlayerID      `json:"owner_id"`
	DrawerID         PlayerID      `json:"drawer_id,omitempty"`
	MaskedWord       string        `json:"masked_word"`
	SecondsRemaining int           `json:"seconds_remaining"`
	Players          []Player      `json:"players"` // sorted by score descending
	Messages         []ChatMessage `json:"messages"`
}

// RoomSummary is a compact listing entry
type RoomSummary struct {
	RoomID           RoomID `json:"room_id"`
	Phase            Phase  `json:"phase"`
	IsGameOver       bool   `json:"is_game_over"`
	Round            int    `json:"round"`
	TotalRounds      int    `json:"total_rounds"`
	PlayerCount      int    `json:"player_count"`
	ConnectedPlayers int    `json:"connected_players"`
}

// RoomRecord reserves a room identifier in storage
type RoomRecord struct {
	ID        RoomID    `json:"id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Standing is one line of a final scoreboard
type Standing struct {
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
}

// GameResult records a completed game
type GameResult struct {
	RoomID     RoomID     `json:"room_id"`
	Rounds     int        `json:"rounds"`
	Standings  []Standing `json:"standings"` // sorted by score descending
	FinishedAt time.Time  `json:"finished_at"`
}

// Winner returns the top standing, or nil for an empty result
func (g *GameResult) Winner() *Standing {
	if len(g.Standings) == 0 {
		return nil
	}
	return &g.Standings[0]
}
