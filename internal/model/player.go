package model

import (
	"strings"
	"time"
)

// PlayerID identifies a player within a room. It is stable across reconnects.
type PlayerID string

// ConnID identifies a single transport connection
type ConnID string

// Player is a room participant
type Player struct {
	ID           PlayerID  `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Score        int       `json:"score"`
	IsDrawing    bool      `json:"is_drawing"`
	HasGuessed   bool      `json:"has_guessed"`
	Disconnected bool      `json:"disconnected"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Connected reports whether the player currently has a live connection
func (p *Player) Connected() bool {
	return !p.Disconnected
}

// SameName compares display names the way rejoin matching does:
// surrounding whitespace ignored, case-insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
