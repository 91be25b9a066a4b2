package room

import "time"

// Config holds the gameplay timings and limits of a room
type Config struct {
	ChooseTimeout time.Duration // Window for the drawer to pick a word
	DrawDuration  time.Duration // Length of the drawing countdown
	HintInterval  time.Duration // Gap between hint reveals after half time
	Cooldown      time.Duration // Pause between a round ending and the next turn
	GracePeriod   time.Duration // How long an abandoned room survives

	WordChoices    int // Candidate words offered to the drawer
	MinHidden      int // Letters that hints never reveal
	DefaultRounds  int
	MaxRounds      int
	MaxPlayers     int // Connected players admitted at once
	MaxNameLength  int
	MaxGuessLength int

	ClassifierTimeout   time.Duration
	ScribbleCheckPeriod time.Duration // Minimum gap between scribble checks
}

// DefaultConfig returns the standard game settings
func DefaultConfig() Config {
	return Config{
		ChooseTimeout: 15 * time.Second,
		DrawDuration:  90 * time.Second,
		HintInterval:  10 * time.Second,
		Cooldown:      5 * time.Second,
		GracePeriod:   5 * time.Minute,

		WordChoices:    3,
		MinHidden:      2,
		DefaultRounds:  3,
		MaxRounds:      10,
		MaxPlayers:     12,
		MaxNameLength:  24,
		MaxGuessLength: 100,

		ClassifierTimeout:   10 * time.Second,
		ScribbleCheckPeriod: 15 * time.Second,
	}
}

// clampRounds maps a requested round count into [1, MaxRounds], 0 meaning the default
func (c Config) clampRounds(n int) int {
	if n <= 0 {
		return c.DefaultRounds
	}
	return min(n, c.MaxRounds)
}
