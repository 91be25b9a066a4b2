package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
)

// Output handles formatting output based on the configured format. It is
// safe for concurrent use.
type Output struct {
	format string
	mu     sync.Mutex
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// JSON reports whether output is machine readable
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.JSON() {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.printf("%s\n", data)
	} else {
		o.printf("%s\n", msg)
	}
}

func (o *Output) printJSON(data any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\n", v.Status)
		o.printf("Rooms: %d\n", v.Rooms)
	case response.RoomList:
		o.printRoomList(v)
	case model.RoomView:
		o.printRoomView(v)
	case response.Results:
		o.printResults(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printRoomList(l response.RoomList) {
	if l.Count == 0 {
		o.printf("No rooms\n")
		return
	}
	o.printf("%-8s %-14s %-7s %s\n", "ROOM", "PHASE", "ROUND", "PLAYERS")
	for _, r := range l.Rooms {
		phase := string(r.Phase)
		if r.IsGameOver {
			phase = "game over"
		}
		o.printf("%-8s %-14s %-7s %d/%d\n",
			r.RoomID, phase, fmt.Sprintf("%d/%d", r.Round, r.TotalRounds),
			r.ConnectedPlayers, r.PlayerCount)
	}
}

func (o *Output) printRoomView(v model.RoomView) {
	o.printf("Room: %s\n", v.RoomID)
	if v.IsGameOver {
		o.printf("Phase: game over\n")
	} else {
		o.printf("Phase: %s\n", v.Phase)
	}
	if v.Round > 0 {
		o.printf("Round: %d of %d\n", v.Round, v.TotalRounds)
	}
	if v.MaskedWord != "" {
		o.printf("Word: %s\n", v.MaskedWord)
	}
	if v.Phase == model.PhaseDrawing || v.Phase == model.PhaseChoosingWord {
		o.printf("Time left: %ds\n", v.SecondsRemaining)
	}
	o.printf("Players (%d):\n", len(v.Players))
	for _, p := range v.Players {
		var tags []string
		if p.ID == v.OwnerID {
			tags = append(tags, "owner")
		}
		if p.IsDrawing {
			tags = append(tags, "drawing")
		}
		if p.HasGuessed {
			tags = append(tags, "guessed")
		}
		if p.Disconnected {
			tags = append(tags, "away")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		o.printf("  %-20s %5d%s\n", p.Name, p.Score, suffix)
	}
}

func (o *Output) printResults(r response.Results) {
	if len(r.Games) == 0 {
		o.printf("No finished games in room %s\n", r.RoomID)
		return
	}
	for i, g := range r.Games {
		if i > 0 {
			o.printf("\n")
		}
		o.printf("Game finished %s (%d rounds)\n", g.FinishedAt.Local().Format("2006-01-02 15:04:05"), g.Rounds)
		for rank, s := range g.Standings {
			o.printf("  %d. %-20s %5d\n", rank+1, s.Name, s.Score)
		}
	}
}
