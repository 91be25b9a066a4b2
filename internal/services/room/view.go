package room

import (
	"slices"
	"time"

	"github.com/mcoot/sketchgame/internal/model"
)

// View returns the room state as every participant sees it. The secret
// word only ever appears masked.
func (r *Room) View() model.RoomView {
	players := r.sortedPlayers()
	out := make([]model.Player, len(players))
	for i, p := range players {
		out[i] = *p
	}

	view := model.RoomView{
		RoomID:      r.id,
		Phase:       r.phase,
		IsGameOver:  r.gameOver,
		Round:       r.round,
		TotalRounds: r.totalRounds,
		OwnerID:     r.ownerID,
		DrawerID:    r.drawerID,
		Players:     out,
		Messages:    slices.Clone(r.messages),
	}
	switch {
	case r.phase == model.PhaseDrawing && r.hints != nil:
		view.MaskedWord = r.hints.Masked()
		view.SecondsRemaining = r.countdown
	case r.phase == model.PhaseChoosingWord:
		left := r.chooseDeadline.Sub(r.deps.Clock.Now())
		view.SecondsRemaining = max(0, int((left+time.Second-1)/time.Second))
	}
	return view
}

// Summary returns a compact description for room listings
func (r *Room) Summary() model.RoomSummary {
	return model.RoomSummary{
		RoomID:           r.id,
		Phase:            r.phase,
		IsGameOver:       r.gameOver,
		Round:            r.round,
		TotalRounds:      r.totalRounds,
		PlayerCount:      len(r.players),
		ConnectedPlayers: r.connectedCount(),
	}
}

// sortedPlayers orders the roster by score, highest first, keeping roster
// order between equal scores
func (r *Room) sortedPlayers() []*model.Player {
	players := slices.Clone(r.players)
	slices.SortStableFunc(players, func(a, b *model.Player) int {
		return b.Score - a.Score
	})
	return players
}
