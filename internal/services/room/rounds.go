package room

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/guess"
	"github.com/mcoot/sketchgame/internal/services/hint"
)

const tickInterval = time.Second

// current reports whether a callback captured at (gen, drawer) is still valid
func (r *Room) current(gen uint64, drawer model.PlayerID) bool {
	return !r.closed && r.gen == gen && r.drawerID == drawer
}

// schedule runs fn after d unless the phase or drawer changed meanwhile
func (r *Room) schedule(d time.Duration, fn func()) clock.Timer {
	gen, drawer := r.gen, r.drawerID
	return r.loop.After(d, func() {
		if !r.current(gen, drawer) {
			return
		}
		fn()
	})
}

func (r *Room) stopRoundTimers() {
	if r.phaseTimer != nil {
		r.phaseTimer.Stop()
		r.phaseTimer = nil
	}
	if r.hintTimer != nil {
		r.hintTimer.Stop()
		r.hintTimer = nil
	}
}

// enterPhase cancels the previous phase's timers and invalidates its callbacks
func (r *Room) enterPhase(phase model.Phase) {
	r.stopRoundTimers()
	r.gen++
	r.phase = phase
}

// beginTurn hands the pencil to players[idx] and offers them words
func (r *Room) beginTurn(idx int) {
	if r.connectedCount() < 2 {
		r.abortGame()
		return
	}

	drawer := r.players[idx]
	for _, p := range r.players {
		p.IsDrawing = p == drawer
		p.HasGuessed = false
	}
	r.drawerIdx = idx
	r.drawerID = drawer.ID
	r.word = ""
	r.hints = nil
	r.countdown = 0
	if r.canvas.Len() > 0 {
		r.canvas.Clear()
		r.broadcast(r.event(model.EventCanvasCleared, nil))
	}

	r.enterPhase(model.PhaseChoosingWord)
	r.choices = r.deps.Words.PickChoices(r.cfg.WordChoices)
	r.chooseDeadline = r.deps.Clock.Now().Add(r.cfg.ChooseTimeout)
	r.phaseTimer = r.schedule(r.cfg.ChooseTimeout, r.chooseTimedOut)

	r.systemMessage(fmt.Sprintf("Round %d of %d: %s is choosing a word", r.round, r.totalRounds, drawer.Name))
	r.logger.Info("turn started",
		slog.Int("round", r.round),
		slog.String("drawer_id", string(drawer.ID)))

	r.sendTo(drawer.ID, r.event(model.EventWordChoicePrompt, model.WordChoicePromptPayload{
		Words:   r.choices,
		Seconds: int(r.cfg.ChooseTimeout / time.Second),
	}))
	r.broadcastState()
}

func (r *Room) chooseTimedOut() {
	if p := r.player(r.drawerID); p != nil {
		r.systemMessage(p.Name + " ran out of time to choose a word")
	}
	r.advanceTurn()
}

func (r *Room) beginDrawing(drawer *model.Player, word string) {
	r.enterPhase(model.PhaseDrawing)
	r.word = word
	r.choices = nil
	r.hints = hint.NewTracker(word, r.cfg.MinHidden)
	r.countdown = int(r.cfg.DrawDuration / time.Second)
	r.phaseTimer = r.schedule(tickInterval, r.tick)

	r.systemMessage(drawer.Name + " is drawing now!")
	r.logger.Info("drawing started", slog.Int("round", r.round), slog.Int("letters", len(hint.Letters(word))))

	r.sendTo(drawer.ID, r.event(model.EventDrawerWord, model.DrawerWordPayload{Word: word}))
	r.broadcastState()
}

func (r *Room) tick() {
	r.countdown--
	r.broadcast(r.event(model.EventTimerUpdate, model.TimerUpdatePayload{SecondsRemaining: r.countdown}))

	if r.countdown <= 0 {
		r.endRound(model.RoundEndTimeout)
		return
	}
	if r.countdown == int(r.cfg.DrawDuration/time.Second)/2 {
		r.revealHint()
		if r.hints.CanReveal() {
			r.hintTimer = r.schedule(r.cfg.HintInterval, r.hintTick)
		}
	}
	r.phaseTimer = r.schedule(tickInterval, r.tick)
}

func (r *Room) hintTick() {
	r.revealHint()
	if r.hints.CanReveal() {
		r.hintTimer = r.schedule(r.cfg.HintInterval, r.hintTick)
		return
	}
	r.hintTimer = nil
}

func (r *Room) revealHint() {
	if _, ok := r.hints.Reveal(r.deps.Random); ok {
		r.broadcastState()
	}
}

func (r *Room) handleGuess(p *model.Player, text string) {
	if guess.Matches(text, r.word) {
		p.HasGuessed = true
		p.Score += r.deps.Scoring.GuesserPoints(r.countdown)
		if drawer := r.player(r.drawerID); drawer != nil {
			drawer.Score += r.deps.Scoring.DrawerPoints()
		}
		r.systemMessage(p.Name + " guessed the word!")
		r.logger.Debug("correct guess", slog.String("player_id", string(p.ID)), slog.Int("seconds_remaining", r.countdown))

		if r.allGuessed() {
			r.endRound(model.RoundEndGuessed)
			return
		}
		r.broadcastState()
		return
	}

	r.messages = append(r.messages, model.ChatMessage{
		Kind:       model.MessageGuess,
		PlayerName: p.Name,
		Text:       text,
		At:         r.deps.Clock.Now(),
	})
	r.broadcastExcept(p.ID, r.event(model.EventGuessBroadcast, model.GuessBroadcastPayload{PlayerName: p.Name, Text: text}))
	if fb := guess.NearMiss(text, r.word); fb != guess.FeedbackNone {
		r.sendTo(p.ID, r.event(model.EventNearMissHint, model.NearMissHintPayload{Message: fb.Message(text)}))
	}
	r.broadcastState()
}

// connectedGuessers counts connected players other than the drawer
func (r *Room) connectedGuessers() int {
	n := 0
	for _, p := range r.players {
		if p.Connected() && p.ID != r.drawerID {
			n++
		}
	}
	return n
}

// allGuessed reports whether every connected guesser has found the word
func (r *Room) allGuessed() bool {
	if r.connectedGuessers() == 0 {
		return false
	}
	for _, p := range r.players {
		if p.Connected() && p.ID != r.drawerID && !p.HasGuessed {
			return false
		}
	}
	return true
}

// endRound reveals the word and schedules the next turn after the cooldown.
// Points already awarded are kept whatever the reason.
func (r *Room) endRound(reason model.RoundEndReason) {
	word := r.word
	r.enterPhase(model.PhaseRoundEnding)
	r.word = ""
	r.hints = nil
	r.countdown = 0

	r.systemMessage(fmt.Sprintf("The word was '%s'", word))
	r.logger.Info("round ended", slog.Int("round", r.round), slog.String("reason", string(reason)))

	r.broadcast(r.event(model.EventRoundEnded, model.RoundEndedPayload{RevealedWord: word, Reason: reason}))
	r.broadcastState()
	r.phaseTimer = r.schedule(r.cfg.Cooldown, r.nextRound)
}

// nextRound starts the following turn with a fresh message log
func (r *Room) nextRound() {
	r.messages = []model.ChatMessage{}
	r.advanceTurn()
}

// advanceTurn moves to the next connected player in roster order. Wrapping
// past the end of the roster starts a new round.
func (r *Room) advanceTurn() {
	n := len(r.players)
	next := -1
	for k := 1; k <= n; k++ {
		j := (r.drawerIdx + k) % n
		if r.players[j].Connected() {
			next = j
			break
		}
	}
	if next < 0 {
		r.abortGame()
		return
	}

	round := r.round
	if next <= r.drawerIdx {
		round++
	}
	if round > r.totalRounds {
		r.finishGame()
		return
	}
	r.round = round
	r.beginTurn(next)
}

// abortGame stops a game that can no longer continue and returns to Idle
func (r *Room) abortGame() {
	r.enterPhase(model.PhaseIdle)
	r.word = ""
	r.hints = nil
	r.choices = nil
	r.countdown = 0
	r.round = 0
	r.designateOwnerAsDrawer()

	r.systemMessage("Not enough players to continue, the game was stopped")
	r.logger.Info("game aborted", slog.Int("connected", r.connectedCount()))

	r.broadcast(r.event(model.EventOperationError, model.OperationError(model.ErrInsufficientPlayers)))
	r.broadcastState()
}

// finishGame freezes the room on the final scoreboard
func (r *Room) finishGame() {
	r.enterPhase(model.PhaseIdle)
	r.gameOver = true
	r.choices = nil
	r.drawerID = ""
	r.drawerIdx = -1
	for _, p := range r.players {
		p.IsDrawing = false
		p.HasGuessed = false
	}

	result := r.result()
	if w := result.Winner(); w != nil {
		r.systemMessage(fmt.Sprintf("Game over! %s wins with %d points", w.Name, w.Score))
	}
	r.logger.Info("game over", slog.Int("rounds", r.totalRounds))

	if r.hooks.OnGameOver != nil {
		onGameOver := r.hooks.OnGameOver
		r.loop.Go(func() func() {
			onGameOver(result)
			return nil
		})
	}
	r.broadcastState()
}

func (r *Room) result() model.GameResult {
	players := r.sortedPlayers()
	standings := make([]model.Standing, len(players))
	for i, p := range players {
		standings[i] = model.Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	return model.GameResult{
		RoomID:     r.id,
		Rounds:     r.totalRounds,
		Standings:  standings,
		FinishedAt: r.deps.Clock.Now(),
	}
}
