package room

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/canvas"
	"github.com/mcoot/sketchgame/internal/services/hint"
	"github.com/mcoot/sketchgame/internal/services/scribble"
)

// Room is the state machine of a single game room.
//
// A Room is not safe for concurrent use: every method, and every callback
// it schedules through its Loop, must run on the one goroutine that owns it.
// Actor provides that goroutine.
type Room struct {
	id     model.RoomID
	cfg    Config
	deps   Deps
	loop   Loop
	hooks  Hooks
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	players     []*model.Player
	conns       map[model.PlayerID]Connection
	connPlayers map[model.ConnID]model.PlayerID
	messages    []model.ChatMessage
	canvas      *canvas.Log

	phase       model.Phase
	gameOver    bool
	ownerID     model.PlayerID
	drawerID    model.PlayerID
	drawerIdx   int
	round       int
	totalRounds int

	choices        []string
	chooseDeadline time.Time
	word           string
	hints          *hint.Tracker
	countdown      int

	// gen changes on every phase transition. Scheduled callbacks capture it
	// and do nothing if it has moved on by the time they run.
	gen           uint64
	phaseTimer    clock.Timer
	hintTimer     clock.Timer
	teardownTimer clock.Timer
	teardownSeq   uint64

	checkLimiter  *rate.Limiter
	checkInFlight bool

	createdAt time.Time
	closed    bool
}

// New creates an empty room in the Idle phase
func New(id model.RoomID, cfg Config, deps Deps, loop Loop, hooks Hooks) *Room {
	if deps.Publisher == nil {
		deps.Publisher = nopPublisher{}
	}
	if deps.Classifier == nil {
		deps.Classifier = scribble.Disabled{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Room{
		id:           id,
		cfg:          cfg,
		deps:         deps,
		loop:         loop,
		hooks:        hooks,
		logger:       deps.Logger.With(slog.String("component", "room"), slog.String("room_id", string(id))),
		ctx:          ctx,
		cancel:       cancel,
		conns:        make(map[model.PlayerID]Connection),
		connPlayers:  make(map[model.ConnID]model.PlayerID),
		messages:     []model.ChatMessage{},
		canvas:       canvas.NewLog(),
		phase:        model.PhaseIdle,
		drawerIdx:    -1,
		totalRounds:  cfg.DefaultRounds,
		checkLimiter: rate.NewLimiter(rate.Every(cfg.ScribbleCheckPeriod), 1),
		createdAt:    deps.Clock.Now(),
	}
}

// ID returns the room identifier
func (r *Room) ID() model.RoomID {
	return r.id
}

// Create admits the room's first player, who becomes owner
func (r *Room) Create(conn Connection, name, avatar string) (model.PlayerID, error) {
	if len(r.players) > 0 {
		return "", model.ErrInvalidPhase
	}
	return r.admit(conn, name, avatar, true)
}

// Join admits a new player or restores a disconnected one with the same name
func (r *Room) Join(conn Connection, name, avatar string) (model.PlayerID, error) {
	return r.admit(conn, name, avatar, false)
}

func (r *Room) admit(conn Connection, name, avatar string, created bool) (model.PlayerID, error) {
	if r.closed {
		return "", model.ErrRoomNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > r.cfg.MaxNameLength {
		return "", model.ErrInvalidName
	}
	if _, ok := r.connPlayers[conn.ID()]; ok {
		return "", model.ErrAlreadyInRoom
	}

	p := r.playerByName(name)
	rejoined := p != nil
	switch {
	case p != nil && p.Connected():
		return "", model.ErrNameTaken
	case p != nil:
		p.Disconnected = false
		if avatar != "" {
			p.Avatar = avatar
		}
		r.systemMessage(p.Name + " rejoined the room")
	default:
		if r.connectedCount() >= r.cfg.MaxPlayers {
			return "", model.ErrRoomFull
		}
		p = &model.Player{
			ID:       model.PlayerID(uuid.NewString()),
			Name:     name,
			Avatar:   avatar,
			JoinedAt: r.deps.Clock.Now(),
		}
		r.players = append(r.players, p)
		r.systemMessage(p.Name + " joined the room")
	}

	r.conns[p.ID] = conn
	r.connPlayers[conn.ID()] = p.ID
	r.cancelTeardown()

	if r.connectedCount() == 1 && r.phase == model.PhaseIdle {
		r.ownerID = p.ID
		r.designateOwnerAsDrawer()
	}

	r.logger.Info("player joined",
		slog.String("player_id", string(p.ID)),
		slog.String("name", p.Name),
		slog.Bool("rejoined", rejoined))

	if created {
		conn.Send(r.event(model.EventRoomCreated, model.RoomCreatedPayload{RoomID: r.id, PlayerID: p.ID}))
	} else {
		conn.Send(r.event(model.EventRoomJoined, model.RoomJoinedPayload{RoomID: r.id, PlayerID: p.ID, Rejoined: rejoined}))
	}
	conn.Send(r.event(model.EventCanvasSync, model.CanvasSyncPayload{Strokes: r.canvas.Strokes()}))

	r.broadcastState()
	return p.ID, nil
}

// StartGame begins round 1 with the owner drawing first
func (r *Room) StartGame(connID model.ConnID, totalRounds int) error {
	p, err := r.requester(connID)
	if err != nil {
		return err
	}
	if p.ID != r.ownerID {
		return model.ErrNotAuthorized
	}
	if r.phase != model.PhaseIdle {
		return model.ErrInvalidPhase
	}
	if r.connectedCount() < 2 {
		return model.ErrInsufficientPlayers
	}

	r.resetScores()
	r.gameOver = false
	r.totalRounds = r.cfg.clampRounds(totalRounds)
	r.round = 1
	r.messages = []model.ChatMessage{}
	r.moveOwnerFirst()

	r.logger.Info("game started", slog.Int("total_rounds", r.totalRounds), slog.Int("players", r.connectedCount()))
	r.beginTurn(0)
	return nil
}

// PlayAgain resets a finished game back to Idle, awaiting StartGame
func (r *Room) PlayAgain(connID model.ConnID) error {
	p, err := r.requester(connID)
	if err != nil {
		return err
	}
	if p.ID != r.ownerID {
		return model.ErrNotAuthorized
	}
	if !r.gameOver {
		return model.ErrInvalidPhase
	}

	r.resetScores()
	r.gameOver = false
	r.round = 0
	r.canvas.Clear()
	r.messages = []model.ChatMessage{}
	r.moveOwnerFirst()
	r.designateOwnerAsDrawer()
	r.systemMessage(p.Name + " reset the game")

	r.broadcastState()
	return nil
}

// ChooseWord sets the secret word from the offered choices and starts drawing
func (r *Room) ChooseWord(connID model.ConnID, word string) error {
	p, err := r.requester(connID)
	if err != nil {
		return err
	}
	if r.phase != model.PhaseChoosingWord {
		return model.ErrInvalidPhase
	}
	if p.ID != r.drawerID {
		return model.ErrNotAuthorized
	}
	idx := slices.IndexFunc(r.choices, func(c string) bool {
		return strings.EqualFold(c, strings.TrimSpace(word))
	})
	if idx < 0 {
		return model.ErrNotAuthorized
	}

	r.beginDrawing(p, r.choices[idx])
	return nil
}

// Guess handles a guess from a non-drawing player
func (r *Room) Guess(connID model.ConnID, text string) error {
	p, err := r.requester(connID)
	if err != nil {
		return err
	}
	if r.phase != model.PhaseDrawing {
		return model.ErrInvalidPhase
	}
	if p.ID == r.drawerID || p.HasGuessed {
		return model.ErrNotAuthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if runes := []rune(text); len(runes) > r.cfg.MaxGuessLength {
		text = string(runes[:r.cfg.MaxGuessLength])
	}

	r.handleGuess(p, text)
	return nil
}

// RequestScribbleCheck asks the classifier whether the current drawing is
// a scribble. The result arrives later and is dropped if the round is over.
func (r *Room) RequestScribbleCheck(connID model.ConnID) error {
	if _, err := r.requester(connID); err != nil {
		return err
	}
	if r.phase != model.PhaseDrawing {
		return model.ErrInvalidPhase
	}
	if r.checkInFlight || !r.checkLimiter.AllowN(r.deps.Clock.Now(), 1) {
		return nil
	}

	r.checkInFlight = true
	gen, drawer := r.gen, r.drawerID
	req := scribble.Request{Word: r.word, Strokes: r.canvas.Strokes()}
	classifier, timeout, ctx := r.deps.Classifier, r.cfg.ClassifierTimeout, r.ctx

	r.loop.Go(func() func() {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		verdict, err := classifier.Check(checkCtx, req)

		return func() {
			r.checkInFlight = false
			if err != nil {
				r.logger.Warn("scribble check failed", slog.String("error", err.Error()))
				return
			}
			if !r.current(gen, drawer) || !verdict.ShouldSkip {
				return
			}
			r.broadcast(r.event(model.EventSkipVoteSuggestion, model.SkipVoteSuggestionPayload{Reason: verdict.Reason}))
		}
	})
	return nil
}

// Disconnect marks the player behind connID as gone
func (r *Room) Disconnect(connID model.ConnID) error {
	p, err := r.requester(connID)
	if err != nil {
		return err
	}

	delete(r.connPlayers, connID)
	delete(r.conns, p.ID)
	p.Disconnected = true
	p.IsDrawing = false
	r.systemMessage(p.Name + " left the room")
	r.logger.Info("player disconnected", slog.String("player_id", string(p.ID)))

	if p.ID == r.ownerID {
		if next := r.firstConnected(); next != nil {
			r.ownerID = next.ID
			r.systemMessage(next.Name + " is now the room owner")
		}
	}

	switch {
	case r.phase == model.PhaseIdle && !r.gameOver:
		r.designateOwnerAsDrawer()
		r.broadcastState()
	case r.phase == model.PhaseChoosingWord && r.connectedCount() < 2:
		r.abortGame()
	case p.ID == r.drawerID && r.phase == model.PhaseChoosingWord:
		r.systemMessage(p.Name + " left before choosing a word")
		r.advanceTurn()
	case p.ID == r.drawerID && r.phase == model.PhaseDrawing:
		r.endRound(model.RoundEndTimeout)
	case r.phase == model.PhaseDrawing && r.connectedGuessers() == 0:
		r.endRound(model.RoundEndTimeout)
	case r.phase == model.PhaseDrawing && r.allGuessed():
		r.endRound(model.RoundEndGuessed)
	default:
		r.broadcastState()
	}

	if r.connectedCount() == 0 {
		r.scheduleTeardown()
	}
	return nil
}

// Close cancels every timer and pending classifier call. A closed room
// rejects all further operations.
func (r *Room) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.gen++
	r.stopRoundTimers()
	r.cancelTeardown()
	r.cancel()
	clear(r.conns)
	clear(r.connPlayers)
	r.logger.Info("room closed")
}

// requester resolves the player behind a connection
func (r *Room) requester(connID model.ConnID) (*model.Player, error) {
	if r.closed {
		return nil, model.ErrRoomNotFound
	}
	id, ok := r.connPlayers[connID]
	if !ok {
		return nil, model.ErrNotInRoom
	}
	p := r.player(id)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}

func (r *Room) player(id model.PlayerID) *model.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerByName(name string) *model.Player {
	for _, p := range r.players {
		if model.SameName(p.Name, name) {
			return p
		}
	}
	return nil
}

func (r *Room) firstConnected() *model.Player {
	for _, p := range r.players {
		if p.Connected() {
			return p
		}
	}
	return nil
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.Connected() {
			n++
		}
	}
	return n
}

func (r *Room) resetScores() {
	for _, p := range r.players {
		p.Score = 0
		p.HasGuessed = false
	}
}

// moveOwnerFirst puts the owner at the head of the roster so they draw first
func (r *Room) moveOwnerFirst() {
	idx := slices.IndexFunc(r.players, func(p *model.Player) bool { return p.ID == r.ownerID })
	if idx <= 0 {
		return
	}
	owner := r.players[idx]
	copy(r.players[1:idx+1], r.players[:idx])
	r.players[0] = owner
}

// designateOwnerAsDrawer marks the owner as the drawer-in-waiting while Idle
func (r *Room) designateOwnerAsDrawer() {
	r.drawerID = ""
	r.drawerIdx = -1
	for i, p := range r.players {
		p.IsDrawing = p.ID == r.ownerID && p.Connected()
		if p.IsDrawing {
			r.drawerID = p.ID
			r.drawerIdx = i
		}
	}
}

func (r *Room) scheduleTeardown() {
	r.cancelTeardown()
	seq := r.teardownSeq
	r.logger.Info("room empty, scheduling teardown", slog.Duration("grace_period", r.cfg.GracePeriod))
	r.teardownTimer = r.loop.After(r.cfg.GracePeriod, func() {
		if r.closed || seq != r.teardownSeq || r.connectedCount() > 0 {
			return
		}
		r.logger.Info("room abandoned")
		if r.hooks.OnAbandoned != nil {
			r.hooks.OnAbandoned(r.id)
		}
	})
}

func (r *Room) cancelTeardown() {
	r.teardownSeq++
	if r.teardownTimer != nil {
		r.teardownTimer.Stop()
		r.teardownTimer = nil
	}
}
