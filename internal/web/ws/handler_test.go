package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sketchgame/internal/dependencies/mocks"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/registry"
	"github.com/mcoot/sketchgame/internal/services/room"
	"github.com/mcoot/sketchgame/internal/services/scoring"
	"github.com/mcoot/sketchgame/internal/services/wordbank"
	"github.com/mcoot/sketchgame/internal/storage/memory"
	"github.com/mcoot/sketchgame/internal/testutil"
)

// wireEvent is an outbound event as a client sees it
type wireEvent struct {
	Type    model.EventType `json:"type"`
	RoomID  model.RoomID    `json:"room_id"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *registry.Registry
	server   *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.random.QueueString("ABC234")
	s.server = s.newServer(DefaultConfig())
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) newServer(cfg Config) *httptest.Server {
	logger := testutil.NopLogger()
	store := memory.New()
	words := wordbank.New(store, s.random, logger)
	s.Require().NoError(words.LoadWords([]string{"turtle", "rocket", "pizza"}))

	s.registry = registry.New(room.DefaultConfig(), room.Deps{
		Words:   words,
		Scoring: scoring.DefaultPolicy(),
		Clock:   s.clock,
		Random:  s.random,
		Logger:  logger,
	}, store, logger)

	return httptest.NewServer(NewHandler(s.registry, s.clock, logger, cfg))
}

func (s *HandlerSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HandlerSuite) send(conn *websocket.Conn, t model.ActionType, payload any) {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(model.Action{Type: t, Payload: raw}))
}

// waitFor reads until an event of type t arrives, skipping others
func (s *HandlerSuite) waitFor(conn *websocket.Conn, t model.EventType) wireEvent {
	return s.waitUntil(conn, t, func(wireEvent) bool { return true })
}

func (s *HandlerSuite) waitUntil(conn *websocket.Conn, t model.EventType, match func(wireEvent) bool) wireEvent {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var e wireEvent
		if err := conn.ReadJSON(&e); err != nil {
			s.FailNow("did not receive event", "type %s: %v", t, err)
		}
		if e.Type == t && match(e) {
			return e
		}
	}
}

func (s *HandlerSuite) operationError(conn *websocket.Conn) model.OperationErrorPayload {
	e := s.waitFor(conn, model.EventOperationError)
	var p model.OperationErrorPayload
	s.Require().NoError(json.Unmarshal(e.Payload, &p))
	return p
}

func (s *HandlerSuite) createRoom(conn *websocket.Conn, name string) model.RoomID {
	s.send(conn, model.ActionCreateRoom, model.CreateRoomAction{Name: name})
	e := s.waitFor(conn, model.EventRoomCreated)
	var p model.RoomCreatedPayload
	s.Require().NoError(json.Unmarshal(e.Payload, &p))
	return p.RoomID
}

func (s *HandlerSuite) joinRoom(conn *websocket.Conn, id model.RoomID, name string) {
	s.send(conn, model.ActionJoinRoom, model.JoinRoomAction{Name: name, RoomID: id})
	s.waitFor(conn, model.EventRoomJoined)
}

func viewOf(s *HandlerSuite, e wireEvent) model.RoomView {
	var v model.RoomView
	s.Require().NoError(json.Unmarshal(e.Payload, &v))
	return v
}

func (s *HandlerSuite) TestCreateRoom() {
	alice := s.dial()

	id := s.createRoom(alice, "Alice")

	s.Equal(model.RoomID("ABC234"), id)
	state := viewOf(s, s.waitFor(alice, model.EventStateUpdate))
	s.Equal(model.PhaseIdle, state.Phase)
	s.Require().Len(state.Players, 1)
	s.Equal("Alice", state.Players[0].Name)
	s.Equal(1, s.registry.Count())
}

func (s *HandlerSuite) TestJoinRoom() {
	alice := s.dial()
	bob := s.dial()
	id := s.createRoom(alice, "Alice")

	s.send(bob, model.ActionJoinRoom, model.JoinRoomAction{Name: "Bob", RoomID: model.RoomID(strings.ToLower(string(id)))})

	s.waitFor(bob, model.EventRoomJoined)
	s.waitFor(bob, model.EventCanvasSync)
	s.waitUntil(alice, model.EventStateUpdate, func(e wireEvent) bool {
		return len(viewOf(s, e).Players) == 2
	})
}

func (s *HandlerSuite) TestJoinUnknownRoom() {
	bob := s.dial()

	s.send(bob, model.ActionJoinRoom, model.JoinRoomAction{Name: "Bob", RoomID: "NOPE99"})

	s.Equal("ROOM_NOT_FOUND", s.operationError(bob).Code)
}

func (s *HandlerSuite) TestJoinNameTaken() {
	alice := s.dial()
	impostor := s.dial()
	id := s.createRoom(alice, "Alice")

	s.send(impostor, model.ActionJoinRoom, model.JoinRoomAction{Name: " ALICE ", RoomID: id})

	s.Equal("NAME_TAKEN", s.operationError(impostor).Code)
}

func (s *HandlerSuite) TestActionBeforeJoining() {
	conn := s.dial()

	s.send(conn, model.ActionSubmitGuess, model.SubmitGuessAction{Text: "turtle"})

	s.Equal("NOT_IN_ROOM", s.operationError(conn).Code)
}

func (s *HandlerSuite) TestCreateTwice() {
	alice := s.dial()
	s.createRoom(alice, "Alice")

	s.send(alice, model.ActionCreateRoom, model.CreateRoomAction{Name: "Alice"})

	s.Equal("ALREADY_IN_ROOM", s.operationError(alice).Code)
	s.Equal(1, s.registry.Count())
}

func (s *HandlerSuite) TestStartGameNeedsTwoPlayers() {
	alice := s.dial()
	s.createRoom(alice, "Alice")

	s.send(alice, model.ActionStartGame, model.StartGameAction{})

	s.Equal("INSUFFICIENT_PLAYERS", s.operationError(alice).Code)
}

func (s *HandlerSuite) TestMalformedMessagesAreIgnored() {
	alice := s.dial()

	s.Require().NoError(alice.WriteMessage(websocket.TextMessage, []byte("{not json")))
	s.Require().NoError(alice.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`)))

	// The connection is still usable
	s.Equal(model.RoomID("ABC234"), s.createRoom(alice, "Alice"))
}

func (s *HandlerSuite) TestFullRound() {
	alice := s.dial()
	bob := s.dial()
	id := s.createRoom(alice, "Alice")
	s.joinRoom(bob, id, "Bob")

	s.send(alice, model.ActionStartGame, model.StartGameAction{TotalRounds: 1})
	prompt := s.waitFor(alice, model.EventWordChoicePrompt)
	var choices model.WordChoicePromptPayload
	s.Require().NoError(json.Unmarshal(prompt.Payload, &choices))
	s.Contains(choices.Words, "turtle")

	s.send(alice, model.ActionWordChosen, model.WordChosenAction{Word: "turtle"})
	secret := s.waitFor(alice, model.EventDrawerWord)
	s.JSONEq(`{"word":"turtle"}`, string(secret.Payload))

	drawing := s.waitUntil(bob, model.EventStateUpdate, func(e wireEvent) bool {
		return viewOf(s, e).Phase == model.PhaseDrawing
	})
	s.Equal("_ _ _ _ _ _", viewOf(s, drawing).MaskedWord)

	s.send(alice, model.ActionStartPath, model.PathAction{Stroke: model.Stroke{
		Points: []model.Point{{X: 1, Y: 2}},
		Color:  "#000000",
		Width:  3,
	}})
	s.waitFor(bob, model.EventPathStarted)

	s.send(bob, model.ActionSubmitGuess, model.SubmitGuessAction{Text: " Turtle "})

	for _, conn := range []*websocket.Conn{alice, bob} {
		e := s.waitFor(conn, model.EventRoundEnded)
		var p model.RoundEndedPayload
		s.Require().NoError(json.Unmarshal(e.Payload, &p))
		s.Equal("turtle", p.RevealedWord)
		s.Equal(model.RoundEndGuessed, p.Reason)
	}
}

func (s *HandlerSuite) TestGuesserNeverSeesTheWord() {
	alice := s.dial()
	bob := s.dial()
	id := s.createRoom(alice, "Alice")
	s.joinRoom(bob, id, "Bob")

	s.send(alice, model.ActionStartGame, model.StartGameAction{TotalRounds: 1})
	s.waitFor(alice, model.EventWordChoicePrompt)
	s.send(alice, model.ActionWordChosen, model.WordChosenAction{Word: "rocket"})
	s.waitFor(alice, model.EventDrawerWord)

	// Read everything Bob has been sent up to the drawing state
	_ = bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := bob.ReadMessage()
		s.Require().NoError(err)
		s.NotContains(string(data), "rocket")
		var e wireEvent
		s.Require().NoError(json.Unmarshal(data, &e))
		if e.Type == model.EventStateUpdate && viewOf(s, e).Phase == model.PhaseDrawing {
			break
		}
	}
}

func (s *HandlerSuite) TestDisconnectMarksPlayer() {
	alice := s.dial()
	bob := s.dial()
	id := s.createRoom(alice, "Alice")
	s.joinRoom(bob, id, "Bob")

	s.Require().NoError(bob.Close())

	s.waitUntil(alice, model.EventStateUpdate, func(e wireEvent) bool {
		for _, p := range viewOf(s, e).Players {
			if p.Name == "Bob" {
				return p.Disconnected
			}
		}
		return false
	})
}

func (s *HandlerSuite) TestRejoinAfterDisconnect() {
	alice := s.dial()
	bob := s.dial()
	id := s.createRoom(alice, "Alice")
	s.joinRoom(bob, id, "Bob")
	s.Require().NoError(bob.Close())
	s.waitUntil(alice, model.EventStateUpdate, func(e wireEvent) bool {
		return len(viewOf(s, e).Players) == 2 && viewOf(s, e).Players[1].Disconnected
	})

	again := s.dial()
	s.send(again, model.ActionJoinRoom, model.JoinRoomAction{Name: "bob", RoomID: id})

	e := s.waitFor(again, model.EventRoomJoined)
	var p model.RoomJoinedPayload
	s.Require().NoError(json.Unmarshal(e.Payload, &p))
	s.True(p.Rejoined)
}

func (s *HandlerSuite) TestRateLimitDropsExcessMessages() {
	s.server.Close()
	cfg := DefaultConfig()
	cfg.MessagesPerSecond = 0.001
	cfg.Burst = 2
	s.server = s.newServer(cfg)
	conn := s.dial()

	s.send(conn, model.ActionSubmitGuess, model.SubmitGuessAction{Text: "a"})
	s.send(conn, model.ActionSubmitGuess, model.SubmitGuessAction{Text: "b"})
	s.send(conn, model.ActionSubmitGuess, model.SubmitGuessAction{Text: "c"})

	errorsSeen := 0
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	for {
		var e wireEvent
		if err := conn.ReadJSON(&e); err != nil {
			break
		}
		if e.Type == model.EventOperationError {
			errorsSeen++
		}
	}
	s.Equal(2, errorsSeen)
}
