package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/sketchgame/internal/model"
)

var (
	errEmptyInput = errors.New("empty input")
	errQuit       = errors.New("quit")
)

const playHelp = `Commands:
  /start [rounds]  Start a game (room owner only)
  /again           Start another game after one finishes
  /choose <word>   Pick the word to draw
  /undo            Undo your last stroke
  /clear           Clear the canvas
  /check           Ask the classifier whether the drawing matches the word
  /help            Show this help
  /quit            Leave
Anything else is sent as a guess.`

func newPlayCmd() *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "play <room-id|->",
		Short: "Join a room and play from the terminal",
		Long: `Connect over WebSocket and join the given room, or create a new
room when the room id is "-". Lines typed on stdin are sent as guesses;
lines starting with "/" are commands (see /help).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return play(ctx, args[0], name, avatar, cmd.InOrStdin(), NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar identifier")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func play(ctx context.Context, roomID, name, avatar string, in io.Reader, out *Output) error {
	wsURL, err := client.WebSocketURL("/ws")
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(enterAction(roomID, name, avatar)); err != nil {
		return fmt.Errorf("failed to send join: %w", err)
	}

	closed := make(chan error, 1)
	go func() {
		r := newEventRenderer(out, cfg.Verbose)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				closed <- err
				return
			}
			r.render(data)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return leave(conn)
		case err := <-closed:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok {
				return leave(conn)
			}
			if strings.TrimSpace(line) == "/help" {
				out.PrintMessage(playHelp)
				continue
			}
			action, err := parseInput(line)
			switch {
			case errors.Is(err, errEmptyInput):
				continue
			case errors.Is(err, errQuit):
				return leave(conn)
			case err != nil:
				out.PrintMessage(err.Error())
				continue
			}
			if err := conn.WriteJSON(action); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

func leave(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}

func enterAction(roomID, name, avatar string) model.Action {
	if roomID == "-" {
		return newAction(model.ActionCreateRoom, model.CreateRoomAction{Name: name, Avatar: avatar})
	}
	return newAction(model.ActionJoinRoom, model.JoinRoomAction{
		Name:   name,
		Avatar: avatar,
		RoomID: model.RoomID(roomID),
	})
}

// parseInput turns a line of terminal input into an action
func parseInput(line string) (model.Action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Action{}, errEmptyInput
	}
	if !strings.HasPrefix(line, "/") {
		return newAction(model.ActionSubmitGuess, model.SubmitGuessAction{Text: line}), nil
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case "/start":
		rounds := 0
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return model.Action{}, fmt.Errorf("invalid round count %q", arg)
			}
			rounds = n
		}
		return newAction(model.ActionStartGame, model.StartGameAction{TotalRounds: rounds}), nil
	case "/again":
		return newAction(model.ActionPlayAgain, nil), nil
	case "/choose":
		if arg == "" {
			return model.Action{}, errors.New("usage: /choose <word>")
		}
		return newAction(model.ActionWordChosen, model.WordChosenAction{Word: arg}), nil
	case "/undo":
		return newAction(model.ActionUndo, nil), nil
	case "/clear":
		return newAction(model.ActionClearCanvas, nil), nil
	case "/check":
		return newAction(model.ActionRequestScribbleCheck, nil), nil
	case "/quit":
		return model.Action{}, errQuit
	default:
		return model.Action{}, fmt.Errorf("unknown command %s, try /help", command)
	}
}

func newAction(t model.ActionType, payload any) model.Action {
	a := model.Action{Type: t}
	if payload != nil {
		// Payload types are plain structs and always encode
		a.Payload, _ = json.Marshal(payload)
	}
	return a
}

// eventRenderer prints server events for a human at a terminal
type eventRenderer struct {
	out       *Output
	verbose   bool
	lastState string
}

func newEventRenderer(out *Output, verbose bool) *eventRenderer {
	return &eventRenderer{out: out, verbose: verbose}
}

type rawEvent struct {
	Type    model.EventType `json:"type"`
	RoomID  model.RoomID    `json:"room_id"`
	Payload json.RawMessage `json:"payload"`
}

func (r *eventRenderer) render(data []byte) {
	if r.out.JSON() {
		r.out.printf("%s\n", data)
		return
	}

	var e rawEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return
	}

	switch e.Type {
	case model.EventRoomCreated:
		var p model.RoomCreatedPayload
		if decodePayload(e, &p) {
			r.out.printf("Created room %s. Share the code, then /start when everyone is in.\n", p.RoomID)
		}
	case model.EventRoomJoined:
		var p model.RoomJoinedPayload
		if decodePayload(e, &p) {
			if p.Rejoined {
				r.out.printf("Rejoined room %s\n", p.RoomID)
			} else {
				r.out.printf("Joined room %s\n", p.RoomID)
			}
		}
	case model.EventStateUpdate:
		var v model.RoomView
		if decodePayload(e, &v) {
			r.renderState(v)
		}
	case model.EventWordChoicePrompt:
		var p model.WordChoicePromptPayload
		if decodePayload(e, &p) {
			r.out.printf("Your turn to draw! /choose one of: %s (%ds)\n", strings.Join(p.Words, ", "), p.Seconds)
		}
	case model.EventDrawerWord:
		var p model.DrawerWordPayload
		if decodePayload(e, &p) {
			r.out.printf("You are drawing: %s\n", p.Word)
		}
	case model.EventGuessBroadcast:
		var p model.GuessBroadcastPayload
		if decodePayload(e, &p) {
			r.out.printf("%s: %s\n", p.PlayerName, p.Text)
		}
	case model.EventNearMissHint:
		var p model.NearMissHintPayload
		if decodePayload(e, &p) {
			r.out.printf("Hint: %s\n", p.Message)
		}
	case model.EventRoundEnded:
		var p model.RoundEndedPayload
		if decodePayload(e, &p) {
			r.out.printf("Round over (%s). The word was %q\n", p.Reason, p.RevealedWord)
		}
	case model.EventSkipVoteSuggestion:
		var p model.SkipVoteSuggestionPayload
		if decodePayload(e, &p) {
			r.out.printf("The classifier suggests skipping this drawing: %s\n", p.Reason)
		}
	case model.EventOperationError:
		var p model.OperationErrorPayload
		if decodePayload(e, &p) {
			r.out.printf("Error: %s (%s)\n", p.Message, p.Code)
		}
	case model.EventTimerUpdate:
		var p model.TimerUpdatePayload
		if r.verbose && decodePayload(e, &p) {
			r.out.printf("%ds left\n", p.SecondsRemaining)
		}
	default:
		if r.verbose {
			r.out.printf("(%s)\n", e.Type)
		}
	}
}

// renderState prints a one-line summary, skipping repeats
func (r *eventRenderer) renderState(v model.RoomView) {
	var b strings.Builder
	switch {
	case v.IsGameOver:
		b.WriteString("[game over]")
	case v.Round == 0:
		b.WriteString("[waiting]")
	default:
		fmt.Fprintf(&b, "[round %d/%d %s]", v.Round, v.TotalRounds, v.Phase)
	}
	if v.MaskedWord != "" {
		b.WriteString(" " + v.MaskedWord)
	}
	scores := make([]string, 0, len(v.Players))
	for _, p := range v.Players {
		s := fmt.Sprintf("%s %d", p.Name, p.Score)
		if p.Disconnected {
			s += " (away)"
		}
		scores = append(scores, s)
	}
	b.WriteString(" | " + strings.Join(scores, ", "))

	line := b.String()
	if line == r.lastState {
		return
	}
	r.lastState = line
	r.out.printf("%s\n", line)
}

func decodePayload(e rawEvent, v any) bool {
	return json.Unmarshal(e.Payload, v) == nil
}
