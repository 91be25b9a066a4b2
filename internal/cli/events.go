package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const maxSSELine = 1 << 20

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <room-id>",
		Short: "Stream live events from a room",
		Long: `Connect to the room's SSE endpoint and stream its public events.

The stream starts with a state-update carrying the current masked state,
followed by everything broadcast to the room:
  - state-update: Phase, players or scores changed
  - timer-update: Countdown tick
  - path-started, path-updated, path-undone, canvas-cleared: Drawing
  - guess-broadcast: A wrong guess or chat line
  - round-ended: The word is revealed

Private events such as the drawer's word are never sent on this stream.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, args[0], NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(ctx context.Context, roomID string, out *Output) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.URL(roomPath(roomID)+"/events"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, body)
	}

	if !out.JSON() {
		out.PrintMessage("Connected to room " + strings.ToUpper(roomID))
	}

	err = readSSE(resp.Body, func(event, data string) {
		printEvent(out, event, data)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !out.JSON() {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// readSSE parses an event stream, calling fn once per complete event.
// Comments and retry hints are skipped.
func readSSE(r io.Reader, fn func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELine)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				fn(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func printEvent(out *Output, event, data string) {
	now := time.Now()

	if out.JSON() {
		raw := json.RawMessage(data)
		if !json.Valid(raw) {
			raw, _ = json.Marshal(data)
		}
		line, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: raw})
		out.printf("%s\n", line)
		return
	}

	displayData := strings.ReplaceAll(data, "\n", " ")
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	out.printf("[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, displayData)
}
