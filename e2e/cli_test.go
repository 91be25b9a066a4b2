package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sketchgame/internal/api"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/factory"
	"github.com/mcoot/sketchgame/internal/model"
	redisstorage "github.com/mcoot/sketchgame/internal/storage/redis"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "sketchctl")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/sketchctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)
	return exec.CommandContext(ctx, r.binaryPath, fullArgs...)
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(context.Background(), args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full server stack on a free port, with Redis
// storage backed by miniredis
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{
		WordsPath:   filepath.Join(findProjectRoot(t), "data/words.txt"),
		Logger:      logger,
		StorageType: factory.StorageTypeRedis,
		RedisConfig: &redisCfg,
	})
	require.NoError(t, err)

	server := &http.Server{
		Handler: api.NewRouter(api.RouterConfig{
			Logger:     logger,
			Registry:   app.Registry,
			HubManager: app.HubManager,
			Clock:      app.Clock,
			WebSocket:  app.WebSocket,
		}),
	}
	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Shutdown(ctx)
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// player is a running "sketchctl play" process
type player struct {
	stdin  io.WriteCloser
	events chan model.Event
	cmd    *exec.Cmd
}

func startPlayer(t *testing.T, cli *cliRunner, room, name string) *player {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := cli.command(ctx, "play", room, "--name", name)
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	p := &player{stdin: stdin, events: make(chan model.Event, 256), cmd: cmd}
	go func() {
		defer close(p.events)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			var e model.Event
			if json.Unmarshal(scanner.Bytes(), &e) == nil && e.Type != "" {
				p.events <- e
			}
		}
	}()

	t.Cleanup(func() {
		_ = stdin.Close()
		cancel()
		_ = cmd.Wait()
	})
	return p
}

func (p *player) say(t *testing.T, line string) {
	t.Helper()
	_, err := io.WriteString(p.stdin, line+"\n")
	require.NoError(t, err)
}

// waitFor returns the first event of the given type, skipping others
func (p *player) waitFor(t *testing.T, eventType model.EventType) model.Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-p.events:
			require.True(t, ok, "player exited while waiting for %s", eventType)
			if e.Type == eventType {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

func payload[T any](t *testing.T, e model.Event) T {
	t.Helper()
	raw, err := json.Marshal(e.Payload)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp response.Health
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Rooms)
}

func TestCLI_UnknownRoom(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("rooms", "get", "NOPE99")

	require.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_PlayRound(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// Alice creates a room
	alice := startPlayer(t, cli, "-", "Alice")
	created := payload[model.RoomCreatedPayload](t, alice.waitFor(t, model.EventRoomCreated))
	roomID := string(created.RoomID)
	require.NotEmpty(t, roomID)

	// Bob joins by typing the code in lower case
	bob := startPlayer(t, cli, strings.ToLower(roomID), "Bob")
	joined := payload[model.RoomJoinedPayload](t, bob.waitFor(t, model.EventRoomJoined))
	assert.Equal(t, created.RoomID, joined.RoomID)
	assert.False(t, joined.Rejoined)

	output, err := cli.run("rooms", "list")
	require.NoError(t, err, "output: %s", output)
	var list response.RoomList
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 2, list.Rooms[0].ConnectedPlayers)

	// Alice draws first and picks one of the offered words
	alice.say(t, "/start 1")
	prompt := payload[model.WordChoicePromptPayload](t, alice.waitFor(t, model.EventWordChoicePrompt))
	require.NotEmpty(t, prompt.Words)
	word := prompt.Words[0]
	alice.say(t, "/choose "+word)
	assert.Equal(t, word, payload[model.DrawerWordPayload](t, alice.waitFor(t, model.EventDrawerWord)).Word)

	// The room view never reveals the word
	output, err = cli.run("rooms", "get", roomID)
	require.NoError(t, err, "output: %s", output)
	var view model.RoomView
	require.NoError(t, json.Unmarshal([]byte(output), &view))
	assert.Equal(t, model.PhaseDrawing, view.Phase)
	assert.NotContains(t, output, `"`+word+`"`)

	bob.say(t, strings.ToUpper(word))
	ended := payload[model.RoundEndedPayload](t, bob.waitFor(t, model.EventRoundEnded))
	assert.Equal(t, model.RoundEndGuessed, ended.Reason)
	assert.Equal(t, word, ended.RevealedWord)
}
