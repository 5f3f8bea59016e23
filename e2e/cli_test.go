package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/grabble/internal/api"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/factory"
	"github.com/mcoot/grabble/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "grabble-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/grabble")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// withTokenFile returns a runner sharing the binary but keeping its own
// saved session
func (r *cliRunner) withTokenFile(path string) *cliRunner {
	return &cliRunner{binaryPath: r.binaryPath, serverURL: r.serverURL, tokenFile: path}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func runJSON[T any](t *testing.T, r *cliRunner, args ...string) T {
	t.Helper()

	output, err := r.run(args...)
	require.NoError(t, err, "grabble %s: %s", strings.Join(args, " "), output)

	var out T
	require.NoError(t, json.Unmarshal([]byte(output), &out), "output: %s", output)
	return out
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

// startTestServer runs the real API on a free port until the test ends
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(context.Background(), factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		RoomService: app.RoomService,
		BotService:  app.BotService,
		Dictionary:  app.DictionaryService,
		HubManager:  app.HubManager,
	})

	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		app.HubManager.CloseAll()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Close()
	})

	serverURL := "http://" + addr
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

type messageResponse struct {
	Message string `json:"message"`
}

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	health := runJSON[response.Health](t, cli, "health")
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Dictionary)
}

func TestCLI_PlayerCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	auth := runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")
	assert.Equal(t, "Alice", auth.Player.DisplayName)
	assert.True(t, auth.Player.IsGuest)
	assert.NotEmpty(t, auth.SessionToken)

	// The token was saved to the token file
	me := runJSON[response.Player](t, cli, "player", "me")
	assert.Equal(t, auth.Player.ID, me.ID)

	msg := runJSON[messageResponse](t, cli, "player", "logout")
	assert.Equal(t, "Logged out", msg.Message)

	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_RoomCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")

	room := runJSON[response.Room](t, cli, "room", "create", "--target", "50")
	assert.Equal(t, "waiting", room.Status)
	assert.Equal(t, 50, room.Config.TargetScore)
	require.Len(t, room.Members, 1)
	assert.True(t, room.Members[0].IsHost)

	room = runJSON[response.Room](t, cli, "room", "config", room.Code, "--target", "75")
	assert.Equal(t, 75, room.Config.TargetScore)

	room = runJSON[response.Room](t, cli, "room", "add-bot", room.Code, "--strategy", "random")
	require.Len(t, room.Members, 2)
	botID := room.Members[1].Player.ID
	assert.True(t, room.Members[1].Player.IsBot)

	runJSON[messageResponse](t, cli, "room", "remove-bot", room.Code, botID)
	room = runJSON[response.Room](t, cli, "room", "get", room.Code)
	assert.Len(t, room.Members, 1)

	msg := runJSON[messageResponse](t, cli, "room", "leave", room.Code)
	assert.Contains(t, msg.Message, "Left room")

	// The last human left, so the room is gone
	output, err := cli.run("room", "get", room.Code)
	assert.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_GameTurns(t *testing.T) {
	alice := newCLIRunner(t, startTestServer(t))
	bob := alice.withTokenFile(filepath.Join(t.TempDir(), "bob-token"))

	runJSON[response.AuthResponse](t, alice, "player", "guest", "--name", "Alice")
	runJSON[response.AuthResponse](t, bob, "player", "guest", "--name", "Bob")

	room := runJSON[response.Room](t, alice, "room", "create")
	code := room.Code

	room = runJSON[response.Room](t, bob, "room", "join", strings.ToLower(code))
	require.Len(t, room.Members, 2)

	runJSON[response.Room](t, alice, "room", "ready", code)
	runJSON[response.Room](t, bob, "room", "ready", code)

	// Alice hosts, so she holds seat 0 and moves first
	started := runJSON[response.TurnResponse](t, alice, "game", "start", code)
	require.NotNil(t, started.Game.GameView)
	assert.Equal(t, model.PlayerID(0), started.Game.CurrentPlayerID)
	require.Len(t, started.Game.Players, 2)

	game := runJSON[response.Game](t, bob, "game", "get", code)
	require.NotNil(t, game.MySeat)
	assert.Equal(t, model.PlayerID(1), *game.MySeat)
	assert.Nil(t, game.Players[0].Rack)
	assert.Len(t, game.Players[1].Rack, model.RackSize)

	// Out of turn
	output, err := bob.run("game", "end-turn", code)
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_YOUR_TURN")

	placed := runJSON[response.PlaceResponse](t, alice, "game", "place", code, "3:0")
	assert.Equal(t, []model.Position{{X: 3, Y: model.BoardSize - 1}}, placed.Positions)

	// Swapping is not allowed once tiles are down
	output, err = alice.run("game", "swap", code, "0")
	assert.Error(t, err)
	assert.Contains(t, output, "TURN_HAS_PLACEMENTS")

	turn := runJSON[response.TurnResponse](t, alice, "game", "remove", code, "3,6")
	assert.Empty(t, turn.Game.TurnTiles)

	turn = runJSON[response.TurnResponse](t, alice, "game", "end-turn", code)
	assert.Equal(t, model.PlayerID(1), turn.Game.CurrentPlayerID)

	turn = runJSON[response.TurnResponse](t, bob, "game", "swap", code, "0", "1")
	assert.Equal(t, model.PlayerID(0), turn.Game.CurrentPlayerID)
}

func TestCLI_ErrorHandling(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")

	runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")

	output, err = cli.run("room", "get", "NOPE00")
	assert.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")

	output, err = cli.run("game", "place", "NOPE00", "seven")
	assert.Error(t, err)
	assert.Contains(t, output, "invalid placement")
}
