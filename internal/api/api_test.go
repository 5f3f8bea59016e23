package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/grabble/internal/api"
	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/factory"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/bot"
	"github.com/mcoot/grabble/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		RoomService: app.RoomService,
		BotService:  app.BotService,
		Dictionary:  app.DictionaryService,
		HubManager:  app.HubManager,
	})
	t.Cleanup(app.HubManager.CloseAll)

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// setRack replaces a seat's rack in storage
func (ts *testServer) setRack(t *testing.T, code string, seat model.PlayerID, letters string) {
	t.Helper()
	ctx := context.Background()
	rm, err := ts.app.Memory.GetRoom(ctx, model.RoomCode(code))
	require.NoError(t, err)
	rack := make([]model.Tile, 0, len(letters))
	for _, r := range letters {
		rack = append(rack, model.NewTile(string(r)))
	}
	rm.Game.Player(seat).Rack = rack
	require.NoError(t, ts.app.Memory.SaveRoom(ctx, rm))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Health](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.ActiveRooms)
	assert.True(t, resp.Dictionary)

	token := createGuestPlayer(t, ts, "Alice")
	createRoom(t, ts, token, "ROOM01", nil)

	resp = decode[response.Health](t, ts.request(http.MethodGet, "/api/v1/health", nil, ""))
	assert.Equal(t, 1, resp.ActiveRooms)
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	resp := decode[response.AuthResponse](t, rr)
	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestCreateGuestPlayer_InvalidName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidName, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/players/guest", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestRegisterLoginLogout(t *testing.T) {
	ts := newTestServer(t)

	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	registerResp := decode[response.AuthResponse](t, rr)
	assert.False(t, registerResp.Player.IsGuest)

	rr = ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loginResp := decode[response.AuthResponse](t, rr)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)

	rr = ts.request(http.MethodPost, "/api/v1/players/logout", nil, loginResp.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, loginResp.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	meResp := decode[response.Player](t, rr)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateAndJoinRoom(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")

	roomResp := createRoom(t, ts, token1, "ROOM01", map[string]any{"target_score": 50})
	assert.Equal(t, "ROOM01", roomResp.Code)
	assert.Equal(t, "waiting", roomResp.Status)
	assert.Equal(t, 50, roomResp.Config.TargetScore)
	assert.False(t, roomResp.HasPassword)
	require.Len(t, roomResp.Members, 1)
	assert.True(t, roomResp.Members[0].IsHost)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.Room](t, rr).Members, 2)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyInRoom, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/rooms/NOPE99", nil, token2)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRoomNotFound, errorCode(t, rr))
}

func TestPasswordRoom(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")

	roomResp := createRoom(t, ts, token1, "LOCKED", map[string]any{"password": "hunter2"})
	assert.True(t, roomResp.HasPassword)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/LOCKED", nil, token1)
	assert.NotContains(t, rr.Body.String(), "password_hash")

	rr = ts.request(http.MethodPost, "/api/v1/rooms/LOCKED/join", map[string]string{"password": "nope"}, token2)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeWrongPassword, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/rooms/LOCKED/join", map[string]string{"password": "hunter2"}, token2)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoomHostActions(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	createRoom(t, ts, token1, "ROOM01", nil)
	ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)

	// Non-host can't change config
	rr := ts.request(http.MethodPatch, "/api/v1/rooms/ROOM01/config", map[string]int{"target_score": 30}, token2)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotHost, errorCode(t, rr))

	rr = ts.request(http.MethodPatch, "/api/v1/rooms/ROOM01/config", map[string]int{"target_score": -1}, token1)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/rooms/ROOM01/config", map[string]int{"target_score": 30}, token1)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 30, decode[response.Room](t, rr).Config.TargetScore)

	// Starting needs everyone ready
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil, token1)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodePlayersNotReady, errorCode(t, rr))

	// Non-host can't start
	setReady(t, ts, "ROOM01", token1, token2)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil, token2)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestReadyToggle(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	createRoom(t, ts, token, "ROOM01", nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/ready", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[response.Room](t, rr).Members[0].Ready)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/ready", map[string]bool{"ready": false}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[response.Room](t, rr).Members[0].Ready)
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	createRoom(t, ts, token1, "ROOM01", map[string]any{"target_score": 5})
	ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)
	setReady(t, ts, "ROOM01", token1, token2)

	// Start
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil, token1)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	started := decode[response.TurnResponse](t, rr)
	assert.Equal(t, model.GameStatusPlaying, started.Game.Status)
	assert.Equal(t, model.PlayerID(0), started.Game.CurrentPlayerID)
	assert.Equal(t, 100-2*model.RackSize, started.Game.BagCount)

	// Bob can't place on Alice's turn
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/place", placeBody(3, 0), token2)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))

	// Alice drops C, A, T into column 3
	ts.setRack(t, "ROOM01", 0, "CATXYZQ")
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/place", placeBody(3, 0, 1, 2), token1)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	placed := decode[response.PlaceResponse](t, rr)
	cat := []model.Position{{X: 3, Y: 4}, {X: 3, Y: 5}, {X: 3, Y: 6}}
	assert.Equal(t, cat, placed.Positions)
	assert.Equal(t, cat, placed.Game.TurnTiles)

	// Validate without scoring
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/validate", claimBody(cat), token1)
	require.Equal(t, http.StatusOK, rr.Code)
	validated := decode[model.ClaimBatchResult](t, rr)
	assert.True(t, validated.Valid)
	assert.Equal(t, 5, validated.TotalScore)

	// Claim and win
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/claim", claimBody(cat), token1)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	claimed := decode[response.ClaimResponse](t, rr)
	assert.True(t, claimed.Result.Valid)
	require.Len(t, claimed.Result.Results, 1)
	assert.Equal(t, "CAT", claimed.Result.Results[0].Word)
	assert.True(t, claimed.Finished)
	assert.Equal(t, model.GameStatusFinished, claimed.Game.Status)
	require.NotNil(t, claimed.Game.WinnerID)
	assert.Equal(t, model.PlayerID(0), *claimed.Game.WinnerID)
	assert.Equal(t, model.PlayerID(1), claimed.Game.CurrentPlayerID)

	// The room is back to waiting with the game recorded
	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01", nil, token2)
	roomResp := decode[response.Room](t, rr)
	assert.Equal(t, "waiting", roomResp.Status)
	require.Len(t, roomResp.GameHistory, 1)
	assert.Equal(t, "Alice", roomResp.GameHistory[0].Winner)
}

func TestInvalidClaimKeepsTurn(t *testing.T) {
	ts := newTestServer(t)
	token1, _ := startTwoPlayerGame(t, ts)

	ts.setRack(t, "ROOM01", 0, "XYZCATQ")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/place", placeBody(1, 0, 1, 2), token1)
	require.Equal(t, http.StatusOK, rr.Code)

	xyz := []model.Position{{X: 1, Y: 4}, {X: 1, Y: 5}, {X: 1, Y: 6}}
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/claim", claimBody(xyz), token1)
	require.Equal(t, http.StatusOK, rr.Code)
	claimed := decode[response.ClaimResponse](t, rr)
	assert.False(t, claimed.Result.Valid)
	assert.Equal(t, 0, claimed.Result.TotalScore)
	require.Len(t, claimed.Result.Results, 1)
	assert.Equal(t, model.ReasonNotInDictionary, claimed.Result.Results[0].Reason)
	assert.False(t, claimed.Finished)
	assert.Equal(t, model.PlayerID(0), claimed.Game.CurrentPlayerID)
	assert.Len(t, claimed.Game.TurnTiles, 3)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/claim", map[string]any{"claims": []any{}}, token1)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNoClaims, errorCode(t, rr))
}

func TestRemoveAndBlank(t *testing.T) {
	ts := newTestServer(t)
	token1, token2 := startTwoPlayerGame(t, ts)

	ts.setRack(t, "ROOM01", 0, " CATXYZ")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/place", placeBody(2, 0, 1), token1)
	require.Equal(t, http.StatusOK, rr.Code)

	// Blank landed on top at (2,5)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/blank", map[string]any{"x": 2, "y": 5, "letter": "e"}, token1)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game := decode[response.TurnResponse](t, rr).Game
	assert.Equal(t, "E", game.Board.Get(model.Position{X: 2, Y: 5}).DisplayLetter())

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/blank", map[string]any{"x": 2, "y": 6, "letter": "E"}, token1)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNotBlank, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/remove", map[string]int{"x": 2, "y": 6}, token2)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/remove", map[string]int{"x": 2, "y": 6}, token1)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game = decode[response.TurnResponse](t, rr).Game
	assert.Equal(t, []model.Position{{X: 2, Y: 6}}, game.TurnTiles)
	assert.True(t, game.Board.Get(model.Position{X: 2, Y: 6}).IsBlank())
	assert.Len(t, game.Players[0].Rack, 6)
}

func TestSwapAndEndTurn(t *testing.T) {
	ts := newTestServer(t)
	token1, token2 := startTwoPlayerGame(t, ts)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/swap", map[string]any{"tile_indices": []int{0, 2}}, token1)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game := decode[response.TurnResponse](t, rr).Game
	assert.Equal(t, model.PlayerID(1), game.CurrentPlayerID)
	assert.Equal(t, 100-2*model.RackSize, game.BagCount)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/end-turn", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.PlayerID(0), decode[response.TurnResponse](t, rr).Game.CurrentPlayerID)

	// No swapping once tiles are down
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/place", placeBody(0, 0), token1)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/swap", map[string]any{"tile_indices": []int{0}}, token1)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeTurnHasPlacements, errorCode(t, rr))
}

func TestGameViewHidesOtherRacks(t *testing.T) {
	ts := newTestServer(t)
	token1, token2 := startTwoPlayerGame(t, ts)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/ROOM01/game", nil, token1)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	game := decode[response.Game](t, rr)
	require.NotNil(t, game.MySeat)
	assert.Equal(t, model.PlayerID(0), *game.MySeat)
	assert.Len(t, game.Players[0].Rack, model.RackSize)
	assert.Empty(t, game.Players[1].Rack)
	assert.Equal(t, model.RackSize, game.Players[1].RackCount)
	assert.NotContains(t, rr.Body.String(), "tile_bag")

	// A user outside the room sees no racks at all
	token3 := createGuestPlayer(t, ts, "Carol")
	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01/game", nil, token3)
	require.Equal(t, http.StatusOK, rr.Code)
	game = decode[response.Game](t, rr)
	assert.Nil(t, game.MySeat)
	assert.Empty(t, game.Players[0].Rack)

	_ = token2
}

func TestBotPlaysAfterHuman(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	createRoom(t, ts, token, "BOTS01", nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/BOTS01/bots", map[string]string{"strategy": "clever"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownStrategy, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/rooms/BOTS01/bots", map[string]string{"strategy": model.BotStrategyGreedy}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	roomResp := decode[response.Room](t, rr)
	require.Len(t, roomResp.Members, 2)
	assert.True(t, roomResp.Members[1].Player.IsBot)
	assert.Equal(t, "Greedy Bot 1", roomResp.Members[1].Player.DisplayName)

	setReady(t, ts, "BOTS01", token)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/BOTS01/game", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	// The bot can't score with these and swaps, handing the turn back
	ts.setRack(t, "BOTS01", 1, "QZXJVVW")
	rr = ts.request(http.MethodPost, "/api/v1/rooms/BOTS01/game/end-turn", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[response.TurnResponse](t, rr)
	require.NotEmpty(t, resp.BotActions)
	assert.Equal(t, bot.ActionSwap, resp.BotActions[0].Type)
	assert.Equal(t, model.PlayerID(0), resp.Game.CurrentPlayerID)
}

func TestRemoveBot(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	createRoom(t, ts, token, "BOTS01", nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/BOTS01/bots", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	botID := decode[response.Room](t, rr).Members[1].Player.ID

	rr = ts.request(http.MethodDelete, "/api/v1/rooms/BOTS01/bots/"+botID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/BOTS01", nil, token)
	assert.Len(t, decode[response.Room](t, rr).Members, 1)
}

func TestLeaveRoom(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	createRoom(t, ts, token1, "ROOM01", nil)
	ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)

	// Host leaves; Bob takes over
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/leave", nil, token1)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01", nil, token2)
	roomResp := decode[response.Room](t, rr)
	require.Len(t, roomResp.Members, 1)
	assert.True(t, roomResp.Members[0].IsHost)

	// Last human out closes the room
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/leave", nil, token2)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01", nil, token2)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	createRoom(t, ts, token1, "ROOM01", nil)

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/rooms/ROOM01/events?token="+token1, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	// Skip the rest of the connected event
	for line != "\n" {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
	}

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: room-update\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, `"room_code":"ROOM01"`)
}

func TestEventStream_UnknownRoom(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/NOPE99/events", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Helper functions

func createGuestPlayer(t *testing.T, ts *testServer, displayName string) string {
	t.Helper()

	body := map[string]string{"display_name": displayName}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	return decode[response.AuthResponse](t, rr).SessionToken
}

func createRoom(t *testing.T, ts *testServer, token, code string, body map[string]any) response.Room {
	t.Helper()

	ts.app.MockRandom.QueueString(code)
	var reqBody any
	if body != nil {
		reqBody = body
	}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", reqBody, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	return decode[response.Room](t, rr)
}

func setReady(t *testing.T, ts *testServer, code string, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/ready", map[string]bool{"ready": true}, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

// startTwoPlayerGame starts a game in ROOM01. Alice (the first token) is
// seat 0 and moves first.
func startTwoPlayerGame(t *testing.T, ts *testServer) (string, string) {
	t.Helper()

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	createRoom(t, ts, token1, "ROOM01", nil)
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)
	setReady(t, ts, "ROOM01", token1, token2)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil, token1)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return token1, token2
}

func placeBody(column int, indices ...int) map[string]any {
	placements := make([]map[string]int, len(indices))
	for i, idx := range indices {
		placements[i] = map[string]int{"column": column, "tile_index": idx}
	}
	return map[string]any{"placements": placements}
}

func claimBody(claims ...[]model.Position) map[string]any {
	out := make([]map[string]any, len(claims))
	for i, positions := range claims {
		out[i] = map[string]any{"positions": positions}
	}
	return map[string]any{"claims": out}
}
