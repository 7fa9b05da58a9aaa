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

	"github.com/numberparty/numberparty/internal/config"
	"github.com/numberparty/numberparty/internal/factory"
)

const testAdminKey = "CS2027"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "npgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/npgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
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

func (r *cliRunner) runAdmin(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--admin-key", testAdminKey,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
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

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(config.Default(), logger)
	require.NoError(t, err)

	server := &http.Server{
		Addr:    addr,
		Handler: app.Router(),
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
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

// Response types for JSON parsing
type playerViewResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SecretNumber *int     `json:"secret_number"`
	Operations   []string `json:"available_operations"`
	Connected    bool     `json:"connected"`
}

type roomResponse struct {
	Code                string `json:"code"`
	Status              string `json:"status"`
	AdminToken          string `json:"admin_token"`
	SacrificesRemaining int    `json:"sacrifices_remaining"`
	NumberRange         struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"number_range"`
	Players []playerViewResponse `json:"players"`
}

type joinResponse struct {
	PlayerID    string               `json:"player_id"`
	PlayerToken string               `json:"player_token"`
	Players     []playerViewResponse `json:"players"`
}

type startResponse struct {
	Status  string               `json:"status"`
	Players []playerViewResponse `json:"players"`
}

type moveResponse struct {
	PlayerAName string `json:"player_a_name"`
	PlayerBName string `json:"player_b_name"`
	Operation   string `json:"operation"`
	Result      string `json:"result"`
}

type sacrificeResponse struct {
	PlayerName          string   `json:"player_name"`
	SacrificesRemaining int      `json:"sacrifices_remaining"`
	Operations          []string `json:"operations"`
}

type scoresResponse struct {
	Scores []struct {
		PlayerID   string `json:"player_id"`
		PlayerName string `json:"player_name"`
		Score      int    `json:"score"`
	} `json:"scores"`
}

type snapshotResponse struct {
	Code    string               `json:"code"`
	Status  string               `json:"status"`
	Players []playerViewResponse `json:"players"`
	You     *struct {
		PlayerID   string   `json:"player_id"`
		Name       string   `json:"name"`
		Operations []string `json:"operations"`
	} `json:"you"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a room with a custom range
	output, err := cli.runAdmin("room", "create", "--range-min", "10", "--range-max", "50")
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Code, 4)
	assert.Equal(t, "lobby", room.Status)
	assert.NotEmpty(t, room.AdminToken)
	assert.Equal(t, 10, room.NumberRange.Min)
	assert.Equal(t, 50, room.NumberRange.Max)
	assert.Equal(t, 6, room.SacrificesRemaining)
	assert.Empty(t, room.Players)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Separate token files for the admin and the two players
	admin := newCLIRunner(t, ts.addr)
	cli1 := &cliRunner{
		binaryPath: admin.binaryPath,
		serverURL:  admin.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token1"),
	}
	cli2 := &cliRunner{
		binaryPath: admin.binaryPath,
		serverURL:  admin.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	// Admin creates a room; the token file now holds the admin token
	output, err := admin.runAdmin("room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	code := room.Code
	t.Logf("Created room: %s", code)

	// Two players join
	output, err = cli1.run("player", "join", code, "--name", "Ana")
	require.NoError(t, err, "output: %s", output)
	var join1 joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &join1))
	assert.NotEmpty(t, join1.PlayerToken)

	output, err = cli2.run("player", "join", code, "--name", "Bea")
	require.NoError(t, err, "output: %s", output)
	var join2 joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &join2))
	assert.Len(t, join2.Players, 2)

	// Admin starts the game and sees every secret number
	output, err = admin.run("room", "start", code)
	require.NoError(t, err, "output: %s", output)
	var start startResponse
	require.NoError(t, json.Unmarshal([]byte(output), &start))
	assert.Equal(t, "playing", start.Status)
	require.Len(t, start.Players, 2)
	for _, p := range start.Players {
		require.NotNil(t, p.SecretNumber)
		assert.GreaterOrEqual(t, *p.SecretNumber, 1)
		assert.LessOrEqual(t, *p.SecretNumber, 100)
	}

	// Admin runs a reveal operation between the two players
	output, err = admin.run("room", "operation", code, join1.PlayerID, join2.PlayerID, "*")
	require.NoError(t, err, "output: %s", output)
	var move moveResponse
	require.NoError(t, json.Unmarshal([]byte(output), &move))
	assert.Equal(t, "Ana", move.PlayerAName)
	assert.Equal(t, "Bea", move.PlayerBName)
	assert.Equal(t, "*", move.Operation)
	assert.NotEmpty(t, move.Result)

	// Ana spent her card; a sacrifice stacks a fresh set on her hand
	output, err = admin.run("room", "sacrifice", code, join1.PlayerID)
	require.NoError(t, err, "output: %s", output)
	var sac sacrificeResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sac))
	assert.Equal(t, "Ana", sac.PlayerName)
	assert.Equal(t, 5, sac.SacrificesRemaining)
	assert.Len(t, sac.Operations, 7)

	// Ana records a guess about Bea and a self guess
	output, err = cli1.run("player", "guess", code,
		join1.PlayerID+"=42", join2.PlayerID+"=17")
	require.NoError(t, err, "output: %s", output)

	// Bea bets on Ana finishing last, then submits
	output, err = cli2.run("player", "bet", code, join1.PlayerID)
	require.NoError(t, err, "output: %s", output)
	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Contains(t, msg.Message, "Bet placed")

	output, err = cli2.run("player", "submit", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Answers submitted", msg.Message)

	// Ana reconnects and sees her own hand but no secret numbers
	output, err = cli1.run("player", "reconnect", code)
	require.NoError(t, err, "output: %s", output)
	var snap snapshotResponse
	require.NoError(t, json.Unmarshal([]byte(output), &snap))
	assert.Equal(t, "playing", snap.Status)
	require.NotNil(t, snap.You)
	assert.Equal(t, "Ana", snap.You.Name)
	assert.Len(t, snap.You.Operations, 7)
	for _, p := range snap.Players {
		assert.Nil(t, p.SecretNumber)
	}

	// Admin ends the game
	output, err = admin.run("room", "end", code)
	require.NoError(t, err, "output: %s", output)
	var scores scoresResponse
	require.NoError(t, json.Unmarshal([]byte(output), &scores))
	require.Len(t, scores.Scores, 2)
}

func TestCLI_AdminReconnect(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	admin := newCLIRunner(t, ts.addr)

	output, err := admin.runAdmin("room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))

	// Reclaim the room; a fresh token replaces the saved one
	output, err = admin.runAdmin("room", "reconnect", room.Code)
	require.NoError(t, err, "output: %s", output)

	var reclaim struct {
		AdminToken string           `json:"admin_token"`
		Snapshot   snapshotResponse `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &reclaim))
	assert.NotEmpty(t, reclaim.AdminToken)
	assert.NotEqual(t, room.AdminToken, reclaim.AdminToken)
	assert.Equal(t, room.Code, reclaim.Snapshot.Code)

	// The old token no longer starts the game
	output, err = admin.runWithToken(room.AdminToken, "room", "start", room.Code)
	assert.Error(t, err, "stale admin token should be rejected")
	assert.Contains(t, strings.ToLower(output), "admin")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Room creation without the admin key
	output, err := cli.run("room", "create")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "authentication")

	// Joining a room that does not exist
	output, err = cli.run("player", "join", "ZZZZ", "--name", "Ana")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
