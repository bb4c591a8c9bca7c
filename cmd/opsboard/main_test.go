package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type moveRequest struct {
	card          string
	list          string
	correlationID string
}

type boardServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []moveRequest
}

func newBoardServer(t *testing.T) *boardServer {
	t.Helper()

	bs := &boardServer{}
	r := chi.NewRouter()
	r.Post("/ui/cards/{cardID}/move", func(w http.ResponseWriter, r *http.Request) {
		bs.mu.Lock()
		bs.requests = append(bs.requests, moveRequest{
			card:          chi.URLParam(r, "cardID"),
			list:          r.FormValue("list_id"),
			correlationID: r.Header.Get("X-Request-Id"),
		})
		bs.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	bs.Server = httptest.NewServer(r)
	t.Cleanup(bs.Close)
	return bs
}

func (bs *boardServer) received() []moveRequest {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	out := make([]moveRequest, len(bs.requests))
	copy(out, bs.requests)
	return out
}

// executeCommand runs the root command with a clean OPSBOARD environment.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPSBOARD_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("OPSBOARD_LOG_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

// ---------------------------------------------------------------------------
// move
// ---------------------------------------------------------------------------

func TestMoveCommand(t *testing.T) {
	srv := newBoardServer(t)

	out, err := executeCommand(t, "move", "42", "list-7", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Sent: card 42 -> list list-7")

	reqs := srv.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, "42", reqs[0].card)
	assert.Equal(t, "list-7", reqs[0].list)
	assert.NotEmpty(t, reqs[0].correlationID)
}

func TestMoveCommand_Errors(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "blank card", args: []string{"move", " ", "2"}, wantMsg: "card"},
		{name: "blank list", args: []string{"move", "1", ""}, wantMsg: "list"},
		{name: "bad base url", args: []string{"move", "1", "2", "--base-url", "localhost"}, wantMsg: "--base-url"},
		{name: "unreachable server", args: []string{"move", "1", "2", "--base-url", closedURL}, wantMsg: "boardsync.HTTPMover.Move"},
		{name: "missing args", args: []string{"move", "1"}, wantMsg: "accepts 2 arg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := executeCommand(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// replay
// ---------------------------------------------------------------------------

const replayScript = `
lists:
  - id: "1"
    cards: ["10", "11"]
  - id: "2"
late_lists:
  - id: "9"
moves:
  - card: "10"
    to: "2"
  - card: "11"
    to: "1"
    index: 0
  - card: "11"
    to: "9"
`

func TestReplayCommand(t *testing.T) {
	srv := newBoardServer(t)
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(replayScript), 0o600))

	out, err := executeCommand(t, "replay", path, "--base-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "sent=1 reordered=1 rejected=1")
	assert.Contains(t, out, "rejected: list not registered")
	assert.NotContains(t, out, "not delivered")

	reqs := srv.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, moveRequest{card: "10", list: "2", correlationID: reqs[0].correlationID}, reqs[0])
}

func TestReplayCommand_ReportsUndelivered(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(replayScript), 0o600))

	out, err := executeCommand(t, "replay", path, "--base-url", closedURL)
	require.NoError(t, err)
	assert.Contains(t, out, "sent=1")
	assert.Contains(t, out, "not delivered: card 10 -> list 2")
}

func TestReplayCommand_InvalidScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moves:\n  - card: \"1\"\n    to: \"2\"\n"), 0o600))

	_, err := executeCommand(t, "replay", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay.Load")
}

// ---------------------------------------------------------------------------
// storyboard
// ---------------------------------------------------------------------------

func TestStoryboardCommand_NoEncoder(t *testing.T) {
	t.Setenv("OPSBOARD_FFMPEG", "opsboard-test-missing-ffmpeg")
	dir := filepath.Join(t.TempDir(), "out")

	out, err := executeCommand(t, "storyboard", "--out", dir)
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg not found; generated storyboard only.\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "storyboard.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenes"`)
	assert.NoFileExists(t, filepath.Join(dir, "demo.mp4"))
}

func TestStoryboardCommand_S3RequiresBucket(t *testing.T) {
	_, err := executeCommand(t, "storyboard", "--s3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPSBOARD_S3_BUCKET")
}

// ---------------------------------------------------------------------------
// root
// ---------------------------------------------------------------------------

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := executeCommand(t, "move", "1", "2", "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestRootCommand_Help(t *testing.T) {
	out, err := executeCommand(t)
	require.NoError(t, err)
	for _, name := range []string{"replay", "move", "storyboard"} {
		assert.Contains(t, out, name)
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := renderTable(
		[]string{"#", "Card", "Outcome"},
		[][]string{{"1", "10", "sent"}, {"2", "11"}},
		[]columnAlignment{alignRight},
	)
	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, out, "Card")
	assert.Contains(t, out, "sent")
	assert.True(t, strings.HasPrefix(lines[0], "╭"))

	assert.Empty(t, renderTable(nil, nil, nil))
	assert.Contains(t, renderTable([]string{"Card"}, nil, nil), "no moves played")
}
