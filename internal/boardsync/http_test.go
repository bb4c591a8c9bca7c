package boardsync_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvappshub/opsboard/internal/boardsync"
	"github.com/mvappshub/opsboard/internal/domain"
)

func TestMovePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card domain.CardID
		want string
	}{
		{"42", "/ui/cards/42/move"},
		{"card-7", "/ui/cards/card-7/move"},
		{"a/b", "/ui/cards/a%2Fb/move"},
		{"with space", "/ui/cards/with%20space/move"},
	}

	for _, tt := range tests {
		t.Run(string(tt.card), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, boardsync.MovePath(tt.card))
		})
	}
}

func TestNewHTTPMover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8000"},
		{name: "https with path", baseURL: "https://ops.example.com/board/"},
		{name: "missing scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "ftp scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "no host", baseURL: "http://", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := boardsync.NewHTTPMover(tt.baseURL, nil, time.Second)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestHTTPMover_Move(t *testing.T) {
	t.Parallel()

	srv, rec := newMoveServer(t, http.StatusOK)

	// A trailing slash on the base URL must not produce a double slash.
	mover, err := boardsync.NewHTTPMover(srv.URL+"/", srv.Client(), 0)
	require.NoError(t, err)

	evt, err := domain.NewMoveEvent("17", "3")
	require.NoError(t, err)
	require.NoError(t, mover.Move(t.Context(), evt))

	moves := rec.all()
	require.Len(t, moves, 1)
	assert.Equal(t, "17", moves[0].cardID)
	assert.Equal(t, "list_id=3", moves[0].rawBody)
	assert.Equal(t, evt.CorrelationID.String(), moves[0].correlationID)
}
