package boardsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvappshub/opsboard/internal/boardsync"
	"github.com/mvappshub/opsboard/internal/domain"
)

type countingMover struct {
	calls int
}

func (m *countingMover) Move(context.Context, *domain.MoveEvent) error {
	m.calls++
	return nil
}

func TestNewRateLimitedMover_Disabled(t *testing.T) {
	t.Parallel()

	next := &countingMover{}
	assert.Same(t, next, boardsync.NewRateLimitedMover(next, 0, 5))
	assert.Same(t, next, boardsync.NewRateLimitedMover(next, -1, 5))
}

func TestRateLimitedMover_PassesThroughWithinBurst(t *testing.T) {
	t.Parallel()

	next := &countingMover{}
	m := boardsync.NewRateLimitedMover(next, 1, 3)

	evt, err := domain.NewMoveEvent("1", "2")
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, m.Move(t.Context(), evt))
	}
	assert.Equal(t, 3, next.calls)
}

func TestRateLimitedMover_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	next := &countingMover{}
	m := boardsync.NewRateLimitedMover(next, 0.001, 1)

	evt, err := domain.NewMoveEvent("1", "2")
	require.NoError(t, err)
	require.NoError(t, m.Move(t.Context(), evt))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	err = m.Move(ctx, evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boardsync.RateLimitedMover.Move")
	assert.Equal(t, 1, next.calls)
}
