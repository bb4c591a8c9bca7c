package boardsync

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/mvappshub/opsboard/internal/domain"
)

// RateLimitedMover spaces out move notifications so that a burst of drops
// does not flood the server. Requests wait for a token instead of being
// refused.
type RateLimitedMover struct {
	next    Mover
	limiter *rate.Limiter
}

// NewRateLimitedMover wraps next with a limiter allowing requestsPerSecond
// with the given burst. A non-positive rate disables limiting and returns
// next unchanged.
func NewRateLimitedMover(next Mover, requestsPerSecond float64, burst int) Mover {
	if requestsPerSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedMover{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (m *RateLimitedMover) Move(ctx context.Context, evt *domain.MoveEvent) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("boardsync.RateLimitedMover.Move: %w", err)
	}
	return m.next.Move(ctx, evt)
}
