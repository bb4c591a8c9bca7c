package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvappshub/opsboard/internal/domain"
)

// Stage tells where a move notification failed.
type Stage string

const (
	StagePrecondition Stage = "precondition"
	StageTransport    Stage = "transport"
)

// Failure describes a move notification that did not reach the server.
// CardID and ListID are empty when the corresponding attribute was missing.
type Failure struct {
	Stage  Stage
	CardID domain.CardID
	ListID domain.ListID
	Err    error
}

// Reporter receives move failures. Implementations must be safe for
// concurrent use: transport failures are reported from send goroutines.
type Reporter interface {
	Report(ctx context.Context, f Failure)
}

// Func adapts a plain function to Reporter.
type Func func(ctx context.Context, f Failure)

func (fn Func) Report(ctx context.Context, f Failure) { fn(ctx, f) }

// Discard drops every failure.
var Discard Reporter = Func(func(context.Context, Failure) {}) //nolint:gochecknoglobals // stateless

// LogReporter writes failures to the global zerolog logger at Level.
type LogReporter struct {
	Level zerolog.Level
}

// NewLogReporter returns a reporter logging at level.
func NewLogReporter(level zerolog.Level) *LogReporter {
	return &LogReporter{Level: level}
}

func (l *LogReporter) Report(_ context.Context, f Failure) {
	log.WithLevel(l.Level).
		Err(f.Err).
		Str("stage", string(f.Stage)).
		Str("card_id", string(f.CardID)).
		Str("list_id", string(f.ListID)).
		Msg("card move not delivered")
}
