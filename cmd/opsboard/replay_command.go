package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mvappshub/opsboard/internal/boardsync"
	"github.com/mvappshub/opsboard/internal/notify"
	"github.com/mvappshub/opsboard/internal/replay"
)

func newReplayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Play a scripted drag session against the board server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := replay.LoadFile(args[0])
			if err != nil {
				return err
			}

			failures := &failureLog{}
			client, err := ctx.syncClient(failures, boardsync.WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			res, err := replay.Run(cmd.Context(), script, client)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Card", "From", "To", "Outcome"},
				replayRows(res),
				[]columnAlignment{alignRight},
			))
			fmt.Fprintf(out, "sent=%d reordered=%d rejected=%d\n",
				res.Count(replay.OutcomeSent),
				res.Count(replay.OutcomeReordered),
				res.Count(replay.OutcomeRejected),
			)
			for _, f := range failures.list() {
				fmt.Fprintf(out, "not delivered: card %s -> list %s: %v\n", f.CardID, f.ListID, f.Err)
			}
			return nil
		},
	}
}

func replayRows(res *replay.Result) [][]string {
	rows := make([][]string, 0, len(res.Steps))
	for i, s := range res.Steps {
		outcome := string(s.Outcome)
		if s.Reason != "" {
			outcome += ": " + s.Reason
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), s.Card, s.From, s.To, outcome})
	}
	return rows
}

// failureLog collects reported failures for the end-of-run summary.
type failureLog struct {
	mu       sync.Mutex
	failures []notify.Failure
}

func (l *failureLog) Report(_ context.Context, f notify.Failure) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, f)
}

func (l *failureLog) list() []notify.Failure {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]notify.Failure, len(l.failures))
	copy(out, l.failures)
	return out
}
