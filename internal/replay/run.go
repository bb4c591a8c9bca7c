package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mvappshub/opsboard/internal/boardsync"
	"github.com/mvappshub/opsboard/internal/dnd"
	"github.com/mvappshub/opsboard/internal/dom"
	"github.com/mvappshub/opsboard/internal/domain"
)

// Outcome is what a single gesture led to.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeReordered Outcome = "reordered"
	OutcomeRejected  Outcome = "rejected"
)

// Step records one played gesture.
type Step struct {
	Card    string
	From    string
	To      string
	Outcome Outcome
	Reason  string
}

// Result is the outcome of a replay.
type Result struct {
	Steps []Step
}

// Count returns the number of steps with outcome o.
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Board is the rendered document with its lists and cards indexed by ID.
type Board struct {
	Doc   *dom.Document
	Lists map[string]*dom.Element
	Cards map[string]*dom.Element
}

// Build renders the start-up lists of s. Late lists are not rendered.
func Build(s *Script) (*Board, error) {
	b := &Board{
		Doc:   dom.NewDocument(),
		Lists: make(map[string]*dom.Element),
		Cards: make(map[string]*dom.Element),
	}
	if err := b.render(s.Lists); err != nil {
		return nil, fmt.Errorf("replay.Build: %w", err)
	}
	return b, nil
}

func (b *Board) render(lists []ListSpec) error {
	for _, l := range lists {
		list := dom.NewElement("div", domain.CardListClass).SetAttr(domain.ListIDAttr, l.ID)
		if err := b.Doc.Body.Append(list); err != nil {
			return err
		}
		b.Lists[l.ID] = list
		for _, c := range l.Cards {
			card := dom.NewElement("div", "card").SetAttr(domain.CardIDAttr, c)
			if err := list.Append(card); err != nil {
				return err
			}
			b.Cards[c] = card
		}
	}
	return nil
}

// Run builds the board, binds client to the lists present at start-up,
// renders the late lists, then plays every move and waits for the client to
// finish sending.
func Run(ctx context.Context, s *Script, client *boardsync.Client) (*Result, error) {
	board, err := Build(s)
	if err != nil {
		return nil, err
	}

	group := client.Bind(board.Doc.FindByClass(domain.CardListClass))

	if err := board.render(s.LateLists); err != nil {
		return nil, fmt.Errorf("replay.Run: render late lists: %w", err)
	}

	res := &Result{Steps: make([]Step, 0, len(s.Moves))}
	defer client.Wait()

	for _, m := range s.Moves {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("replay.Run: %w", err)
		}
		res.Steps = append(res.Steps, play(group, board, m))
	}

	log.Info().
		Int("sent", res.Count(OutcomeSent)).
		Int("reordered", res.Count(OutcomeReordered)).
		Int("rejected", res.Count(OutcomeRejected)).
		Msg("replay finished")
	return res, nil
}

func play(group *dnd.Group, board *Board, m MoveSpec) Step {
	card := board.Cards[m.Card]
	to := board.Lists[m.To]
	from := card.Parent()

	step := Step{Card: m.Card, To: m.To}
	if from != nil {
		step.From, _ = from.Attr(domain.ListIDAttr)
	}

	index := -1
	if m.Index != nil {
		index = *m.Index
	}

	err := group.Move(card, to, index)
	switch {
	case err == nil && from == to:
		step.Outcome = OutcomeReordered
	case err == nil:
		step.Outcome = OutcomeSent
	case errors.Is(err, dnd.ErrNotRegistered):
		step.Outcome = OutcomeRejected
		step.Reason = "list not registered"
	default:
		step.Outcome = OutcomeRejected
		step.Reason = err.Error()
	}

	log.Debug().Str("card_id", step.Card).Str("from", step.From).Str("to", step.To).Str("outcome", string(step.Outcome)).Msg("gesture played")
	return step
}
