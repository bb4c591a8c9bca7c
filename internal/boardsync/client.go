package boardsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvappshub/opsboard/internal/dnd"
	"github.com/mvappshub/opsboard/internal/dom"
	"github.com/mvappshub/opsboard/internal/domain"
	"github.com/mvappshub/opsboard/internal/notify"
)

// Mover delivers a move notification to the server.
type Mover interface {
	Move(ctx context.Context, evt *domain.MoveEvent) error
}

// Option configures the client.
type Option func(*Client)

// WithReporter injects the failure hook. A nil reporter is ignored.
func WithReporter(r notify.Reporter) Option {
	return func(c *Client) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithStrict makes precondition failures panic inside the drop handler.
// Meant for development builds.
func WithStrict(strict bool) Option {
	return func(c *Client) {
		c.strict = strict
	}
}

// WithContext sets the context used for outgoing requests. Cancelling it
// aborts requests still in flight.
func WithContext(ctx context.Context) Option {
	return func(c *Client) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Client is the board sync client.
type Client struct {
	mover    Mover
	reporter notify.Reporter
	strict   bool
	ctx      context.Context //nolint:containedctx // base context for detached sends
	group    *dnd.Group

	inflight sync.WaitGroup
}

// New creates a Client sending through mover.
func New(mover Mover, opts ...Option) *Client {
	c := &Client{
		mover:    mover,
		reporter: notify.NewLogReporter(zerolog.DebugLevel),
		ctx:      context.Background(),
		group:    dnd.NewGroup(domain.KanbanGroupKey),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind registers every container in the client's single group so cards can
// be dragged between any two of them. Only the containers passed here are
// ever tracked.
func (c *Client) Bind(containers []*dom.Element) *dnd.Group {
	for _, el := range containers {
		c.group.Add(el, dnd.Handlers{OnAdd: c.onAdd})
	}
	log.Debug().Int("containers", len(containers)).Str("group", c.group.Name()).Msg("board sync bound")
	return c.group
}

// Group returns the interaction group the containers are bound to.
func (c *Client) Group() *dnd.Group { return c.group }

func (c *Client) onAdd(evt dnd.AddEvent) {
	if err := c.HandleAdd(evt); err != nil && c.strict {
		panic(err)
	}
}

// HandleAdd handles a card that landed in a new list. It returns once the
// request is dispatched; the only error is a missing identifier attribute,
// in which case nothing is sent.
func (c *Client) HandleAdd(evt dnd.AddEvent) error {
	rawCard, _ := evt.Item.Attr(domain.CardIDAttr)
	card, err := domain.ParseCardID(rawCard)
	if err != nil {
		return c.reject(notify.Failure{Stage: notify.StagePrecondition, Err: err})
	}

	rawList, _ := evt.To.Attr(domain.ListIDAttr)
	list, err := domain.ParseListID(rawList)
	if err != nil {
		return c.reject(notify.Failure{Stage: notify.StagePrecondition, CardID: card, Err: err})
	}

	mv, err := domain.NewMoveEvent(card, list)
	if err != nil {
		return c.reject(notify.Failure{Stage: notify.StagePrecondition, CardID: card, ListID: list, Err: err})
	}

	c.inflight.Add(1)
	go c.send(mv)
	return nil
}

// Wait blocks until every dispatched request has completed.
func (c *Client) Wait() {
	c.inflight.Wait()
}

func (c *Client) reject(f notify.Failure) error {
	log.Debug().Err(f.Err).Str("card_id", string(f.CardID)).Msg("card move dropped")
	c.reporter.Report(c.ctx, f)
	return fmt.Errorf("boardsync.Client.HandleAdd: %w: %w", domain.ErrPrecondition, f.Err)
}

func (c *Client) send(mv *domain.MoveEvent) {
	defer c.inflight.Done()

	err := c.move(mv)
	if err != nil {
		c.reporter.Report(c.ctx, notify.Failure{
			Stage:  notify.StageTransport,
			CardID: mv.CardID,
			ListID: mv.ListID,
			Err:    err,
		})
		return
	}

	log.Debug().
		Str("card_id", string(mv.CardID)).
		Str("list_id", string(mv.ListID)).
		Str("correlation_id", mv.CorrelationID.String()).
		Msg("card move sent")
}

// move calls the mover, turning a panic into an error so that a broken
// transport cannot take the page down.
func (c *Client) move(mv *domain.MoveEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("boardsync.Client.move: mover panicked: %v", r)
		}
	}()
	return c.mover.Move(c.ctx, mv)
}
