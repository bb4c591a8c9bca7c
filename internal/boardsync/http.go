package boardsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mvappshub/opsboard/internal/domain"
)

// CorrelationHeader carries the per-move correlation ID; the server logs it
// as the request ID of the move.
const CorrelationHeader = "X-Request-Id"

// ListIDField is the form field naming the destination list.
const ListIDField = "list_id"

// MovePath returns the endpoint path for moving card.
func MovePath(card domain.CardID) string {
	return "/ui/cards/" + url.PathEscape(string(card)) + "/move"
}

// HTTPMover posts move notifications to a server.
type HTTPMover struct {
	baseURL string
	client  *http.Client
}

// NewHTTPMover validates baseURL and returns a mover. A nil client gets a
// default one with the given timeout.
func NewHTTPMover(baseURL string, client *http.Client, timeout time.Duration) (*HTTPMover, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("boardsync.NewHTTPMover: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("boardsync.NewHTTPMover: base URL must be http or https")
	}
	if u.Host == "" {
		return nil, errors.New("boardsync.NewHTTPMover: base URL has no host")
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPMover{
		baseURL: strings.TrimRight(u.String(), "/"),
		client:  client,
	}, nil
}

// Move issues POST {base}/ui/cards/{cardId}/move with list_id in a form body.
// Any response status is accepted; only transport errors are returned.
func (m *HTTPMover) Move(ctx context.Context, evt *domain.MoveEvent) error {
	form := url.Values{}
	form.Set(ListIDField, string(evt.ListID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+MovePath(evt.CardID), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("boardsync.HTTPMover.Move: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CorrelationHeader, evt.CorrelationID.String())

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("boardsync.HTTPMover.Move: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Debug().Int("status", resp.StatusCode).Str("card_id", string(evt.CardID)).Msg("move endpoint answered")
	return nil
}
