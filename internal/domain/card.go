package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attribute and class names shared by the rendered board and the sync client.
const (
	CardIDAttr     = "data-card-id"
	ListIDAttr     = "data-list-id"
	CardListClass  = "cardlist"
	KanbanGroupKey = "kanban"
)

// CardID identifies a card. Numeric ids are carried as their decimal text.
type CardID string

// ListID identifies a list (column) of cards.
type ListID string

// ParseCardID validates a raw card attribute value.
func ParseCardID(raw string) (CardID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ErrMissingCardID
	}
	return CardID(v), nil
}

// ParseListID validates a raw list attribute value.
func ParseListID(raw string) (ListID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ErrMissingListID
	}
	return ListID(v), nil
}

// MoveEvent is produced once per card landing in a different list.
// It is never persisted.
type MoveEvent struct {
	CardID        CardID
	ListID        ListID
	CorrelationID uuid.UUID
	At            time.Time
}

// NewMoveEvent creates a MoveEvent with a fresh correlation ID.
func NewMoveEvent(card CardID, list ListID) (*MoveEvent, error) {
	if card == "" {
		return nil, ErrMissingCardID
	}
	if list == "" {
		return nil, ErrMissingListID
	}
	return &MoveEvent{
		CardID:        card,
		ListID:        list,
		CorrelationID: uuid.New(),
		At:            time.Now(),
	}, nil
}

var (
	ErrMissingCardID = errors.New("move: card element has no " + CardIDAttr)
	ErrMissingListID = errors.New("move: list element has no " + ListIDAttr)
)
