package dnd

import (
	"fmt"
	"sync"

	"github.com/mvappshub/opsboard/internal/dom"
)

// State is the per-card drag state.
type State string

const (
	StateSettled   State = "settled"
	StateInTransit State = "in_transit"
)

// Gesture is a single drag of one item. It ends with Drop or Cancel.
type Gesture struct {
	group    *Group
	item     *dom.Element
	from     *dom.Element
	oldIndex int

	mu    sync.Mutex
	state State
}

func (gs *Gesture) State() State {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.state
}

func (gs *Gesture) Item() *dom.Element { return gs.item }

func (gs *Gesture) From() *dom.Element { return gs.from }

// Drop lands the item in to at index (clamped to the container size) and
// fires the notifications. A drop into the origin container is a reorder and
// only fires OnUpdate there. A drop elsewhere fires OnRemove on the origin,
// then OnAdd on the destination.
func (gs *Gesture) Drop(to *dom.Element, index int) error {
	gs.mu.Lock()
	if gs.state != StateInTransit {
		gs.mu.Unlock()
		return ErrGestureDone
	}
	gs.mu.Unlock()

	toHandlers, ok := gs.group.handlers(to)
	if !ok {
		return ErrNotRegistered
	}
	fromHandlers, _ := gs.group.handlers(gs.from)

	if _, err := gs.from.Remove(gs.item); err != nil {
		return fmt.Errorf("dnd.Gesture.Drop: detach: %w", err)
	}
	if index < 0 || index > len(to.Children()) {
		index = len(to.Children())
	}
	if err := to.Insert(gs.item, index); err != nil {
		// Put the item back where it was so the card never ends up detached.
		_ = gs.from.Insert(gs.item, gs.oldIndex)
		return fmt.Errorf("dnd.Gesture.Drop: attach: %w", err)
	}

	gs.settle()

	if to == gs.from {
		if index != gs.oldIndex && toHandlers.OnUpdate != nil {
			toHandlers.OnUpdate(UpdateEvent{Item: gs.item, Container: to, OldIndex: gs.oldIndex, NewIndex: index})
		}
		return nil
	}

	if fromHandlers.OnRemove != nil {
		fromHandlers.OnRemove(RemoveEvent{Item: gs.item, From: gs.from, To: to, OldIndex: gs.oldIndex})
	}
	if toHandlers.OnAdd != nil {
		toHandlers.OnAdd(AddEvent{Item: gs.item, From: gs.from, To: to, OldIndex: gs.oldIndex, NewIndex: index})
	}
	return nil
}

// Cancel abandons the gesture without moving the item.
func (gs *Gesture) Cancel() {
	gs.mu.Lock()
	if gs.state != StateInTransit {
		gs.mu.Unlock()
		return
	}
	gs.mu.Unlock()
	gs.settle()
}

func (gs *Gesture) settle() {
	gs.mu.Lock()
	gs.state = StateSettled
	gs.mu.Unlock()
	gs.group.release(gs.item)
}
