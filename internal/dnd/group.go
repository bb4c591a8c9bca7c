// Package dnd groups sortable containers into one interchange domain and turns
// completed drag gestures into add, remove and update notifications.
package dnd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mvappshub/opsboard/internal/dom"
)

var (
	ErrNotRegistered  = errors.New("dnd: container is not registered in group")
	ErrNotInContainer = errors.New("dnd: item is not inside a registered container")
	ErrInTransit      = errors.New("dnd: item is already being dragged")
	ErrGestureDone    = errors.New("dnd: gesture already finished")
)

// AddEvent describes an element that landed in a container coming from
// another container of the same group.
type AddEvent struct {
	Item     *dom.Element
	From     *dom.Element
	To       *dom.Element
	OldIndex int
	NewIndex int
}

// RemoveEvent describes an element that left a container for another one.
type RemoveEvent struct {
	Item     *dom.Element
	From     *dom.Element
	To       *dom.Element
	OldIndex int
}

// UpdateEvent describes a reorder inside a single container.
type UpdateEvent struct {
	Item      *dom.Element
	Container *dom.Element
	OldIndex  int
	NewIndex  int
}

// Handlers are invoked synchronously on the goroutine that drops the item.
// Nil handlers are skipped.
type Handlers struct {
	OnAdd    func(AddEvent)
	OnRemove func(RemoveEvent)
	OnUpdate func(UpdateEvent)
}

// Group is a named set of sortable containers whose items can be dragged
// between any two members.
type Group struct {
	name string

	mu         sync.Mutex
	containers map[*dom.Element]Handlers
	order      []*dom.Element
	inTransit  map[*dom.Element]*Gesture
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{
		name:       name,
		containers: make(map[*dom.Element]Handlers),
		inTransit:  make(map[*dom.Element]*Gesture),
	}
}

func (g *Group) Name() string { return g.name }

// Add registers a container. Registering a container twice replaces its
// handlers and keeps its position.
func (g *Group) Add(container *dom.Element, h Handlers) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.containers[container]; !ok {
		g.order = append(g.order, container)
	}
	g.containers[container] = h
	log.Debug().Str("group", g.name).Int("containers", len(g.order)).Msg("dnd container registered")
}

// Has reports whether container is a member of the group.
func (g *Group) Has(container *dom.Element) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.containers[container]
	return ok
}

// Containers returns the members in registration order.
func (g *Group) Containers() []*dom.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*dom.Element, len(g.order))
	copy(out, g.order)
	return out
}

// Pick starts a gesture for item. The item must sit directly inside a
// registered container and must not already be in transit.
func (g *Group) Pick(item *dom.Element) (*Gesture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := item.Parent()
	if from == nil {
		return nil, ErrNotInContainer
	}
	if _, ok := g.containers[from]; !ok {
		return nil, ErrNotInContainer
	}
	if _, busy := g.inTransit[item]; busy {
		return nil, ErrInTransit
	}

	gs := &Gesture{
		group:    g,
		item:     item,
		from:     from,
		oldIndex: from.IndexOf(item),
		state:    StateInTransit,
	}
	g.inTransit[item] = gs
	return gs, nil
}

// Move picks item and drops it into to at index in one step.
func (g *Group) Move(item, to *dom.Element, index int) error {
	gs, err := g.Pick(item)
	if err != nil {
		return fmt.Errorf("dnd.Group.Move: %w", err)
	}
	if err := gs.Drop(to, index); err != nil {
		gs.Cancel()
		return fmt.Errorf("dnd.Group.Move: %w", err)
	}
	return nil
}

func (g *Group) handlers(container *dom.Element) (Handlers, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.containers[container]
	return h, ok
}

func (g *Group) release(item *dom.Element) {
	g.mu.Lock()
	delete(g.inTransit, item)
	g.mu.Unlock()
}
