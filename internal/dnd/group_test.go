package dnd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvappshub/opsboard/internal/dnd"
	"github.com/mvappshub/opsboard/internal/dom"
)

type events struct {
	adds    []dnd.AddEvent
	removes []dnd.RemoveEvent
	updates []dnd.UpdateEvent
	order   []string
}

func (e *events) handlers(name string) dnd.Handlers {
	return dnd.Handlers{
		OnAdd: func(ev dnd.AddEvent) {
			e.adds = append(e.adds, ev)
			e.order = append(e.order, "add:"+name)
		},
		OnRemove: func(ev dnd.RemoveEvent) {
			e.removes = append(e.removes, ev)
			e.order = append(e.order, "remove:"+name)
		},
		OnUpdate: func(ev dnd.UpdateEvent) {
			e.updates = append(e.updates, ev)
			e.order = append(e.order, "update:"+name)
		},
	}
}

func fixture(t *testing.T, cardsInA int) (*dnd.Group, *events, *dom.Element, *dom.Element, []*dom.Element) {
	t.Helper()

	a := dom.NewElement("div", "cardlist")
	b := dom.NewElement("div", "cardlist")
	cards := make([]*dom.Element, cardsInA)
	for i := range cards {
		cards[i] = dom.NewElement("div", "card")
		require.NoError(t, a.Append(cards[i]))
	}

	ev := &events{}
	g := dnd.NewGroup("kanban")
	g.Add(a, ev.handlers("a"))
	g.Add(b, ev.handlers("b"))
	return g, ev, a, b, cards
}

func TestGroup_MoveAcrossContainers(t *testing.T) {
	t.Parallel()

	g, ev, a, b, cards := fixture(t, 2)

	require.NoError(t, g.Move(cards[1], b, 0))

	assert.Equal(t, b, cards[1].Parent())
	assert.Equal(t, []*dom.Element{cards[0]}, a.Children())
	assert.Equal(t, []string{"remove:a", "add:b"}, ev.order)

	require.Len(t, ev.adds, 1)
	add := ev.adds[0]
	assert.Equal(t, cards[1], add.Item)
	assert.Equal(t, a, add.From)
	assert.Equal(t, b, add.To)
	assert.Equal(t, 1, add.OldIndex)
	assert.Equal(t, 0, add.NewIndex)
	assert.Empty(t, ev.updates)
}

func TestGroup_ReorderFiresUpdateOnly(t *testing.T) {
	t.Parallel()

	g, ev, a, _, cards := fixture(t, 3)

	require.NoError(t, g.Move(cards[0], a, 2))
	assert.Equal(t, []*dom.Element{cards[1], cards[2], cards[0]}, a.Children())
	assert.Empty(t, ev.adds)
	assert.Empty(t, ev.removes)
	require.Len(t, ev.updates, 1)
	assert.Equal(t, 0, ev.updates[0].OldIndex)
	assert.Equal(t, 2, ev.updates[0].NewIndex)

	t.Run("dropping in place fires nothing", func(t *testing.T) {
		require.NoError(t, g.Move(cards[1], a, 0))
		assert.Len(t, ev.updates, 1)
	})
}

func TestGroup_IndexIsClamped(t *testing.T) {
	t.Parallel()

	g, ev, _, b, cards := fixture(t, 1)
	require.NoError(t, b.Append(dom.NewElement("div", "card")))

	require.NoError(t, g.Move(cards[0], b, 42))
	assert.Equal(t, 1, b.IndexOf(cards[0]))
	require.Len(t, ev.adds, 1)
	assert.Equal(t, 1, ev.adds[0].NewIndex)
}

func TestGesture_States(t *testing.T) {
	t.Parallel()

	g, ev, a, b, cards := fixture(t, 1)

	gs, err := g.Pick(cards[0])
	require.NoError(t, err)
	assert.Equal(t, dnd.StateInTransit, gs.State())
	assert.Equal(t, a, gs.From())
	assert.Equal(t, cards[0], gs.Item())

	_, err = g.Pick(cards[0])
	require.ErrorIs(t, err, dnd.ErrInTransit)

	require.NoError(t, gs.Drop(b, 0))
	assert.Equal(t, dnd.StateSettled, gs.State())
	require.ErrorIs(t, gs.Drop(a, 0), dnd.ErrGestureDone)
	assert.Len(t, ev.adds, 1)

	t.Run("cancel leaves the card in place", func(t *testing.T) {
		gs, err := g.Pick(cards[0])
		require.NoError(t, err)
		gs.Cancel()
		assert.Equal(t, dnd.StateSettled, gs.State())
		assert.Equal(t, b, cards[0].Parent())
		assert.Len(t, ev.adds, 1)

		// The card can be picked again after a cancel.
		gs, err = g.Pick(cards[0])
		require.NoError(t, err)
		gs.Cancel()
	})
}

func TestGroup_Errors(t *testing.T) {
	t.Parallel()

	g, ev, a, _, cards := fixture(t, 1)

	t.Run("unregistered destination", func(t *testing.T) {
		outside := dom.NewElement("div", "cardlist")
		err := g.Move(cards[0], outside, 0)
		require.ErrorIs(t, err, dnd.ErrNotRegistered)
		assert.Equal(t, a, cards[0].Parent())
		assert.Empty(t, ev.order)

		// A failed drop must not leave the card stuck in transit.
		gs, err := g.Pick(cards[0])
		require.NoError(t, err)
		gs.Cancel()
	})

	t.Run("detached item", func(t *testing.T) {
		_, err := g.Pick(dom.NewElement("div", "card"))
		require.ErrorIs(t, err, dnd.ErrNotInContainer)
	})

	t.Run("item in unregistered container", func(t *testing.T) {
		outside := dom.NewElement("div", "cardlist")
		card := dom.NewElement("div", "card")
		require.NoError(t, outside.Append(card))
		_, err := g.Pick(card)
		require.ErrorIs(t, err, dnd.ErrNotInContainer)
	})
}

func TestGroup_Registration(t *testing.T) {
	t.Parallel()

	g := dnd.NewGroup("kanban")
	a := dom.NewElement("div", "cardlist")
	b := dom.NewElement("div", "cardlist")

	assert.Empty(t, g.Containers())
	g.Add(a, dnd.Handlers{})
	g.Add(b, dnd.Handlers{})
	g.Add(a, dnd.Handlers{})

	assert.Equal(t, []*dom.Element{a, b}, g.Containers())
	assert.True(t, g.Has(a))
	assert.False(t, g.Has(dom.NewElement("div", "cardlist")))
	assert.Equal(t, "kanban", g.Name())
}
