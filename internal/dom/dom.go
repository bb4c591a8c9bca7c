// Package dom is a small in-memory element tree standing in for the rendered
// board page. Elements carry attributes, a class list and ordered children.
package dom

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrHasParent = errors.New("dom: element already has a parent")
	ErrNotChild  = errors.New("dom: element is not a child")
	ErrCycle     = errors.New("dom: element cannot contain itself")
)

// Element is a node of the document. An element has at most one parent.
type Element struct {
	mu       sync.RWMutex
	tag      string
	attrs    map[string]string
	classes  []string
	parent   *Element
	children []*Element
}

// NewElement creates a detached element. Classes are space separated.
func NewElement(tag, classes string) *Element {
	return &Element{
		tag:     tag,
		attrs:   make(map[string]string),
		classes: strings.Fields(classes),
	}
}

func (e *Element) Tag() string { return e.tag }

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) SetAttr(name, value string) *Element {
	e.mu.Lock()
	e.attrs[name] = value
	e.mu.Unlock()
	return e
}

func (e *Element) RemoveAttr(name string) {
	e.mu.Lock()
	delete(e.attrs, name)
	e.mu.Unlock()
}

// HasClass reports whether the element carries the given class.
func (e *Element) HasClass(class string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) Parent() *Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// IndexOf returns the position of child, or -1.
func (e *Element) IndexOf(child *Element) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexOfLocked(child)
}

func (e *Element) indexOfLocked(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Append attaches a detached child at the end.
func (e *Element) Append(child *Element) error {
	return e.Insert(child, -1)
}

// Insert attaches a detached child at index. Out of range indexes (including
// negative ones) append.
func (e *Element) Insert(child *Element, index int) error {
	if child == e || child.contains(e) {
		return ErrCycle
	}
	if child.Parent() != nil {
		return ErrHasParent
	}

	e.mu.Lock()
	if index < 0 || index > len(e.children) {
		index = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	e.mu.Unlock()

	child.mu.Lock()
	child.parent = e
	child.mu.Unlock()
	return nil
}

// Remove detaches child and returns the index it occupied.
func (e *Element) Remove(child *Element) (int, error) {
	e.mu.Lock()
	idx := e.indexOfLocked(child)
	if idx < 0 {
		e.mu.Unlock()
		return -1, ErrNotChild
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	e.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()
	return idx, nil
}

// contains reports whether other is e or one of its descendants.
func (e *Element) contains(other *Element) bool {
	for n := other; n != nil; n = n.Parent() {
		if n == e {
			return true
		}
	}
	return false
}

// FindByClass walks the subtree in document order and returns every element
// carrying class, the root included.
func (e *Element) FindByClass(class string) []*Element {
	var out []*Element
	var walk func(n *Element)
	walk = func(n *Element) {
		if n.HasClass(class) {
			out = append(out, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(e)
	return out
}

// Document is the root of a page.
type Document struct {
	Body *Element
}

func NewDocument() *Document {
	return &Document{Body: NewElement("body", "")}
}

// FindByClass returns a snapshot of the matching elements at call time.
func (d *Document) FindByClass(class string) []*Element {
	return d.Body.FindByClass(class)
}
