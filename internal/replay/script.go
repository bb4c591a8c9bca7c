// Package replay plays a scripted sequence of drag gestures against a board
// built from a YAML layout, driving a board sync client end to end.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mvappshub/opsboard/internal/domain"
)

// ListSpec is one rendered list and the cards it starts with.
type ListSpec struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name,omitempty"`
	Cards []string `yaml:"cards,omitempty"`
}

// MoveSpec is one drag gesture. A nil Index appends to the destination.
type MoveSpec struct {
	Card  string `yaml:"card"`
	To    string `yaml:"to"`
	Index *int   `yaml:"index,omitempty"`
}

// Script is a board layout plus the gestures to play on it.
// LateLists are rendered after the client is bound.
type Script struct {
	Lists     []ListSpec `yaml:"lists"`
	LateLists []ListSpec `yaml:"late_lists,omitempty"`
	Moves     []MoveSpec `yaml:"moves"`
}

var ErrInvalidScript = errors.New("replay: invalid script")

// Load decodes and validates a script.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("replay.Load: %w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("replay.Load: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("replay.Load: %w", err)
	}
	return &s, nil
}

// LoadFile opens path and loads the script in it.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay.LoadFile: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks identifier uniqueness and that moves reference known cards
// and lists.
func (s *Script) Validate() error {
	lists := make(map[string]bool)
	cards := make(map[string]bool)

	all := make([]ListSpec, 0, len(s.Lists)+len(s.LateLists))
	all = append(all, s.Lists...)
	all = append(all, s.LateLists...)

	for _, l := range all {
		if _, err := domain.ParseListID(l.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}
		if lists[l.ID] {
			return fmt.Errorf("%w: duplicate list %q", ErrInvalidScript, l.ID)
		}
		lists[l.ID] = true

		for _, c := range l.Cards {
			if _, err := domain.ParseCardID(c); err != nil {
				return fmt.Errorf("%w: list %q: %w", ErrInvalidScript, l.ID, err)
			}
			if cards[c] {
				return fmt.Errorf("%w: duplicate card %q", ErrInvalidScript, c)
			}
			cards[c] = true
		}
	}

	for i, m := range s.Moves {
		if !cards[m.Card] {
			return fmt.Errorf("%w: move %d: card %q: %w", ErrInvalidScript, i+1, m.Card, domain.ErrNotFound)
		}
		if !lists[m.To] {
			return fmt.Errorf("%w: move %d: list %q: %w", ErrInvalidScript, i+1, m.To, domain.ErrNotFound)
		}
	}
	return nil
}
