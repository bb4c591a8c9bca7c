package storyboard

import (
	"encoding/json"
	"fmt"
	"time"
)

// File names written to the sink.
const (
	DescriptorName = "storyboard.json"
	ClipName       = "demo.mp4"
)

// Storyboard is the JSON descriptor of the demo.
type Storyboard struct {
	GeneratedAt time.Time `json:"generated_at"`
	Scenes      []string  `json:"scenes"`
}

// Default returns the demo storyboard stamped with now in UTC.
func Default(now time.Time) *Storyboard {
	return &Storyboard{
		GeneratedAt: now.UTC(),
		Scenes: []string{
			"Board drag/drop and audit event",
			"Create critical alert",
			"Watcher escalation to incident",
			"Audit log + incident timeline",
			"Monitoring dashboard + metrics",
			"Agent remediation tasks",
		},
	}
}

// Marshal encodes the storyboard as two-space indented JSON.
func (s *Storyboard) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("storyboard.Marshal: %w", err)
	}
	return data, nil
}
