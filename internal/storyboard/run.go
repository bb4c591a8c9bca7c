package storyboard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Result reports where the generated files went.
type Result struct {
	Storyboard string
	Clip       string // empty when only the storyboard was produced
}

// Rendered reports whether a clip was produced.
func (r *Result) Rendered() bool { return r.Clip != "" }

// Run writes the storyboard to sink, then tries to render the placeholder
// clip and store it next to it. A nil renderer, a missing encoder or a
// failed render all end in a storyboard-only result without error.
func Run(ctx context.Context, sink Sink, renderer *Renderer, now time.Time) (*Result, error) {
	if l, ok := sink.(Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return nil, fmt.Errorf("storyboard.Run: %w", err)
		}
		defer unlock()
	}

	data, err := Default(now).Marshal()
	if err != nil {
		return nil, err
	}
	loc, err := sink.Put(ctx, DescriptorName, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("storyboard.Run: %w", err)
	}
	res := &Result{Storyboard: loc}
	log.Debug().Str("location", loc).Msg("storyboard written")

	if renderer == nil || !renderer.Available(ctx) {
		log.Info().Str("encoder", encoderName(renderer)).Msg("encoder not found, storyboard only")
		return res, nil
	}

	clip, err := renderClip(ctx, sink, renderer)
	if err != nil {
		log.Warn().Err(err).Msg("placeholder render failed, storyboard only")
		return res, nil
	}
	res.Clip = clip
	return res, nil
}

func renderClip(ctx context.Context, sink Sink, renderer *Renderer) (string, error) {
	scratch, err := os.MkdirTemp("", "opsboard-render-*")
	if err != nil {
		return "", fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	out := filepath.Join(scratch, ClipName)
	if err := renderer.Render(ctx, out); err != nil {
		return "", err
	}

	f, err := os.Open(out)
	if err != nil {
		return "", fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	loc, err := sink.Put(ctx, ClipName, f)
	if err != nil {
		return "", fmt.Errorf("store clip: %w", err)
	}
	return loc, nil
}

func encoderName(r *Renderer) string {
	if r == nil {
		return ""
	}
	return r.binary
}
