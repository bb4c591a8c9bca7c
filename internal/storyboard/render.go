package storyboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", binary, err)
	}
	return nil
}

// Placeholder describes the clip rendered by the encoder.
type Placeholder struct {
	Width    int
	Height   int
	Seconds  int
	Text     string
	FontSize int
}

// DefaultPlaceholder is an 8 second 1280x720 black clip with centred text.
func DefaultPlaceholder() Placeholder {
	return Placeholder{
		Width:    1280,
		Height:   720,
		Seconds:  8,
		Text:     "OpsBoard Demo Placeholder",
		FontSize: 48,
	}
}

// Option configures the renderer.
type Option func(*Renderer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Renderer) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithOutput forwards encoder output to w. Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// Renderer drives the external encoder.
type Renderer struct {
	binary string
	clip   Placeholder
	exec   Executor
	out    io.Writer
}

var ErrNoEncoder = errors.New("storyboard: encoder binary required")

// NewRenderer constructs a renderer for the ffmpeg compatible binary.
func NewRenderer(binary string, clip Placeholder, opts ...Option) (*Renderer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, ErrNoEncoder
	}
	r := &Renderer{
		binary: binary,
		clip:   clip,
		exec:   commandExecutor{},
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Available probes the encoder with -version.
func (r *Renderer) Available(ctx context.Context) bool {
	return r.exec.Run(ctx, r.binary, []string{"-version"}, io.Discard, io.Discard) == nil
}

// Render writes the placeholder clip to output, overwriting it.
func (r *Renderer) Render(ctx context.Context, output string) error {
	if err := r.exec.Run(ctx, r.binary, r.Args(output), r.out, r.out); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("storyboard.Renderer.Render: %w", err)
	}
	return nil
}

// Args returns the encoder arguments producing the placeholder at output.
func (r *Renderer) Args(output string) []string {
	c := r.clip
	source := fmt.Sprintf("color=c=black:s=%dx%d:d=%d", c.Width, c.Height, c.Seconds)
	filter := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(c.Text), c.FontSize,
	)
	return []string{"-y", "-f", "lavfi", "-i", source, "-vf", filter, output}
}

// escapeDrawtext escapes characters that end or split a quoted drawtext value.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`)
	return r.Replace(s)
}
