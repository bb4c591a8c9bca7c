package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/mvappshub/opsboard/internal/boardsync"
	"github.com/mvappshub/opsboard/internal/config"
	"github.com/mvappshub/opsboard/internal/notify"
)

type rootFlags struct {
	baseURL  string
	strict   bool
	logLevel string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the environment configuration once and applies the
// persistent flag overrides on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(c.flags.baseURL); v != "" {
			if err := config.ValidateBaseURL(v); err != nil {
				c.configErr = fmt.Errorf("--base-url: %w", err)
				return
			}
			cfg.Sync.BaseURL = v
		}
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			if _, err := zerolog.ParseLevel(v); err != nil {
				c.configErr = fmt.Errorf("--log-level: %w", err)
				return
			}
			cfg.Log.Level = v
		}
		if c.flags.strict {
			cfg.Env = config.EnvDevelopment
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// mover returns the HTTP mover, throttled when OPSBOARD_MOVE_RATE is set.
func (c *commandContext) mover() (boardsync.Mover, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	m, err := boardsync.NewHTTPMover(cfg.Sync.BaseURL, nil, cfg.Sync.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	return boardsync.NewRateLimitedMover(m, cfg.Sync.MoveRate, cfg.Sync.MoveBurst), nil
}

// syncClient builds a board sync client that reports failures both to the
// debug log and to the given reporter.
func (c *commandContext) syncClient(extra notify.Reporter, opts ...boardsync.Option) (*boardsync.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	mover, err := c.mover()
	if err != nil {
		return nil, err
	}

	reg := notify.NewRegistry()
	reg.Register("log", notify.NewLogReporter(zerolog.DebugLevel))
	if cfg.Slack.Enabled() {
		reg.Register("slack", notify.NewSlackReporter(slacklib.New(cfg.Slack.Token), cfg.Slack.Channel))
	}
	if extra != nil {
		reg.Register("cli", extra)
	}

	opts = append([]boardsync.Option{
		boardsync.WithReporter(reg),
		boardsync.WithStrict(cfg.Strict()),
	}, opts...)
	return boardsync.New(mover, opts...), nil
}

// setupLogging configures the global zerolog logger. Text output is used when
// requested or when stderr is a terminal and no format was given.
func setupLogging(cfg config.LogConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("setupLogging: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if useConsole(cfg.Format) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return nil
}

func useConsole(format string) bool {
	switch format {
	case "text":
		return true
	case "json":
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
