package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment selects development or production behaviour.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Env        Environment
	Sync       SyncConfig
	Log        LogConfig
	Storyboard StoryboardConfig
	Slack      SlackConfig
}

// SlackConfig holds the optional Slack failure notifier settings.
type SlackConfig struct {
	Token   string //nolint:gosec // G117: bot token config
	Channel string
}

// Enabled reports whether failures should be posted to Slack.
func (c SlackConfig) Enabled() bool { return c.Token != "" }

// SyncConfig holds the board sync client settings.
type SyncConfig struct {
	BaseURL     string
	HTTPTimeout time.Duration
	MoveRate    float64 // requests per second, 0 = unlimited
	MoveBurst   int
}

// LogConfig holds logger settings. An empty Format means auto-detect.
type LogConfig struct {
	Level  string
	Format string
}

// StoryboardConfig holds the storyboard output settings.
type StoryboardConfig struct {
	Dir     string
	Encoder string
	S3      S3Config
}

// S3Config holds the optional S3 output location.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string
	SecretKey string //nolint:gosec // G117: storage credential config
	PathStyle bool
}

// Enabled reports whether an S3 bucket is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Strict reports whether precondition failures should fail loudly.
func (c *Config) Strict() bool { return c.Env == EnvDevelopment }

// Load reads configuration from environment variables. Variables from the
// file named by OPSBOARD_ENV_FILE (default ".env") are applied first without
// overriding variables that are already set; a missing file is ignored.
func Load() (*Config, error) {
	if err := loadEnvFile(getEnv("OPSBOARD_ENV_FILE", ".env")); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	httpTimeout, err := getEnvDuration("OPSBOARD_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	moveRate, err := getEnvFloat("OPSBOARD_MOVE_RATE", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	moveBurst, err := getEnvInt("OPSBOARD_MOVE_BURST", 1)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	pathStyle, err := getEnvBool("OPSBOARD_S3_PATH_STYLE", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Env: Environment(strings.ToLower(getEnv("OPSBOARD_ENV", string(EnvProduction)))),
		Sync: SyncConfig{
			BaseURL:     getEnv("OPSBOARD_BASE_URL", "http://localhost:8000"),
			HTTPTimeout: httpTimeout,
			MoveRate:    moveRate,
			MoveBurst:   moveBurst,
		},
		Log: LogConfig{
			Level:  getEnv("OPSBOARD_LOG_LEVEL", "info"),
			Format: getEnv("OPSBOARD_LOG_FORMAT", ""),
		},
		Storyboard: StoryboardConfig{
			Dir:     getEnv("OPSBOARD_STORYBOARD_DIR", "video/out"),
			Encoder: getEnv("OPSBOARD_FFMPEG", "ffmpeg"),
			S3: S3Config{
				Endpoint:  getEnv("OPSBOARD_S3_ENDPOINT", ""),
				Bucket:    getEnv("OPSBOARD_S3_BUCKET", ""),
				Region:    getEnv("OPSBOARD_S3_REGION", "us-east-1"),
				Prefix:    getEnv("OPSBOARD_S3_PREFIX", ""),
				AccessKey: getEnv("OPSBOARD_S3_ACCESS_KEY", ""),
				SecretKey: getEnv("OPSBOARD_S3_SECRET_KEY", ""),
				PathStyle: pathStyle,
			},
		},
		Slack: SlackConfig{
			Token:   getEnv("OPSBOARD_SLACK_TOKEN", ""),
			Channel: getEnv("OPSBOARD_SLACK_CHANNEL", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("OPSBOARD_ENV must be development or production, got %q", c.Env)
	}

	if err := ValidateBaseURL(c.Sync.BaseURL); err != nil {
		return fmt.Errorf("OPSBOARD_BASE_URL: %w", err)
	}
	if c.Sync.HTTPTimeout < 0 {
		return fmt.Errorf("OPSBOARD_HTTP_TIMEOUT must not be negative, got %s", c.Sync.HTTPTimeout)
	}

	if c.Sync.MoveRate < 0 {
		return fmt.Errorf("OPSBOARD_MOVE_RATE must not be negative, got %g", c.Sync.MoveRate)
	}
	if c.Sync.MoveBurst < 1 {
		return fmt.Errorf("OPSBOARD_MOVE_BURST must be at least 1, got %d", c.Sync.MoveBurst)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("OPSBOARD_LOG_LEVEL: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("OPSBOARD_LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	if c.Storyboard.Dir == "" {
		return errors.New("OPSBOARD_STORYBOARD_DIR must not be empty")
	}
	if c.Storyboard.S3.Enabled() && c.Storyboard.S3.Region == "" {
		return errors.New("OPSBOARD_S3_REGION is required when OPSBOARD_S3_BUCKET is set")
	}
	if c.Storyboard.S3.AccessKey != "" && c.Storyboard.S3.SecretKey == "" {
		return errors.New("OPSBOARD_S3_SECRET_KEY is required with OPSBOARD_S3_ACCESS_KEY")
	}

	if c.Slack.Enabled() && c.Slack.Channel == "" {
		return errors.New("OPSBOARD_SLACK_CHANNEL is required when OPSBOARD_SLACK_TOKEN is set")
	}

	if c.Strict() {
		log.Debug().Msg("development mode: missing card or list identifiers will panic")
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		log.Debug().Str("path", path).Msg("environment file loaded")
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}
