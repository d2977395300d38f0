package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the remote's settings.
type Config struct {
	Host                 string
	Port                 int
	APIPrefix            string
	PollInterval         time.Duration
	RequestTimeout       time.Duration // zero disables the timeout
	NotifyDebounce       time.Duration
	PollErrorLogInterval time.Duration
	NotificationTTL      time.Duration
	LogFile              string
	LogLevel             string
}

const (
	defaultConfigPath           = "~/.config/lsfremote/config.toml"
	defaultLogFile              = "~/.local/state/lsfremote/lsfremote.log"
	defaultHost                 = "localhost"
	defaultPort                 = 8080
	defaultAPIPrefix            = "/api/v1"
	defaultPollInterval         = 500 * time.Millisecond
	defaultRequestTimeout       = 5 * time.Second
	defaultNotifyDebounce       = 2 * time.Second
	defaultPollErrorLogInterval = 10 * time.Second
	defaultNotificationTTL      = 5 * time.Second
	defaultLogLevel             = "info"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:                 defaultHost,
		Port:                 defaultPort,
		APIPrefix:            defaultAPIPrefix,
		PollInterval:         defaultPollInterval,
		RequestTimeout:       defaultRequestTimeout,
		NotifyDebounce:       defaultNotifyDebounce,
		PollErrorLogInterval: defaultPollErrorLogInterval,
		NotificationTTL:      defaultNotificationTTL,
		LogFile:              mustExpand(defaultLogFile),
		LogLevel:             defaultLogLevel,
	}
}

// Load reads the config file at path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host                 string `toml:"host"`
		Port                 int    `toml:"port"`
		APIPrefix            string `toml:"api_prefix"`
		PollIntervalMS       *int64 `toml:"poll_interval_ms"`
		RequestTimeoutMS     *int64 `toml:"request_timeout_ms"`
		NotifyDebounceMS     *int64 `toml:"notify_debounce_ms"`
		PollErrorLogInterval *int64 `toml:"poll_error_log_interval_ms"`
		NotificationTTLMS    *int64 `toml:"notification_ttl_ms"`
		LogFile              string `toml:"log_file"`
		LogLevel             string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.APIPrefix); v != "" {
		cfg.APIPrefix = "/" + strings.Trim(v, "/")
	}
	cfg.PollInterval = positiveMS(raw.PollIntervalMS, cfg.PollInterval)
	cfg.NotifyDebounce = positiveMS(raw.NotifyDebounceMS, cfg.NotifyDebounce)
	cfg.PollErrorLogInterval = positiveMS(raw.PollErrorLogInterval, cfg.PollErrorLogInterval)
	cfg.NotificationTTL = positiveMS(raw.NotificationTTLMS, cfg.NotificationTTL)
	if raw.RequestTimeoutMS != nil && *raw.RequestTimeoutMS >= 0 {
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the API root, e.g. http://localhost:8080/api/v1.
func (c Config) BaseURL() string {
	prefix := c.APIPrefix
	if prefix == "" {
		prefix = defaultAPIPrefix
	}
	return "http://" + c.Address() + prefix
}

// Level returns the configured slog level, defaulting to info.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func positiveMS(v *int64, fallback time.Duration) time.Duration {
	if v == nil || *v <= 0 {
		return fallback
	}
	return time.Duration(*v) * time.Millisecond
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
