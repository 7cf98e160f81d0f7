// Package logging builds the zerolog loggers used by the tapert command and
// its tests.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Environment variables that override logger settings.
const (
	// EnvLogLevel names the minimum log level.
	EnvLogLevel = "TAPERT_LOG_LEVEL"
	// EnvLogTimestamp turns timestamps on or off.
	EnvLogTimestamp = "TAPERT_LOG_TIMESTAMP"
	// EnvLogNoColor turns colored output off when true.
	EnvLogNoColor = "TAPERT_LOG_NOCOLOR"
)

// Profile selects a set of default logger settings.
type Profile int

const (
	// ProfileRuntime is for the tapert command.
	ProfileRuntime Profile = iota
	// ProfileTest is for tests, logging at debug level without color.
	ProfileTest
)

// Config controls logger construction.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

// DefaultConfig returns the settings for a profile before environment
// overrides.
func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// ApplyEnv overrides cfg from the process environment.
func ApplyEnv(cfg *Config) {
	applyOverrides(cfg, os.Getenv)
}

func applyOverrides(cfg *Config, getenv func(string) string) {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// New creates a human-readable logger writing to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.TimeOnly,
	}
	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// Runtime creates the command's logger on standard error. level, typically
// from the config file, overrides the profile default when it is recognized;
// the environment overrides both. Color is disabled when standard error is
// not a terminal.
func Runtime(level string) zerolog.Logger {
	cfg := DefaultConfig(ProfileRuntime)
	if lvl, ok := ParseLevel(level); ok {
		cfg.Level = lvl
	}
	fd := os.Stderr.Fd()
	cfg.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	ApplyEnv(&cfg)
	return New(os.Stderr, cfg)
}

// ParseLevel parses a level name. The second result is false for empty or
// unrecognized names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
