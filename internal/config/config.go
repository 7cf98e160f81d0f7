// Package config loads tapert command settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/backend"
)

// Config holds command settings.
type Config struct {
	// Prompt and Continuation are the REPL prompts.
	Prompt       string
	Continuation string
	// History is the line history file. Empty means no history is kept.
	History string
	// LogLevel is the name of the minimum log level.
	LogLevel string
	// TimeFormat is the strftime format of backend log timestamps.
	TimeFormat string
	// MaxCells limits the tape size of each call. Zero is unlimited.
	MaxCells int
	// Macros maps additional macro names to tape source.
	Macros map[string]string
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Prompt:       tapert.DefaultPrompt,
		Continuation: tapert.DefaultContinuation,
		LogLevel:     "info",
		TimeFormat:   backend.DefaultTimeFormat,
	}
}

type fileConfig struct {
	Prompt       *string           `toml:"prompt" yaml:"prompt"`
	Continuation *string           `toml:"continuation" yaml:"continuation"`
	History      *string           `toml:"history" yaml:"history"`
	LogLevel     *string           `toml:"log_level" yaml:"log_level"`
	TimeFormat   *string           `toml:"time_format" yaml:"time_format"`
	MaxCells     *int              `toml:"max_cells" yaml:"max_cells"`
	Macros       map[string]string `toml:"macros" yaml:"macros"`
}

// Load reads settings from path on top of Default. The format is chosen by
// the file extension: .toml, or .yaml or .yml. Unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	var raw fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if u := meta.Undecoded(); len(u) != 0 {
			return Config{}, fmt.Errorf("load config %s: unknown key %q", path, u[0].String())
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, &raw); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("load config %s: unknown format %q", path, ext)
	}

	cfg := Default()
	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	if raw.Continuation != nil {
		cfg.Continuation = *raw.Continuation
	}
	if raw.History != nil {
		cfg.History = strings.TrimSpace(*raw.History)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*raw.LogLevel)
	}
	if raw.TimeFormat != nil {
		cfg.TimeFormat = *raw.TimeFormat
	}
	if raw.MaxCells != nil {
		if *raw.MaxCells < 0 {
			return Config{}, fmt.Errorf("load config %s: max_cells must not be negative", path)
		}
		cfg.MaxCells = *raw.MaxCells
	}
	if len(raw.Macros) != 0 {
		cfg.Macros = raw.Macros
	}
	return cfg, nil
}
