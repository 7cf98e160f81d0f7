package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/backend"
	"github.com/zephyrtronium/tapert/internal/config"
	"github.com/zephyrtronium/tapert/internal/logging"
	"github.com/zephyrtronium/tapert/tape"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		historyPath string
		plain       bool
	)
	flag.StringVar(&configPath, "config", "", "TOML or YAML settings `file`")
	flag.StringVar(&historyPath, "history", "", "line history `file` (overrides config)")
	flag.BoolVar(&plain, "plain", false, "read plain lines without line editing")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	if historyPath != "" {
		cfg.History = historyPath
	}
	log := logging.Runtime(cfg.LogLevel)

	b, err := backend.New(cfg.Macros,
		backend.WithOutput(os.Stdout),
		backend.WithLogger(log.With().Str("component", "backend").Logger()),
		backend.WithMaxCells(cfg.MaxCells),
		backend.WithTimeFormat(cfg.TimeFormat),
	)
	if err != nil {
		log.Error().Err(err).Msg("invalid configured macro")
		return 2
	}

	if !plain && !isatty.IsTerminal(os.Stdin.Fd()) {
		plain = true
	}
	r := tapert.NewREPL[tape.Program](b, nil, os.Stdout)
	r.Prompt = cfg.Prompt
	r.Continuation = cfg.Continuation
	r.Log = log.With().Str("component", "repl").Logger()
	if plain {
		r.Lines = tapert.NewLineReader(os.Stdin, os.Stdout)
	} else {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)
		loadHistory(ln, cfg.History, log)
		defer saveHistory(ln, cfg.History, log)
		r.Lines = ln
		r.History = ln
	}

	err = r.Run()
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
		return 0
	default:
		log.Error().Err(err).Msg("reading input")
		return 1
	}
}

func loadHistory(ln *liner.State, path string, log zerolog.Logger) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("couldn't open history")
		}
		return
	}
	defer f.Close()
	n, err := ln.ReadHistory(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("couldn't read history")
	}
	log.Debug().Int("lines", n).Str("path", path).Msg("loaded history")
}

func saveHistory(ln *liner.State, path string, log zerolog.Logger) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("couldn't create history")
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("couldn't write history")
	}
}
