// Package backend provides a tapert machine that runs tape programs.
package backend

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/bencode"
	"github.com/zephyrtronium/tapert/invoke"
	"github.com/zephyrtronium/tapert/tape"
)

// Value is the value type for tape programs.
type Value = tapert.Value[tape.Program]

// greeting prints "Hello", which is not a valid result.
var greeting = tape.MustCompile("++++++++++[>+++++++>++++++++++>+++>+<<<<-]>++.>+.+++++++..+++.")

// Tape is a tapert machine for tape programs. Calls run on a fresh tape
// machine each time. Tape records successful macro expansions and calls for
// introspection through macros.
//
// A Tape is not safe for concurrent use.
type Tape struct {
	out        io.Writer
	log        zerolog.Logger
	machine    tape.Machine
	timeFormat string
	now        func() time.Time
	macros     map[string]tape.Program

	macroLog []MacroEntry
	callLog  []CallEntry
}

// Option configures a Tape.
type Option func(*Tape)

// WithOutput sets the writer for help and log entries. The default is
// standard output.
func WithOutput(w io.Writer) Option {
	return func(t *Tape) { t.out = w }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tape) { t.log = log }
}

// WithMaxCells limits the tape size of each call. Zero or less is unlimited.
func WithMaxCells(n int) Option {
	return func(t *Tape) { t.machine.MaxCells = n }
}

// WithTimeFormat sets the strftime format of log timestamps.
func WithTimeFormat(layout string) Option {
	return func(t *Tape) {
		if layout != "" {
			t.timeFormat = layout
		}
	}
}

// WithClock sets the source of log timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tape) { t.now = now }
}

// New creates a Tape. macros maps additional macro names to tape source.
// Built-in macros take precedence over them.
func New(macros map[string]string, opts ...Option) (*Tape, error) {
	t := &Tape{
		out:        os.Stdout,
		log:        zerolog.Nop(),
		timeFormat: DefaultTimeFormat,
		now:        time.Now,
		macros:     make(map[string]tape.Program, len(macros)),
	}
	for _, opt := range opts {
		opt(t)
	}
	for name, src := range macros {
		p, err := tape.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("macro %q: %w", name, err)
		}
		t.macros[name] = p
	}
	return t, nil
}

// Compile compiles tape source.
func (t *Tape) Compile(src tapert.Source) (tape.Program, error) {
	return tape.Compile(src.String())
}

// MacroExpand resolves a macro. Built-in macros are:
//
//	greeting  a program printing Hello, which is not a valid result
//	A         a program returning the string A
//	log       a program returning the introspection log
//	help      write a list of macros; signals Continue
//	quit      signals Quit
//
// Configured macros follow. A decimal number N writes macro log entry N, and
// #N writes call log entry N; both signal Continue.
func (t *Tape) MacroExpand(name string) (tape.Program, error) {
	var p tape.Program
	switch name {
	case "greeting":
		p = greeting
	case "A":
		p = tape.Print([]byte("1:A"))
	case "log":
		p = tape.Print(bencode.EncodeBytes([]byte(t.Log())))
	case "help":
		t.help()
		return tape.Program{}, tapert.Continue
	case "quit":
		return tape.Program{}, tapert.Quit
	default:
		if c, ok := t.macros[name]; ok {
			p = c
			break
		}
		if i, ok := index(name); ok {
			t.showMacro(i)
			return tape.Program{}, tapert.Continue
		}
		if rest, ok := strings.CutPrefix(name, "#"); ok {
			if i, ok := index(rest); ok {
				t.showCall(i)
				return tape.Program{}, tapert.Continue
			}
		}
		return tape.Program{}, fmt.Errorf("failed to expand macro `%s`", tapert.Escape(name))
	}
	t.logMacro(name, p)
	return p.Clone(), nil
}

// Run runs code on a new tape machine with args as its input.
func (t *Tape) Run(code tape.Program, args []Value) (Value, error) {
	m := t.machine
	run := func(out chan<- byte, in <-chan byte) error {
		return m.Exec(code, out, in)
	}
	r, err := invoke.Call(t.log, run, args)
	if err != nil {
		return nil, err
	}
	shown := make([]string, len(args))
	for i, arg := range args {
		shown[i] = arg.String()
	}
	t.logCall(code, shown, r.String())
	return r, nil
}

func (t *Tape) help() {
	fmt.Fprint(t.out, `macros:
  @greeting~  program printing Hello
  @A~         program returning the string A
  @log~       program returning the introspection log
  @help~      this list
  @quit~      end the session
  @N~         show macro log entry N
  @#N~        show call log entry N
`)
	if len(t.macros) == 0 {
		return
	}
	names := make([]string, 0, len(t.macros))
	for name := range t.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(t.out, "configured:", strings.Join(names, " "))
}
