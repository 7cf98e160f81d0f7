// Package testutils provides a scripted machine and other helpers for testing
// code built on tapert.
package testutils

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/internal/logging"
)

// Code is bytecode that is just its source text. Its binary form is the
// text itself.
type Code string

func (c Code) String() string { return string(c) }

// Clone returns c.
func (c Code) Clone() Code { return c }

// MarshalBinary returns the bytes of c.
func (c Code) MarshalBinary() ([]byte, error) { return []byte(c), nil }

// Value is the value type for Code.
type Value = tapert.Value[Code]

// Machine is a scripted machine for Code. Its zero value compiles any source
// without a '!', fails every macro, and runs code by echoing its arguments.
type Machine struct {
	// Macros maps macro names to expansions.
	Macros map[string]Code
	// Errors maps macro names to expansion errors, including signals. It is
	// checked before Macros.
	Errors map[string]error
	// RunFunc, if not nil, replaces Echo for Run.
	RunFunc func(code Code, args []Value) (Value, error)

	// Expanded records every macro name expanded, in order.
	Expanded []string
	// Ran records every code run, in order.
	Ran []Code
}

// Compile compiles src. Source containing '!' fails to compile.
func (m *Machine) Compile(src tapert.Source) (Code, error) {
	s := src.String()
	if strings.Contains(s, "!") {
		return "", fmt.Errorf("refusing to compile %q", s)
	}
	return Code(s), nil
}

// MacroExpand records name and looks it up.
func (m *Machine) MacroExpand(name string) (Code, error) {
	m.Expanded = append(m.Expanded, name)
	if err, ok := m.Errors[name]; ok {
		return "", err
	}
	if c, ok := m.Macros[name]; ok {
		return c, nil
	}
	return "", fmt.Errorf("failed to expand macro `%s`", tapert.Escape(name))
}

// Run records code and calls RunFunc or Echo.
func (m *Machine) Run(code Code, args []Value) (Value, error) {
	m.Ran = append(m.Ran, code)
	if m.RunFunc != nil {
		return m.RunFunc(code, args)
	}
	return Echo(code, args)
}

// Echo returns a string of the display forms of args, exactly as Run
// received them.
func Echo(code Code, args []Value) (Value, error) {
	return tapert.Str[Code]{Text: tapert.FormatArgs(args)}, nil
}

// Lines is a scripted line source. It also records history.
type Lines struct {
	// Script is the lines to return, in order. After the last, Prompt
	// returns io.EOF.
	Script []string
	// Prompts records every prompt requested.
	Prompts []string
	// History records every item appended to history.
	History []string
}

// NewLines creates a line source that returns lines in order.
func NewLines(lines ...string) *Lines {
	return &Lines{Script: lines}
}

// Prompt records prompt and returns the next scripted line.
func (l *Lines) Prompt(prompt string) (string, error) {
	l.Prompts = append(l.Prompts, prompt)
	if len(l.Script) == 0 {
		return "", io.EOF
	}
	s := l.Script[0]
	l.Script = l.Script[1:]
	return s, nil
}

// AppendHistory records item.
func (l *Lines) AppendHistory(item string) {
	l.History = append(l.History, item)
}

// Logger returns a debug-level logger that writes through t.Log.
func Logger(t testing.TB) zerolog.Logger {
	return logging.New(zerolog.NewTestWriter(t), logging.DefaultConfig(logging.ProfileTest))
}
