package tapert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Signal is a cooperative control flow request from a machine. Signals are
// returned as errors from MacroExpand, but they are not failures.
type Signal int

// Control flow signals.
const (
	// Continue tells the evaluator that the macro produced nothing. The
	// macro evaluates to Nil and evaluation proceeds.
	Continue Signal = iota + 1
	// Quit ends the session. It propagates out of evaluation unchanged.
	Quit
)

var signalNames = [...]string{"", "continue", "quit"}

func (s Signal) String() string {
	if s < Continue || s > Quit {
		return fmt.Sprintf("Signal(%d)", int(s))
	}
	return signalNames[s]
}

func (s Signal) Error() string {
	return "signal: " + s.String()
}

// ErrNotImplemented is returned by the default MacroExpand and Run.
var ErrNotImplemented = errors.New("not implemented")

// EvalError is a failure to evaluate an expression. It aborts only the
// expression being evaluated.
type EvalError struct {
	Err error
}

func (e *EvalError) Error() string {
	return e.Err.Error()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// evalErrorf creates an EvalError with a formatted message.
func evalErrorf(format string, args ...interface{}) error {
	return &EvalError{Err: fmt.Errorf(format, args...)}
}

// Parse errors.
var (
	// ErrIncomplete means the input ended inside an expression. More input
	// may complete it.
	ErrIncomplete = errors.New("unexpectedly terminated")
	// ErrEmpty means the input held nothing but whitespace.
	ErrEmpty = errors.New("no expression")
)

// SyntaxError reports a character that cannot appear where it did.
type SyntaxError struct {
	Char rune
}

func (e *SyntaxError) Error() string {
	return "unexpected `" + escapeRune(e.Char) + "`"
}

// TrailingError reports a non-space character after a complete expression.
type TrailingError struct {
	Char rune
}

func (e *TrailingError) Error() string {
	return "unexpected `" + escapeRune(e.Char) + "`"
}

// CompileError wraps a machine's failure to compile a lambda literal.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string {
	return "failed to compile: " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Escape returns s with non-printing characters, quotes, and backslashes
// written as Go escape sequences.
func Escape(s string) string {
	q := strconv.Quote(s)
	q = q[1 : len(q)-1]
	return strings.ReplaceAll(q, "'", `\'`)
}

func escapeRune(r rune) string {
	return Escape(string(r))
}
