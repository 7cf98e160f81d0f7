package tapert

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// State is the input state of a REPL.
type State int

const (
	// Prompting means the REPL is waiting for a new expression.
	Prompting State = iota
	// Continuing means the REPL holds an incomplete expression and is
	// waiting for the rest of it.
	Continuing
)

func (s State) String() string {
	switch s {
	case Prompting:
		return "prompting"
	case Continuing:
		return "continuing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Default prompts.
const (
	DefaultPrompt       = "> "
	DefaultContinuation = ".. "
)

// REPL is an incremental read-eval-print loop. Input that ends inside an
// expression is held, and following lines are appended to it until the
// expression is complete.
type REPL[C ByteCode[C]] struct {
	// Machine compiles and evaluates expressions.
	Machine Machine[C]
	// Lines supplies input.
	Lines LineReader
	// Out receives one line per completed expression.
	Out io.Writer
	// History, if not nil, receives each completed input.
	History History
	// Prompt and Continuation are the prompts for a new expression and for
	// the rest of an incomplete one.
	Prompt, Continuation string
	// Log receives debugging events.
	Log zerolog.Logger

	state State
	buf   strings.Builder
}

// NewREPL creates a REPL with default prompts and no logging.
func NewREPL[C ByteCode[C]](m Machine[C], lines LineReader, out io.Writer) *REPL[C] {
	return &REPL[C]{
		Machine:      m,
		Lines:        lines,
		Out:          out,
		Prompt:       DefaultPrompt,
		Continuation: DefaultContinuation,
		Log:          zerolog.Nop(),
	}
}

// State returns the REPL's current input state.
func (r *REPL[C]) State() State {
	return r.state
}

// Run reads and evaluates lines until an expression evaluates to Quit, in
// which case it returns nil, or until the line source fails, in which case it
// returns the line source's error. At the end of input, that is io.EOF.
func (r *REPL[C]) Run() error {
	for {
		p := r.Prompt
		if r.state == Continuing {
			p = r.Continuation
		}
		line, err := r.Lines.Prompt(p)
		if err != nil {
			return err
		}
		if r.Feed(line) {
			return nil
		}
	}
}

// Feed handles one line of input and reports whether the session should end.
func (r *REPL[C]) Feed(line string) (quit bool) {
	r.buf.WriteString(line)
	src := r.buf.String()
	v, err := Read[C](src, r.Machine)
	switch {
	case err == nil:
		// Evaluate below.
	case errors.Is(err, ErrIncomplete):
		if r.state != Continuing {
			r.Log.Debug().Stringer("from", r.state).Stringer("to", Continuing).Msg("incomplete input")
		}
		r.state = Continuing
		return false
	case errors.Is(err, ErrEmpty):
		r.reset()
		return false
	default:
		r.reset()
		r.record(src)
		r.report(err)
		return false
	}
	r.reset()
	r.record(src)
	res, err := Calc(v, r.Machine)
	if errors.Is(err, Quit) {
		r.Log.Debug().Msg("quit")
		return true
	}
	if err != nil {
		fmt.Fprintln(r.Out, "failed to calculate:", err)
		return false
	}
	fmt.Fprintln(r.Out, res.String())
	return false
}

// reset clears the buffer and returns to the prompting state.
func (r *REPL[C]) reset() {
	if r.state != Prompting {
		r.Log.Debug().Stringer("from", r.state).Stringer("to", Prompting).Msg("input complete")
	}
	r.buf.Reset()
	r.state = Prompting
}

func (r *REPL[C]) record(src string) {
	if r.History != nil {
		r.History.AppendHistory(src)
	}
}

// report writes a parse error.
func (r *REPL[C]) report(err error) {
	var (
		syn   *SyntaxError
		comp  *CompileError
		trail *TrailingError
	)
	switch {
	case errors.As(err, &syn):
		fmt.Fprintln(r.Out, "failed to parse expression:", syn)
	case errors.As(err, &comp):
		fmt.Fprintln(r.Out, "compile error:", comp.Err)
	case errors.As(err, &trail):
		fmt.Fprintln(r.Out, "error:", trail)
	default:
		fmt.Fprintln(r.Out, "error:", err)
	}
	r.Log.Debug().Err(err).Msg("parse failed")
}
