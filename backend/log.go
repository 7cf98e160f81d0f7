package backend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gitlab.com/variadico/lctime"

	"github.com/zephyrtronium/tapert/tape"
)

// DefaultTimeFormat is the strftime format of log timestamps.
const DefaultTimeFormat = "%H:%M:%S"

// MacroEntry records one successful macro expansion.
type MacroEntry struct {
	Time time.Time
	Name string
	Code tape.Program
}

// Format renders the entry with its timestamp in the strftime format layout.
func (e MacroEntry) Format(layout string) string {
	return fmt.Sprintf("%s @%s~ = `%s'", lctime.Strftime(layout, e.Time), e.Name, e.Code)
}

// CallEntry records one successful run.
type CallEntry struct {
	Time time.Time
	Code tape.Program
	// Args are the display forms of the arguments as passed.
	Args []string
	// Result is the display form of the decoded result.
	Result string
}

// Format renders the entry with its timestamp in the strftime format layout.
// Arguments and the result are quoted.
func (e CallEntry) Format(layout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s `%s'", lctime.Strftime(layout, e.Time), e.Code)
	for i, arg := range e.Args {
		fmt.Fprintf(&b, "\narg%d: %s", i+1, strconv.Quote(arg))
	}
	fmt.Fprintf(&b, "\nresult: %s", strconv.Quote(e.Result))
	return b.String()
}

// Log renders both introspection logs.
func (t *Tape) Log() string {
	var b strings.Builder
	if len(t.macroLog) == 0 {
		b.WriteString("no log for macros\n")
	} else {
		fmt.Fprintf(&b, "log for macros: (%d entries)\n", len(t.macroLog))
		for i, e := range t.macroLog {
			fmt.Fprintf(&b, "%d: %s\n", i, e.Format(t.timeFormat))
		}
	}
	if len(t.callLog) == 0 {
		b.WriteString("no log for calls\n")
	} else {
		fmt.Fprintf(&b, "log for calls: (%d entries)\n", len(t.callLog))
		for i, e := range t.callLog {
			fmt.Fprintf(&b, "#%d: %s\n", i, e.Format(t.timeFormat))
		}
	}
	return b.String()
}

// MacroLog returns the macro expansion log.
func (t *Tape) MacroLog() []MacroEntry {
	return t.macroLog
}

// CallLog returns the call log.
func (t *Tape) CallLog() []CallEntry {
	return t.callLog
}

func (t *Tape) logMacro(name string, code tape.Program) {
	t.macroLog = append(t.macroLog, MacroEntry{Time: t.now(), Name: name, Code: code.Clone()})
	t.log.Debug().Str("macro", name).Int("entries", len(t.macroLog)).Msg("macro logged")
}

func (t *Tape) logCall(code tape.Program, args []string, result string) {
	t.callLog = append(t.callLog, CallEntry{Time: t.now(), Code: code.Clone(), Args: args, Result: result})
	t.log.Debug().Int("ops", code.Len()).Int("entries", len(t.callLog)).Msg("call logged")
}

// showMacro writes macro log entry i.
func (t *Tape) showMacro(i int) {
	if i < 0 || i >= len(t.macroLog) {
		fmt.Fprintf(t.out, "no macro log entry for index %d\n", i)
		fmt.Fprintln(t.out, "type `(@log~)` for log overview")
		return
	}
	fmt.Fprintln(t.out, t.macroLog[i].Format(t.timeFormat))
}

// showCall writes call log entry i.
func (t *Tape) showCall(i int) {
	if i < 0 || i >= len(t.callLog) {
		fmt.Fprintf(t.out, "no call log entry for index #%d\n", i)
		fmt.Fprintln(t.out, "type `(@log~)` for log overview")
		return
	}
	fmt.Fprintln(t.out, t.callLog[i].Format(t.timeFormat))
}

// index parses a log index, which is a nonempty string of decimal digits.
func index(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
