package tape

import (
	"errors"
	"strings"
	"testing"
)

// run executes p with the given input and collects everything it sends.
func run(m Machine, p Program, input string) (string, error) {
	in := make(chan byte, len(input))
	for i := 0; i < len(input); i++ {
		in <- input[i]
	}
	close(in)
	out := make(chan byte)
	errc := make(chan error, 1)
	go func() {
		errc <- m.Exec(p, out, in)
		close(out)
	}()
	var b strings.Builder
	for c := range out {
		b.WriteByte(c)
	}
	return b.String(), <-errc
}

// TestCompile tests that only opcode characters compile.
func TestCompile(t *testing.T) {
	cases := map[string]struct {
		src string
		ok  bool
	}{
		"Empty":      {"", true},
		"All":        {"<>+-.,[]", true},
		"Letter":     {"+a", false},
		"Space":      {"+ +", false},
		"Wide":       {"+ī", false},
		"WideAlias":  {"ȫ", false}, // low byte is '+'
		"Unbalanced": {"[[", true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := Compile(c.src)
			if c.ok {
				if err != nil {
					t.Fatalf("%q failed to compile: %v", c.src, err)
				}
				if p.String() != c.src {
					t.Errorf("%q compiled to %q", c.src, p.String())
				}
				return
			}
			if err == nil {
				t.Fatalf("%q compiled without error", c.src)
			}
		})
	}
}

// TestCompileNamesCharacter tests that compile failures name the offending
// character.
func TestCompileNamesCharacter(t *testing.T) {
	_, err := Compile("++x")
	if err == nil || !strings.Contains(err.Error(), "'x'") {
		t.Errorf("error %v does not name 'x'", err)
	}
}

// TestPrint tests that Print programs send exactly their input.
func TestPrint(t *testing.T) {
	cases := []string{"", "1:A", "Hello, world!", "\x00\xff\x01", "5:hello"}
	if n := Print(nil).Len(); n != 0 {
		t.Errorf("empty Print has %d opcodes", n)
	}
	if n := Print([]byte{2}).Len(); n != 3 {
		t.Errorf("Print of one byte 2 has %d opcodes, want 3", n)
	}
	for _, c := range cases {
		got, err := run(Machine{}, Print([]byte(c)), "")
		if err != nil {
			t.Errorf("Print(%q) failed: %v", c, err)
			continue
		}
		if got != c {
			t.Errorf("Print(%q) sent %q", c, got)
		}
	}
}

// TestExec tests program behavior.
func TestExec(t *testing.T) {
	cases := map[string]struct {
		src   string
		input string
		want  string
	}{
		"Hello": {
			"++++++++++[>+++++++>++++++++++>+++>+<<<<-]>++.>+.+++++++..+++.",
			"", "Hello",
		},
		"Nested":        {"++[>++[>+++<-]<-]>>.", "", "\x0c"},
		"Echo":          {",[.,]", "abc", "abc"},
		"ClosedInput":   {",.,.", "x", "x\x00"},
		"WrapDown":      {"-.", "", "\xff"},
		"WrapUp":        {"-+.", "", "\x00"},
		"SkipZeroLoop":  {"[.]+.", "", "\x01"},
		"Empty":         {"", "", ""},
		"RightThenLeft": {">+<.>.", "", "\x00\x01"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := run(Machine{}, MustCompile(c.src), c.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("%q with input %q sent %q, want %q", c.src, c.input, got, c.want)
			}
		})
	}
}

// TestExecErrors tests that precondition failures are reported.
func TestExecErrors(t *testing.T) {
	cases := map[string]struct {
		m    Machine
		src  string
		want error
		sent string
	}{
		"PointerLeft":    {Machine{}, "<", ErrPointer, ""},
		"PointerLater":   {Machine{}, "+.<", ErrPointer, "\x01"},
		"UnmatchedOpen":  {Machine{}, "+.[", ErrUnbalanced, ""},
		"UnmatchedClose": {Machine{}, "+.]", ErrUnbalanced, ""},
		"Limit":          {Machine{MaxCells: 2}, ">>", ErrTapeLimit, ""},
		"WithinLimit":    {Machine{MaxCells: 2}, ">+.", nil, "\x01"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := run(c.m, MustCompile(c.src), "")
			if !errors.Is(err, c.want) {
				t.Errorf("%q: got error %v, want %v", c.src, err, c.want)
			}
			if got != c.sent {
				t.Errorf("%q sent %q before failing, want %q", c.src, got, c.sent)
			}
		})
	}
}

// TestClone tests that clones share no memory.
func TestClone(t *testing.T) {
	p := MustCompile("+++")
	q := p.Clone()
	q.ops[0] = Dec
	if p.String() != "+++" {
		t.Errorf("modifying a clone changed the original to %q", p.String())
	}
	b, err := p.MarshalBinary()
	if err != nil || string(b) != "+++" {
		t.Errorf("MarshalBinary gave %q, %v", b, err)
	}
}
