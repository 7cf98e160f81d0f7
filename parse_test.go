package tapert_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/testutils"
)

// show renders the structure of an expression tree.
func show(v testutils.Value) string {
	switch v := v.(type) {
	case tapert.Str[testutils.Code]:
		return strconv.Quote(v.Text)
	case *tapert.If[testutils.Code]:
		return "?(" + show(v.Pred) + " " + show(v.Then) + " " + show(v.Else) + ")"
	case tapert.Lambda[testutils.Code]:
		return "`" + string(v.Code) + "'"
	case *tapert.Call[testutils.Code]:
		s := "(" + show(v.Callee)
		for _, arg := range v.Args {
			s += " " + show(arg)
		}
		return s + ")"
	case tapert.Macro[testutils.Code]:
		return "@" + v.Name + "~"
	case tapert.Nil[testutils.Code]:
		return "nil"
	}
	return "<invalid>"
}

// TestRead tests that valid expressions produce the correct trees.
func TestRead(t *testing.T) {
	cases := map[string]struct {
		text string
		want string
	}{
		"Str":            {"'abc'", `"abc"`},
		"StrDouble":      {`"abc"`, `"abc"`},
		"StrEmpty":       {"''", `""`},
		"StrSpace":       {"  'a b'  ", `"a b"`},
		"StrNewline":     {"\n'a'\n", `"a"`},
		"StrUnicode":     {"'héllo ☃'", `"héllo ☃"`},
		"StrOtherQuote":  {`'a"b'`, `"a\"b"`},
		"EscapeDelim":    {`'a\'b'`, `"a'b"`},
		"EscapeDouble":   {`"a\"b"`, `"a\"b"`},
		"Escapes":        {`'\r\n\t\\'`, `"\r\n\t\\"`},
		"If":             {"? 'x' 'a' 'b'", `?("x" "a" "b")`},
		"IfCompact":      {"?'x''a''b'", `?("x" "a" "b")`},
		"IfNested":       {"? ? () 'a' 'b' 'c' 'd'", `?(?(nil "a" "b") "c" "d")`},
		"Lambda":         {"`+-'", "`+-'"},
		"LambdaEmpty":    {"`'", "`'"},
		"LambdaEscape":   {"`a\\'b'", "`a'b'"},
		"Nil":            {"()", "nil"},
		"NilSpace":       {"(  )", "nil"},
		"Call":           {"(`x')", "(`x')"},
		"CallArgs":       {"(`x' 'a' @m~ ())", "(`x' \"a\" @m~ nil)"},
		"CallMacro":      {"(@f~ 'a')", `(@f~ "a")`},
		"CallNested":     {"((`f') (`g' 'x'))", "((`f') (`g' \"x\"))"},
		"CallConditions": {"(? 'p' `a' `b' 'x')", "(?(\"p\" `a' `b') \"x\")"},
		"Macro":          {"@name~", "@name~"},
		"MacroEmpty":     {"@~", "@~"},
		"MacroSpace":     {"@two words~", "@two words~"},
		"MacroEscape":    {`@a\~b~`, "@a~b~"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := tapert.Read[testutils.Code](c.text, &testutils.Machine{})
			if err != nil {
				t.Fatalf("%q failed to read: %v", c.text, err)
			}
			if got := show(v); got != c.want {
				t.Errorf("%q read wrong; want %s, got %s", c.text, c.want, got)
			}
		})
	}
}

// TestReadIncomplete tests that input ending inside an expression is
// reported as incomplete.
func TestReadIncomplete(t *testing.T) {
	cases := map[string]string{
		"Str":         "'abc",
		"StrEscape":   `'a\`,
		"If":          "? 'a' 'b'",
		"IfEmpty":     "?",
		"Lambda":      "`+-",
		"Call":        "(`x'",
		"CallOpen":    "(",
		"CallArg":     "(`x' 'a",
		"Macro":       "@na",
		"NestedSpace": "( ",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tapert.Read[testutils.Code](text, &testutils.Machine{})
			if !errors.Is(err, tapert.ErrIncomplete) {
				t.Errorf("%q: want ErrIncomplete, got %v", text, err)
			}
		})
	}
}

// TestReadEmpty tests that blank input is distinct from other errors.
func TestReadEmpty(t *testing.T) {
	for _, text := range []string{"", " ", "\t \r\n"} {
		_, err := tapert.Read[testutils.Code](text, &testutils.Machine{})
		if !errors.Is(err, tapert.ErrEmpty) {
			t.Errorf("%q: want ErrEmpty, got %v", text, err)
		}
	}
}

// TestReadErrors tests that malformed input produces the right kind of error
// naming the right character.
func TestReadErrors(t *testing.T) {
	cases := map[string]struct {
		text string
		kind string
		char rune
	}{
		"Leading":       {"x", "syntax", 'x'},
		"LeadingClose":  {")", "syntax", ')'},
		"TrailingSpace": {"'a' ", "", 0},
		"BadEscape":     {`'\q'`, "syntax", 'q'},
		"BadEscapeQ":    {`'\"'`, "syntax", '"'},
		"Callee":        {"(x)", "syntax", 'x'},
		"Arg":           {"(`x' 1)", "syntax", '1'},
		"IfBranch":      {"? 'a' b 'c'", "syntax", 'b'},
		"Trailing":      {"'a' 'b'", "trailing", '\''},
		"TrailingClose": {"() )", "trailing", ')'},
		"TrailingWord":  {"@m~x", "trailing", 'x'},
		"Compile":       {"`+!'", "compile", 0},
		"CompileInCall": {"(`ok' `!')", "compile", 0},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tapert.Read[testutils.Code](c.text, &testutils.Machine{})
			var (
				syn   *tapert.SyntaxError
				trail *tapert.TrailingError
				comp  *tapert.CompileError
			)
			switch c.kind {
			case "":
				if err != nil {
					t.Errorf("%q: want no error, got %v", c.text, err)
				}
			case "syntax":
				if !errors.As(err, &syn) {
					t.Fatalf("%q: want *SyntaxError, got %#v", c.text, err)
				}
				if syn.Char != c.char {
					t.Errorf("%q: wrong character; want %q, got %q", c.text, c.char, syn.Char)
				}
			case "trailing":
				if !errors.As(err, &trail) {
					t.Fatalf("%q: want *TrailingError, got %#v", c.text, err)
				}
				if trail.Char != c.char {
					t.Errorf("%q: wrong character; want %q, got %q", c.text, c.char, trail.Char)
				}
			case "compile":
				if !errors.As(err, &comp) {
					t.Fatalf("%q: want *CompileError, got %#v", c.text, err)
				}
				if !strings.Contains(comp.Error(), "!") {
					t.Errorf("%q: compile error lost the machine's message: %v", c.text, comp)
				}
			}
		})
	}
}

// TestParseLeavesRest tests that Parse reads exactly one expression.
func TestParseLeavesRest(t *testing.T) {
	src := strings.NewReader("'a' ('b'")
	m := &testutils.Machine{}
	v, err := tapert.Parse[testutils.Code](src, m)
	if err != nil {
		t.Fatal(err)
	}
	if got := show(v); got != `"a"` {
		t.Errorf("first expression: want %s, got %s", `"a"`, got)
	}
	_, err = tapert.Parse[testutils.Code](src, m)
	if !errors.Is(err, tapert.ErrIncomplete) {
		t.Errorf("second expression: want ErrIncomplete, got %v", err)
	}
}

// TestReadShared tests that reading the same text twice produces equal but
// independent trees.
func TestReadShared(t *testing.T) {
	m := &testutils.Machine{}
	a, err := tapert.Read[testutils.Code]("(`f' 'x')", m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tapert.Read[testutils.Code]("(`f' 'x')", m)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two reads produced the same node")
	}
	if show(a) != show(b) {
		t.Errorf("two reads differ: %s vs %s", show(a), show(b))
	}
}

// TestErrorMessages tests the display of parse errors.
func TestErrorMessages(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"Syntax":       {&tapert.SyntaxError{Char: 'x'}, "unexpected `x`"},
		"SyntaxEscape": {&tapert.SyntaxError{Char: '\n'}, "unexpected `\\n`"},
		"SyntaxQuote":  {&tapert.SyntaxError{Char: '\''}, "unexpected `\\'`"},
		"Trailing":     {&tapert.TrailingError{Char: ')'}, "unexpected `)`"},
		"Compile":      {&tapert.CompileError{Err: errors.New("bad")}, "failed to compile: bad"},
		"Incomplete":   {tapert.ErrIncomplete, "unexpectedly terminated"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"plain":  "plain",
		"a'b":    `a\'b`,
		"a\"b":   `a\"b`,
		"\x00\t": `\x00\t`,
		`\`:      `\\`,
		"☃":      "☃",
	}
	for in, want := range cases {
		if got := tapert.Escape(in); got != want {
			t.Errorf("Escape(%q): want %q, got %q", in, want, got)
		}
	}
}
