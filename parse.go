package tapert

/*
The reader dispatches on the first non-space character of each expression:

	'text' "text"   string
	? p t f         conditional
	`code'          lambda, compiled as soon as it is read
	(f args...)     call; () is nil
	@name~          macro

Strings, lambda bodies, and macro names share one escape syntax: \r, \n, \t,
\\, and a backslash before the closing delimiter. Other escapes are errors.
*/

import (
	"io"
	"strings"
)

// Parse reads one expression from src. Lambda literals are compiled with c
// as they are read, so compile failures are parse errors. Characters after
// the expression are left unread.
//
// If src holds only whitespace, the error is ErrEmpty. If src ends inside an
// expression, the error is ErrIncomplete. Otherwise, a failure is a
// *SyntaxError or *CompileError.
func Parse[C ByteCode[C]](src io.RuneReader, c Compiler[C]) (Value[C], error) {
	p := parser[C]{src: src, c: c}
	r, err := p.space()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, err
	}
	return p.expr(r)
}

// Read parses text, which must contain exactly one expression optionally
// surrounded by whitespace. Anything else after the expression is a
// *TrailingError.
func Read[C ByteCode[C]](text string, c Compiler[C]) (Value[C], error) {
	src := strings.NewReader(text)
	v, err := Parse(src, c)
	if err != nil {
		return nil, err
	}
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			return v, nil
		}
		if !isSpace(r) {
			return nil, &TrailingError{Char: r}
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

type parser[C ByteCode[C]] struct {
	src io.RuneReader
	c   Compiler[C]
}

// space skips whitespace and returns the following rune.
func (p *parser[C]) space() (rune, error) {
	for {
		r, _, err := p.src.ReadRune()
		if err != nil {
			return 0, err
		}
		if !isSpace(r) {
			return r, nil
		}
	}
}

// next is like space, but running out of input is ErrIncomplete. It is used
// inside expressions.
func (p *parser[C]) next() (rune, error) {
	r, err := p.space()
	if err == io.EOF {
		return 0, ErrIncomplete
	}
	return r, err
}

// read reads a rune inside a delimited literal.
func (p *parser[C]) read() (rune, error) {
	r, _, err := p.src.ReadRune()
	if err == io.EOF {
		return 0, ErrIncomplete
	}
	return r, err
}

// expr parses the expression that starts with r.
func (p *parser[C]) expr(r rune) (Value[C], error) {
	switch r {
	case '\'', '"':
		s, err := p.delimited(r)
		if err != nil {
			return nil, err
		}
		return Str[C]{Text: s}, nil
	case '?':
		return p.cond()
	case '`':
		return p.lambda()
	case '(':
		return p.call()
	case '@':
		name, err := p.delimited('~')
		if err != nil {
			return nil, err
		}
		return Macro[C]{Name: name}, nil
	}
	return nil, &SyntaxError{Char: r}
}

// sub parses a nested expression.
func (p *parser[C]) sub() (Value[C], error) {
	r, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.expr(r)
}

func (p *parser[C]) cond() (Value[C], error) {
	var v [3]Value[C]
	for i := range v {
		x, err := p.sub()
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return &If[C]{Pred: v[0], Then: v[1], Else: v[2]}, nil
}

func (p *parser[C]) lambda() (Value[C], error) {
	s, err := p.delimited('\'')
	if err != nil {
		return nil, err
	}
	code, err := p.c.Compile(NewSource(s))
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return Lambda[C]{Code: code}, nil
}

func (p *parser[C]) call() (Value[C], error) {
	r, err := p.next()
	if err != nil {
		return nil, err
	}
	if r == ')' {
		return Nil[C]{}, nil
	}
	callee, err := p.expr(r)
	if err != nil {
		return nil, err
	}
	var args []Value[C]
	for {
		r, err := p.next()
		if err != nil {
			return nil, err
		}
		if r == ')' {
			return &Call[C]{Callee: callee, Args: args}, nil
		}
		arg, err := p.expr(r)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

// delimited reads literal text up to an unescaped delim, which is consumed.
func (p *parser[C]) delimited(delim rune) (string, error) {
	var b strings.Builder
	for {
		r, err := p.read()
		if err != nil {
			return "", err
		}
		switch r {
		case delim:
			return b.String(), nil
		case '\\':
			e, err := p.read()
			if err != nil {
				return "", err
			}
			switch e {
			case 'r':
				b.WriteByte('\r')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case delim:
				b.WriteRune(delim)
			default:
				return "", &SyntaxError{Char: e}
			}
		default:
			b.WriteRune(r)
		}
	}
}
