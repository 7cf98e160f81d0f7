package bencode

import (
	"io"
	"math"
)

// maxLength bounds byte string lengths so that a hostile length prefix cannot
// overflow.
const maxLength = math.MaxInt32

// Parse reads exactly one value from r. Bytes after the value are left
// unread.
func Parse(r io.ByteReader) (Value, error) {
	b, err := next(r)
	if err != nil {
		return nil, err
	}
	return parseValue(b, r)
}

// next reads one byte, converting the end of input to ErrEOF.
func next(r io.ByteReader) (byte, error) {
	b, err := r.ReadByte()
	if err == io.EOF {
		return 0, ErrEOF
	}
	return b, err
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// parseValue parses the value whose first byte is b.
func parseValue(b byte, r io.ByteReader) (Value, error) {
	switch {
	case b == 'i':
		n, err := parseInt(r)
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case b == 'l':
		return parseList(r)
	case b == 'd':
		return parseDict(r)
	case isDigit(b):
		return parseBytes(b, r)
	}
	return nil, &UnexpectedCharError{Char: b}
}

func parseBytes(first byte, r io.ByteReader) (Value, error) {
	if first == '0' {
		// No leading zeros, so the only length starting with 0 is 0 itself.
		b, err := next(r)
		if err != nil {
			return nil, err
		}
		if b != ':' {
			return nil, &UnexpectedCharError{Char: b}
		}
		return ByteString{}, nil
	}
	n := int(first - '0')
	for {
		b, err := next(r)
		if err != nil {
			return nil, err
		}
		if b == ':' {
			break
		}
		if !isDigit(b) {
			return nil, &UnexpectedCharError{Char: b}
		}
		d := int(b - '0')
		if n > (maxLength-d)/10 {
			return nil, &UnexpectedCharError{Char: b}
		}
		n = n*10 + d
	}
	// Don't trust the length for the allocation; the stream may be short.
	s := make(ByteString, 0, minInt(n, 512))
	for i := 0; i < n; i++ {
		b, err := next(r)
		if err != nil {
			return nil, err
		}
		s = append(s, b)
	}
	return s, nil
}

func parseInt(r io.ByteReader) (int64, error) {
	b, err := next(r)
	if err != nil {
		return 0, err
	}
	neg := b == '-'
	if neg {
		if b, err = next(r); err != nil {
			return 0, err
		}
	}
	switch {
	case b == '0':
		if neg {
			// -0 is not a valid integer.
			return 0, &UnexpectedCharError{Char: b}
		}
		if b, err = next(r); err != nil {
			return 0, err
		}
		if b != 'e' {
			return 0, &UnexpectedCharError{Char: b}
		}
		return 0, nil
	case isDigit(b):
	default:
		return 0, &UnexpectedCharError{Char: b}
	}
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	n := uint64(b - '0')
	for {
		if b, err = next(r); err != nil {
			return 0, err
		}
		if b == 'e' {
			break
		}
		if !isDigit(b) {
			return 0, &UnexpectedCharError{Char: b}
		}
		d := uint64(b - '0')
		if n > (limit-d)/10 {
			return 0, &UnexpectedCharError{Char: b}
		}
		n = n*10 + d
	}
	if neg {
		return -int64(n), nil
	}
	return int64(n), nil
}

func parseList(r io.ByteReader) (Value, error) {
	l := List{}
	for {
		b, err := next(r)
		if err != nil {
			return nil, err
		}
		if b == 'e' {
			return l, nil
		}
		v, err := parseValue(b, r)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
}

func parseDict(r io.ByteReader) (Value, error) {
	d := Dict{}
	for {
		b, err := next(r)
		if err != nil {
			return nil, err
		}
		if b == 'e' {
			return d, nil
		}
		k, err := parseValue(b, r)
		if err != nil {
			return nil, err
		}
		key, ok := k.(ByteString)
		if !ok {
			return nil, &UnexpectedValueError{Value: k}
		}
		if b, err = next(r); err != nil {
			return nil, err
		}
		v, err := parseValue(b, r)
		if err != nil {
			return nil, err
		}
		d = append(d, Pair{Key: key, Value: v})
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
