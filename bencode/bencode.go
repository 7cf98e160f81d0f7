// Package bencode implements the self-describing binary encoding used to move
// values across the machine boundary.
//
// A value is one of four shapes:
//
//	byte string   <decimal length>:<bytes>
//	integer       i<decimal>e
//	list          l<values>e
//	dictionary    d<byte string key><value>...e
//
// See http://en.wikipedia.org/wiki/Bencode.
package bencode

import (
	"errors"
	"fmt"
)

// Value is a decoded bencode value. It is one of ByteString, Integer, List,
// or Dict.
type Value interface {
	isValue()
}

// ByteString is a decoded byte string.
type ByteString []byte

// Integer is a decoded integer.
type Integer int64

// List is a decoded list.
type List []Value

// Dict is a decoded dictionary. Pairs keep the order in which they appeared.
type Dict []Pair

// Pair is a single dictionary entry.
type Pair struct {
	Key   []byte
	Value Value
}

func (ByteString) isValue() {}
func (Integer) isValue()    {}
func (List) isValue()       {}
func (Dict) isValue()       {}

// ErrEOF is returned when input ends before a value is complete.
var ErrEOF = errors.New("bencode: unexpected EOF")

// UnexpectedCharError reports a byte that cannot appear where it did.
type UnexpectedCharError struct {
	Char byte
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("bencode: unexpected character %q", e.Char)
}

// UnexpectedValueError reports a well-formed value in a position that does
// not accept it, such as a list used as a dictionary key.
type UnexpectedValueError struct {
	Value Value
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("bencode: unexpected value %s", Marshal(e.Value))
}
