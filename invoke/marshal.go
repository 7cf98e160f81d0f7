package invoke

import (
	"encoding"
	"fmt"
	"unicode/utf8"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/bencode"
)

// Tags of the records which carry non-string values across the wire.
const (
	TagStr   = "str"
	TagIf    = "if"
	TagCall  = "call"
	TagMacro = "macro"
)

// Code is the constraint on bytecode that can cross the wire. Its binary
// form is sent as-is; it is opaque to this package.
type Code[C any] interface {
	tapert.ByteCode[C]
	encoding.BinaryMarshaler
}

// Encode converts an expression to its wire form:
//
//	Str     byte string of its text
//	If      {"if": [pred, then, else]}
//	Lambda  the code's MarshalBinary bytes
//	Call    {"call": [callee, args...]}
//	Macro   {"macro": name}
//	Nil     empty byte string
func Encode[C Code[C]](v tapert.Value[C]) ([]byte, error) {
	switch v := v.(type) {
	case tapert.Str[C]:
		return bencode.EncodeBytes([]byte(v.Text)), nil
	case *tapert.If[C]:
		items, err := encodeAll([]tapert.Value[C]{v.Pred, v.Then, v.Else})
		if err != nil {
			return nil, err
		}
		return bencode.EncodeTagged(TagIf, bencode.EncodeList(items...)), nil
	case tapert.Lambda[C]:
		return v.Code.MarshalBinary()
	case *tapert.Call[C]:
		vals := make([]tapert.Value[C], 0, len(v.Args)+1)
		vals = append(vals, v.Callee)
		vals = append(vals, v.Args...)
		items, err := encodeAll(vals)
		if err != nil {
			return nil, err
		}
		return bencode.EncodeTagged(TagCall, bencode.EncodeList(items...)), nil
	case tapert.Macro[C]:
		return bencode.EncodeTagged(TagMacro, bencode.EncodeBytes([]byte(v.Name))), nil
	case tapert.Nil[C]:
		return bencode.EncodeBytes(nil), nil
	}
	return nil, fmt.Errorf("invoke: cannot encode %T", v)
}

// EncodeArgs encodes an argument list as a list of encoded expressions.
func EncodeArgs[C Code[C]](args []tapert.Value[C]) ([]byte, error) {
	items, err := encodeAll(args)
	if err != nil {
		return nil, err
	}
	return bencode.EncodeList(items...), nil
}

func encodeAll[C Code[C]](vals []tapert.Value[C]) ([][]byte, error) {
	items := make([][]byte, len(vals))
	for i, x := range vals {
		b, err := Encode[C](x)
		if err != nil {
			return nil, err
		}
		items[i] = b
	}
	return items, nil
}

// Decode converts a wire value to an expression. Only strings come back: a
// byte string, or a {"str": byte string} record, holding valid UTF-8. Every
// other shape decodes to Nil. Decode never fails.
func Decode[C tapert.ByteCode[C]](v bencode.Value) tapert.Value[C] {
	switch v := v.(type) {
	case bencode.ByteString:
		return text[C](v)
	case bencode.Dict:
		if len(v) != 1 || string(v[0].Key) != TagStr {
			break
		}
		if s, ok := v[0].Value.(bencode.ByteString); ok {
			return text[C](s)
		}
	}
	return tapert.Nil[C]{}
}

func text[C tapert.ByteCode[C]](b []byte) tapert.Value[C] {
	if !utf8.Valid(b) {
		return tapert.Nil[C]{}
	}
	return tapert.Str[C]{Text: string(b)}
}
