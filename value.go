package tapert

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

// Value kinds.
const (
	NilKind Kind = iota
	StrKind
	IfKind
	LambdaKind
	CallKind
	MacroKind
)

var kindNames = [...]string{"nil", "str", "if", "lambda", "call", "macro"}

func (k Kind) String() string {
	if k < NilKind || k > MacroKind {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a node of an expression tree. Its concrete type is one of Str,
// *If, Lambda, *Call, Macro, or Nil, all parameterized by the bytecode type
// of the machine that compiled it.
//
// Trees are built once by the reader and never modified. Sub-trees of If and
// Call nodes may be shared, but the reader never creates a node that refers
// back to one of its ancestors.
type Value[C ByteCode[C]] interface {
	// Kind returns the value's variant.
	Kind() Kind
	// String returns the value's display form.
	String() string

	value()
}

// Str is a text value.
type Str[C ByteCode[C]] struct {
	Text string
}

// If selects between two expressions by the truth of a third.
type If[C ByteCode[C]] struct {
	Pred, Then, Else Value[C]
}

// Lambda is compiled machine code.
type Lambda[C ByteCode[C]] struct {
	Code C
}

// Call applies a callee to unevaluated arguments.
type Call[C ByteCode[C]] struct {
	Callee Value[C]
	Args   []Value[C]
}

// Macro is a name resolved by the machine at evaluation time.
type Macro[C ByteCode[C]] struct {
	Name string
}

// Nil is the empty value.
type Nil[C ByteCode[C]] struct{}

func (Str[C]) Kind() Kind    { return StrKind }
func (*If[C]) Kind() Kind    { return IfKind }
func (Lambda[C]) Kind() Kind { return LambdaKind }
func (*Call[C]) Kind() Kind  { return CallKind }
func (Macro[C]) Kind() Kind  { return MacroKind }
func (Nil[C]) Kind() Kind    { return NilKind }

func (v Str[C]) String() string    { return v.Text }
func (*If[C]) String() string      { return "<if expression>" }
func (v Lambda[C]) String() string { return "`" + v.Code.String() + "'" }
func (v Macro[C]) String() string  { return "@" + v.Name + "~" }
func (Nil[C]) String() string      { return "nil" }

func (v *Call[C]) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(v.Callee.String())
	b.WriteString(" [ ")
	b.WriteString(FormatArgs(v.Args))
	b.WriteString("])")
	return b.String()
}

func (Str[C]) value()    {}
func (*If[C]) value()    {}
func (Lambda[C]) value() {}
func (*Call[C]) value()  {}
func (Macro[C]) value()  {}
func (Nil[C]) value()    {}

// FormatArgs returns the display forms of args, each followed by a space.
func FormatArgs[C ByteCode[C]](args []Value[C]) string {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(arg.String())
		b.WriteByte(' ')
	}
	return b.String()
}

// Truthy reports whether v counts as true in a conditional. Only Nil and the
// empty string are false.
func Truthy[C ByteCode[C]](v Value[C]) bool {
	switch v := v.(type) {
	case Nil[C]:
		return false
	case Str[C]:
		return v.Text != ""
	}
	return true
}

// Clone returns a copy of a leaf value. Lambda code is cloned; If and Call
// nodes are returned as-is, since trees are immutable once read.
func Clone[C ByteCode[C]](v Value[C]) Value[C] {
	if l, ok := v.(Lambda[C]); ok {
		return Lambda[C]{Code: l.Code.Clone()}
	}
	return v
}
