package tapert

// ByteCode is the constraint on a machine's compiled code. Code must be
// printable and cloneable; its clones must not share mutable state.
type ByteCode[C any] interface {
	String() string
	Clone() C
}

// Source is program text awaiting compilation. Owned and borrowed text
// both become a Source, so a machine needs only one compile path.
type Source struct {
	text string
}

// NewSource creates a Source from text.
func NewSource[T ~string | ~[]byte](text T) Source {
	return Source{text: string(text)}
}

// String returns the source text.
func (s Source) String() string {
	return s.text
}

// Compiler converts source text to code.
type Compiler[C ByteCode[C]] interface {
	// Compile converts src into code. The returned error describes why the
	// source is invalid.
	Compile(src Source) (C, error)
}

// Machine is the capability set of an execution backend.
type Machine[C ByteCode[C]] interface {
	Compiler[C]
	// MacroExpand resolves a macro name. It returns code, a Signal, or an
	// error describing the failure.
	MacroExpand(name string) (C, error)
	// Run executes code with the given argument expressions. The arguments
	// are passed as written; interpreting them is the machine's business.
	Run(code C, args []Value[C]) (Value[C], error)
}

// Unimplemented provides default MacroExpand and Run methods which fail with
// ErrNotImplemented. Machines may embed it and override what they support.
type Unimplemented[C ByteCode[C]] struct{}

// MacroExpand returns ErrNotImplemented.
func (Unimplemented[C]) MacroExpand(name string) (C, error) {
	var zero C
	return zero, ErrNotImplemented
}

// Run returns ErrNotImplemented.
func (Unimplemented[C]) Run(code C, args []Value[C]) (Value[C], error) {
	return nil, ErrNotImplemented
}
