// Package tape implements a byte-cell tape machine with a one-character
// opcode alphabet:
//
//	<  move the pointer left
//	>  move the pointer right, growing the tape as needed
//	+  increment the current cell, wrapping at 256
//	-  decrement the current cell, wrapping at 0
//	.  send the current cell to the output channel
//	,  receive a byte from the input channel into the current cell
//	[  jump past the matching ] if the current cell is zero
//	]  jump back to the matching [ if the current cell is nonzero
//
// Machines communicate only through the two byte channels given to Exec.
package tape

import (
	"errors"
	"fmt"
	"strings"
)

// Op is a single opcode. Its value is the opcode's source character.
type Op byte

// Opcodes.
const (
	Left  Op = '<'
	Right Op = '>'
	Inc   Op = '+'
	Dec   Op = '-'
	Put   Op = '.'
	Get   Op = ','
	Open  Op = '['
	Close Op = ']'
)

// Program is compiled tape code.
type Program struct {
	ops []Op
}

// Compile converts source text to a program. Every character must be an
// opcode; whitespace is not ignored.
func Compile(src string) (Program, error) {
	ops := make([]Op, 0, len(src))
	for _, r := range src {
		if !isOp(r) {
			return Program{}, fmt.Errorf("unexpected character %q", r)
		}
		ops = append(ops, Op(r))
	}
	return Program{ops: ops}, nil
}

func isOp(r rune) bool {
	switch r {
	case '<', '>', '+', '-', '.', ',', '[', ']':
		return true
	}
	return false
}

// MustCompile is like Compile but panics on invalid source. It is meant for
// fixed programs.
func MustCompile(src string) Program {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Print creates a program which sends exactly the bytes of s, in order, using
// a single cell.
func Print(s []byte) Program {
	var ops []Op
	var cur byte
	for _, b := range s {
		diff := int(b) - int(cur)
		op := Inc
		if diff < 0 {
			op = Dec
			diff = -diff
		}
		for i := 0; i < diff; i++ {
			ops = append(ops, op)
		}
		ops = append(ops, Put)
		cur = b
	}
	return Program{ops: ops}
}

// Len returns the number of opcodes in the program.
func (p Program) Len() int {
	return len(p.ops)
}

// String returns the program's source text.
func (p Program) String() string {
	var b strings.Builder
	b.Grow(len(p.ops))
	for _, op := range p.ops {
		b.WriteByte(byte(op))
	}
	return b.String()
}

// Clone returns a copy of the program that shares no memory with p.
func (p Program) Clone() Program {
	if p.ops == nil {
		return Program{}
	}
	ops := make([]Op, len(p.ops))
	copy(ops, p.ops)
	return Program{ops: ops}
}

// MarshalBinary returns the program's byte serialization, which is its
// source text.
func (p Program) MarshalBinary() ([]byte, error) {
	return []byte(p.String()), nil
}

// Run executes the program on a machine with an unbounded tape.
func (p Program) Run(out chan<- byte, in <-chan byte) error {
	return Machine{}.Exec(p, out, in)
}

// Execution errors.
var (
	// ErrPointer is returned when a program moves the pointer left of the
	// first cell.
	ErrPointer = errors.New("tape: illegal pointer movement")
	// ErrUnbalanced is returned before execution begins when a program's
	// brackets do not match.
	ErrUnbalanced = errors.New("tape: pc out of range")
	// ErrTapeLimit is returned when a program grows the tape past the
	// machine's cell limit.
	ErrTapeLimit = errors.New("tape: cell limit exceeded")
)

// Machine executes programs.
type Machine struct {
	// MaxCells is the largest number of cells a program may use. If it is
	// not positive, the tape is unbounded.
	MaxCells int
}

// Exec runs p, sending output on out and receiving input from in. Receiving
// from a closed input channel yields 0. Exec does not close out.
func (m Machine) Exec(p Program, out chan<- byte, in <-chan byte) error {
	jump, err := match(p.ops)
	if err != nil {
		return err
	}
	mem := []byte{0}
	ptr := 0
	for pc := 0; pc < len(p.ops); pc++ {
		switch p.ops[pc] {
		case Left:
			if ptr == 0 {
				return fmt.Errorf("%w at %d", ErrPointer, pc)
			}
			ptr--
		case Right:
			ptr++
			if ptr == len(mem) {
				if m.MaxCells > 0 && len(mem) >= m.MaxCells {
					return fmt.Errorf("%w (%d cells)", ErrTapeLimit, m.MaxCells)
				}
				mem = append(mem, 0)
			}
		case Inc:
			mem[ptr]++
		case Dec:
			mem[ptr]--
		case Put:
			out <- mem[ptr]
		case Get:
			mem[ptr] = <-in
		case Open:
			if mem[ptr] == 0 {
				pc = jump[pc]
			}
		case Close:
			if mem[ptr] != 0 {
				pc = jump[pc]
			}
		}
	}
	return nil
}

// match pairs each bracket with its partner.
func match(ops []Op) (map[int]int, error) {
	var jump map[int]int
	var stack []int
	for pc, op := range ops {
		switch op {
		case Open:
			stack = append(stack, pc)
		case Close:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unmatched ] at %d", ErrUnbalanced, pc)
			}
			if jump == nil {
				jump = make(map[int]int)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[open] = pc
			jump[pc] = open
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unmatched [ at %d", ErrUnbalanced, stack[len(stack)-1])
	}
	return jump, nil
}
