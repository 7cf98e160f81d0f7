/*
Package tapert implements a small expression runtime whose only primitive
operation is running code on a pluggable machine.

Expressions are trees of six kinds of values:

	'text'        a string
	? p t f       a conditional; p is false if it is nil or the empty string
	`code'        a lambda, compiled by the machine as soon as it is read
	(f args...)   a call of the lambda f; () is nil
	@name~        a macro, expanded by the machine when evaluated

A machine is anything that implements Machine for its own bytecode type. The
evaluator, Calc, never interprets call arguments itself. It hands the raw
argument expressions to the machine's Run method, so a machine can inspect
their structure. Macro expansion may produce code or one of the cooperative
signals Continue and Quit.

REPL drives reading and evaluation one line at a time. Input that ends in the
middle of an expression is buffered and the next line is appended to it, so
expressions may span lines:

	> 'ab
	.. c'
	abc

The tape backend in package backend, with the machine in package tape and
the wire protocol in package invoke, is the machine the tapert command uses.
*/
package tapert
