package tapert

import "errors"

// Calc evaluates v using m.
//
// Str, Lambda, and Nil evaluate to copies of themselves. A Macro evaluates to
// the Lambda its expansion produces, or to Nil if the machine signals
// Continue. An If evaluates its predicate and then exactly one branch. A Call
// evaluates its callee, which must produce a Lambda, and then hands the code
// and the unevaluated arguments to m.Run.
//
// The returned error is either Quit or an *EvalError.
func Calc[C ByteCode[C]](v Value[C], m Machine[C]) (Value[C], error) {
	switch v := v.(type) {
	case Nil[C], Str[C], Lambda[C]:
		return Clone[C](v), nil
	case Macro[C]:
		code, err := m.MacroExpand(v.Name)
		if err != nil {
			var sig Signal
			if errors.As(err, &sig) {
				switch sig {
				case Continue:
					return Nil[C]{}, nil
				case Quit:
					return nil, Quit
				}
			}
			return nil, &EvalError{Err: err}
		}
		return Lambda[C]{Code: code}, nil
	case *If[C]:
		p, err := Calc(v.Pred, m)
		if err != nil {
			return nil, err
		}
		if Truthy[C](p) {
			return Calc(v.Then, m)
		}
		return Calc(v.Else, m)
	case *Call[C]:
		f, err := Calc(v.Callee, m)
		if err != nil {
			return nil, err
		}
		l, ok := f.(Lambda[C])
		if !ok {
			return nil, evalErrorf("need callable here, found %s instead", f)
		}
		r, err := m.Run(l.Code, v.Args)
		if err != nil {
			return nil, evalErrorf("runtime error: %w", err)
		}
		if r == nil {
			r = Nil[C]{}
		}
		return r, nil
	}
	panic("tapert: invalid Value")
}
