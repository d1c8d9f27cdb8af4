package formula

import (
	"math"
)

// Eval evaluates e with the bound variables substituted. The only possible
// failures are an *EvalError wrapping ErrDivisionByZero or ErrNonFinite.
// e must come from Parse; a nil e panics.
func Eval(e Expr, weight, age float64) (float64, error) {
	if e == nil {
		panic("formula: Eval called with a nil expression")
	}
	v, err := e.eval(bindings{weight: weight, age: age})
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Pos: -1, Err: ErrNonFinite}
	}
	return v, nil
}

func (n *Num) eval(bindings) (float64, error) {
	return n.Value, nil
}

func (n *Ident) eval(b bindings) (float64, error) {
	if n.Var == Age {
		return b.age, nil
	}
	return b.weight, nil
}

func (n *Neg) eval(b bindings) (float64, error) {
	x, err := n.X.eval(b)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

func (n *Binary) eval(b bindings) (float64, error) {
	l, err := n.L.eval(b)
	if err != nil {
		return 0, err
	}
	r, err := n.R.eval(b)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	default:
		if r == 0 {
			return 0, &EvalError{Pos: n.Pos, Err: ErrDivisionByZero}
		}
		return l / r, nil
	}
}

// Round2 rounds half away from zero to two decimal places. Magnitudes too
// large to carry a fractional part are returned unchanged.
func Round2(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}
