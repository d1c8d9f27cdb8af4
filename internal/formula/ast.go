package formula

import (
	"strconv"
	"strings"
)

// Var identifies one of the two bound variables a formula may reference.
type Var int

const (
	Weight Var = iota + 1
	Age
)

// identifiers maps accepted spellings to bound variables. The Chinese
// spellings are the ones used in the medication table.
var identifiers = map[string]Var{
	"體重":     Weight,
	"年齡":     Age,
	"weight": Weight,
	"age":    Age,
}

func (v Var) String() string {
	switch v {
	case Weight:
		return "體重"
	case Age:
		return "年齡"
	}
	return "?"
}

// Expr is an immutable arithmetic expression tree. Values are produced by
// Parse only.
type Expr interface {
	String() string
	eval(b bindings) (float64, error)
	walk(fn func(Expr))
}

type bindings struct {
	weight float64
	age    float64
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

// Ident is a reference to a bound variable.
type Ident struct {
	Var Var
}

// Neg is unary minus.
type Neg struct {
	X Expr
}

// Binary is one of + - * /.
type Binary struct {
	Op  byte
	Pos int
	L   Expr
	R   Expr
}

func (n *Num) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n *Ident) String() string {
	return n.Var.String()
}

func (n *Neg) String() string {
	return "-" + n.X.String()
}

func (n *Binary) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(n.L.String())
	b.WriteByte(' ')
	b.WriteByte(n.Op)
	b.WriteByte(' ')
	b.WriteString(n.R.String())
	b.WriteByte(')')
	return b.String()
}

func (n *Num) walk(fn func(Expr))   { fn(n) }
func (n *Ident) walk(fn func(Expr)) { fn(n) }

func (n *Neg) walk(fn func(Expr)) {
	fn(n)
	n.X.walk(fn)
}

func (n *Binary) walk(fn func(Expr)) {
	fn(n)
	n.L.walk(fn)
	n.R.walk(fn)
}

// Vars reports which bound variables the expression references.
func Vars(e Expr) (weight, age bool) {
	e.walk(func(n Expr) {
		if id, ok := n.(*Ident); ok {
			switch id.Var {
			case Weight:
				weight = true
			case Age:
				age = true
			}
		}
	})
	return weight, age
}
