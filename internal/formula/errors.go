package formula

import (
	"errors"
	"fmt"
)

// ParseErrorKind classifies why a formula was rejected.
type ParseErrorKind string

const (
	EmptyFormula      ParseErrorKind = "empty_formula"
	UnexpectedToken   ParseErrorKind = "unexpected_token"
	UnexpectedEnd     ParseErrorKind = "unexpected_end"
	UnknownIdentifier ParseErrorKind = "unknown_identifier"
	UnbalancedParens  ParseErrorKind = "unbalanced_parens"
	InvalidNumber     ParseErrorKind = "invalid_number"
	TooDeep           ParseErrorKind = "too_deep"
)

// ParseError reports a formula that is outside the grammar. Pos is the
// zero-based character offset of the offending token.
type ParseError struct {
	Kind  ParseErrorKind
	Pos   int
	Token string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyFormula:
		return "formula is empty"
	case UnexpectedEnd:
		return fmt.Sprintf("unexpected end of formula at column %d", e.Pos+1)
	case UnknownIdentifier:
		return fmt.Sprintf("unknown identifier %q at column %d", e.Token, e.Pos+1)
	case UnbalancedParens:
		return fmt.Sprintf("unbalanced parenthesis %q at column %d", e.Token, e.Pos+1)
	case InvalidNumber:
		return fmt.Sprintf("invalid number %q at column %d", e.Token, e.Pos+1)
	case TooDeep:
		return fmt.Sprintf("formula nested too deeply at column %d", e.Pos+1)
	}
	return fmt.Sprintf("unexpected token %q at column %d", e.Token, e.Pos+1)
}

var (
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNonFinite is returned when a result overflows to infinity.
	ErrNonFinite = errors.New("result is not a finite number")
)

// EvalError wraps a runtime failure of a parsed expression.
type EvalError struct {
	Pos int
	Err error
}

func (e *EvalError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%v at column %d", e.Err, e.Pos+1)
	}
	return e.Err.Error()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
