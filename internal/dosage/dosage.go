// Package dosage checks age eligibility and computes a dose from a
// medication rule.
package dosage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jianyou-wu/medical-app/internal/formula"
	"github.com/jianyou-wu/medical-app/internal/numtext"
)

// AgeMarker is the suffix that marks a minimum-age constraint ("6歲以上").
const AgeMarker = "歲以上"

// AgeConstraint is a minimum-age gate.
type AgeConstraint struct {
	MinimumAgeYears float64
}

// ParseAgeConstraint recognises "<number>歲以上", with ASCII or full-width
// digits. Any other text, including the empty string, means there is no
// constraint.
func ParseAgeConstraint(text string) (AgeConstraint, bool) {
	text = numtext.Normalize(text)
	if !strings.HasSuffix(text, AgeMarker) {
		return AgeConstraint{}, false
	}
	v, err := numtext.ParseFloat(strings.TrimSuffix(text, AgeMarker))
	if err != nil || v < 0 {
		return AgeConstraint{}, false
	}
	return AgeConstraint{MinimumAgeYears: v}, true
}

// IneligibleError is returned when the supplied age is below a rule's
// minimum. It is an expected outcome, not a fault.
type IneligibleError struct {
	MinimumAge  float64
	SuppliedAge float64
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("requires age %g or above, got %g", e.MinimumAge, e.SuppliedAge)
}

// CheckEligibility fails with *IneligibleError when a constraint is present
// and age is below it.
func CheckEligibility(age float64, c AgeConstraint, present bool) error {
	if present && age < c.MinimumAgeYears {
		return &IneligibleError{MinimumAge: c.MinimumAgeYears, SuppliedAge: age}
	}
	return nil
}

// Rule is one row of the medication table. Formula holds the raw text; it is
// parsed when a dose is computed so that a broken row only affects itself.
type Rule struct {
	Name            string
	AgeEligibility  string
	Formula         string
	DoseInstruction string
	Symptoms        string
	SideEffects     string
}

// Constraint parses the rule's age-eligibility text.
func (r Rule) Constraint() (AgeConstraint, bool) {
	return ParseAgeConstraint(r.AgeEligibility)
}

// ErrorKind classifies a DoseError.
type ErrorKind string

const (
	Ineligible   ErrorKind = "ineligible"
	ParseFailure ErrorKind = "parse_failure"
	EvalFailure  ErrorKind = "eval_failure"
)

// DoseError is the single error type returned by Compute. Err is one of
// *IneligibleError, *formula.ParseError or *formula.EvalError.
type DoseError struct {
	Kind ErrorKind
	Drug string
	Err  error
}

func (e *DoseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Drug, e.Kind, e.Err)
}

func (e *DoseError) Unwrap() error {
	return e.Err
}

// Dose is a computed dose rounded to two decimals for display.
type Dose struct {
	Drug   string
	Amount float64
}

// Parser turns formula text into an expression. *formula.Cache satisfies it.
type Parser interface {
	Parse(text string) (formula.Expr, error)
}

type parseFunc func(string) (formula.Expr, error)

func (f parseFunc) Parse(text string) (formula.Expr, error) { return f(text) }

// Calculator computes doses, reusing parsed formulas through its Parser.
type Calculator struct {
	parser Parser
}

// NewCalculator returns a calculator backed by p. A nil p parses every
// formula afresh.
func NewCalculator(p Parser) *Calculator {
	if p == nil {
		p = parseFunc(formula.Parse)
	}
	return &Calculator{parser: p}
}

// Compute checks eligibility, then parses and evaluates the rule's formula.
// Eligibility is checked first, so an ineligible patient is reported as such
// even when the formula is malformed.
func (c *Calculator) Compute(rule Rule, weight, age float64) (Dose, error) {
	constraint, present := rule.Constraint()
	if err := CheckEligibility(age, constraint, present); err != nil {
		return Dose{}, &DoseError{Kind: Ineligible, Drug: rule.Name, Err: err}
	}

	expr, err := c.parser.Parse(rule.Formula)
	if err != nil {
		return Dose{}, &DoseError{Kind: ParseFailure, Drug: rule.Name, Err: err}
	}

	v, err := formula.Eval(expr, weight, age)
	if err != nil {
		return Dose{}, &DoseError{Kind: EvalFailure, Drug: rule.Name, Err: err}
	}

	return Dose{Drug: rule.Name, Amount: formula.Round2(v)}, nil
}

// Compute is Calculator.Compute without a formula cache.
func Compute(rule Rule, weight, age float64) (Dose, error) {
	return NewCalculator(nil).Compute(rule, weight, age)
}

// KindOf returns the DoseError kind of err, or "" when err is not a
// *DoseError.
func KindOf(err error) ErrorKind {
	var de *DoseError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
